package vector

import (
	"math/big"
)

// Int128 is a signed 128-bit integer in two's complement, stored as a high
// signed word and a low unsigned word. Its value is Hi*2^64 + Lo.
type Int128 struct {
	Hi int64
	Lo uint64
}

var (
	maxInt128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minInt128 = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	lowMask   = new(big.Int).SetUint64(^uint64(0))
)

// Int128FromInt64 sign-extends v.
func Int128FromInt64(v int64) Int128 {
	hi := int64(0)
	if v < 0 {
		hi = -1
	}
	return Int128{Hi: hi, Lo: uint64(v)}
}

// Int128FromBig converts v, reporting false when it does not fit in 128 bits.
func Int128FromBig(v *big.Int) (Int128, bool) {
	if v.Cmp(maxInt128) > 0 || v.Cmp(minInt128) < 0 {
		return Int128{}, false
	}
	lo := new(big.Int).And(v, lowMask)
	hi := new(big.Int).Rsh(v, 64)
	return Int128{Hi: hi.Int64(), Lo: lo.Uint64()}, true
}

// Big returns the value as a new big.Int.
func (x Int128) Big() *big.Int {
	v := big.NewInt(x.Hi)
	v.Lsh(v, 64)
	return v.Add(v, new(big.Int).SetUint64(x.Lo))
}

// Sign returns -1, 0 or +1.
func (x Int128) Sign() int {
	switch {
	case x.Hi < 0:
		return -1
	case x.Hi == 0 && x.Lo == 0:
		return 0
	default:
		return 1
	}
}

// String returns the base-10 form of x.
func (x Int128) String() string {
	return x.Big().String()
}
