package vector

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ajitpratap0/orcvector/pkg/errors"
)

// Decimal is an arbitrary-precision signed integer paired with a scale: the
// number of digits the decimal point is shifted left. A Decimal is immutable.
type Decimal struct {
	value *big.Int
	scale int32
}

// NewDecimal returns value scaled by 10^-scale. value is copied. A negative
// scale fails with an errors.ErrorTypeData error.
func NewDecimal(value *big.Int, scale int32) (Decimal, error) {
	return newDecimal(new(big.Int).Set(value), scale)
}

// newDecimal takes ownership of value.
func newDecimal(value *big.Int, scale int32) (Decimal, error) {
	if scale < 0 {
		return Decimal{}, errors.New(errors.ErrorTypeData, "decimal scale is negative").
			WithDetail("scale", scale)
	}
	return Decimal{value: value, scale: scale}, nil
}

// ParseDecimal builds a Decimal from a literal such as "-45" or "12.5".
//
// A literal without '.' is an integer with scale 0. Otherwise the first '.'
// is removed, the remaining characters form the integer, and the scale is
// len(s) minus the index of the '.'. That count includes the point itself,
// so "12.5" yields value 125 with scale 2 and renders as "1.25".
//
// Literals that are not signed base-10 integers once the point is removed
// fail with an errors.ErrorTypeData error.
func ParseDecimal(s string) (Decimal, error) {
	point := strings.IndexByte(s, '.')
	if point < 0 {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return Decimal{}, invalidLiteral(s)
		}
		return Decimal{value: v}, nil
	}

	scale := int32(len(s) - point)
	v, ok := new(big.Int).SetString(s[:point]+s[point+1:], 10)
	if !ok {
		return Decimal{}, invalidLiteral(s)
	}
	return Decimal{value: v, scale: scale}, nil
}

// MustParseDecimal is ParseDecimal for literals known to be valid.
func MustParseDecimal(s string) Decimal {
	d, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return d
}

func invalidLiteral(s string) error {
	return errors.New(errors.ErrorTypeData, "invalid numeric literal").
		WithDetail("literal", s)
}

// Value returns a copy of the unscaled integer.
func (d Decimal) Value() *big.Int {
	if d.value == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(d.value)
}

// Scale returns the number of fractional digits.
func (d Decimal) Scale() int32 {
	return d.scale
}

// Dec converts d to a shopspring decimal.
func (d Decimal) Dec() decimal.Decimal {
	return decimal.NewFromBigInt(d.Value(), -d.scale)
}

// String renders the value with the decimal point placed scale digits from
// the right, padding with zeros as needed ("-0.05" for -5 at scale 2).
func (d Decimal) String() string {
	return d.Dec().StringFixed(d.scale)
}

// Int128 converts the unscaled value, reporting false on overflow.
func (d Decimal) Int128() (Int128, bool) {
	return Int128FromBig(d.Value())
}
