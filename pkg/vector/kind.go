package vector

import (
	"strings"

	"github.com/ajitpratap0/orcvector/pkg/errors"
)

// Kind identifies the concrete shape of a batch
type Kind int

const (
	KindLong Kind = iota
	KindDouble
	KindBytes
	KindTimestamp
	KindDecimal64
	KindDecimal128
	KindStruct
	KindList
	KindMap
	KindUnion
)

var kindNames = [...]string{
	KindLong:       "long",
	KindDouble:     "double",
	KindBytes:      "bytes",
	KindTimestamp:  "timestamp",
	KindDecimal64:  "decimal64",
	KindDecimal128: "decimal128",
	KindStruct:     "struct",
	KindList:       "list",
	KindMap:        "map",
	KindUnion:      "union",
}

var kindLabels = [...]string{
	KindLong:       "Long vector",
	KindDouble:     "Double vector",
	KindBytes:      "Byte vector",
	KindTimestamp:  "Timestamp vector",
	KindDecimal64:  "Decimal64 vector",
	KindDecimal128: "Decimal128 vector",
	KindStruct:     "Struct vector",
	KindList:       "List vector",
	KindMap:        "Map vector",
	KindUnion:      "Union vector",
}

// String returns the lowercase kind name used in layouts and metric labels.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Label returns the prefix used in batch descriptions.
func (k Kind) Label() string {
	if k < 0 || int(k) >= len(kindLabels) {
		return "Unknown vector"
	}
	return kindLabels[k]
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	ks := make([]Kind, len(kindNames))
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

// Composite reports whether batches of this kind hold child batches.
func (k Kind) Composite() bool {
	switch k {
	case KindStruct, KindList, KindMap, KindUnion:
		return true
	default:
		return false
	}
}

// ParseKind resolves a kind name, ignoring case.
func ParseKind(name string) (Kind, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for k, n := range kindNames {
		if n == lower {
			return Kind(k), nil
		}
	}
	return 0, errors.New(errors.ErrorTypeValidation, "unknown batch kind").
		WithDetail("kind", name)
}
