// Package rawtype defines the eleven on-wire raw types (spec §3), their
// natural alignments, the canonical key order (spec §4.3) and the rules
// for choosing the smallest raw type that losslessly represents a scalar
// (spec §4.4 step 1). It has no dependency on either the heap or buffer
// representations so both the finalizer and the definalizer can share it.
package rawtype

import "math"

// Type is the narrow, layout-level type used by the buffer encoding, as
// distinct from the user-visible Kind (spec glossary "Raw type").
type Type uint8

const (
	Object Type = iota
	Array
	SmallString
	String
	BigString
	ShortInteger
	Integer
	LongInteger
	Decimal
	LongDecimal
	Boolean
	Null
)

// String names a raw type for diagnostics.
func (t Type) String() string {
	switch t {
	case Object:
		return "object"
	case Array:
		return "array"
	case SmallString:
		return "small_string"
	case String:
		return "string"
	case BigString:
		return "big_string"
	case ShortInteger:
		return "short_integer"
	case Integer:
		return "integer"
	case LongInteger:
		return "long_integer"
	case Decimal:
		return "decimal"
	case LongDecimal:
		return "long_decimal"
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	default:
		return "unknown"
	}
}

// Kind is the seven-member user-visible sum type (spec §3).
type Kind uint8

const (
	KindObject Kind = iota
	KindArray
	KindString
	KindInteger
	KindDecimal
	KindBoolean
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindDecimal:
		return "decimal"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Simplify collapses a raw type down to its user-visible kind (spec §4.1,
// "each value answers kind()"; ported from the original's
// simplify_type(raw_type)).
func Simplify(t Type) Kind {
	switch t {
	case Object:
		return KindObject
	case Array:
		return KindArray
	case SmallString, String, BigString:
		return KindString
	case ShortInteger, Integer, LongInteger:
		return KindInteger
	case Decimal, LongDecimal:
		return KindDecimal
	case Boolean:
		return KindBoolean
	default:
		return KindNull
	}
}

// SmallStringBound is the implementation-chosen inline small-string bound
// (spec §9 "Open questions": "exact small-string inline bound is an
// implementation tuning parameter"). Strings of this length or shorter are
// encoded as SmallString (1-byte length prefix). The validator rejects a
// small_string longer than this bound and object key layouts are detected
// from it, so buffers produced with a different bound are not accepted.
const SmallStringBound = 15

// ShortStringLimit is the boundary past which a string no longer fits the
// 16-bit String length field (spec §3 table).
const ShortStringLimit = 65535

// Alignment returns the natural alignment, in bytes, of t (spec §4.3
// per-type layout table).
func Alignment(t Type) int {
	switch t {
	case SmallString, Boolean, Null:
		return 1
	case String, ShortInteger:
		return 2
	case BigString, Integer, Decimal:
		return 4
	case LongInteger, LongDecimal, Array, Object:
		return 8
	default:
		return 1
	}
}

// IdentifyString picks the smallest string raw type that can hold a
// string of byteLen bytes (spec §4.4 step 1).
func IdentifyString(byteLen int) Type {
	switch {
	case byteLen <= SmallStringBound:
		return SmallString
	case byteLen <= ShortStringLimit:
		return String
	default:
		return BigString
	}
}

// IdentifyInteger picks the smallest integer raw type that losslessly
// holds v.
func IdentifyInteger(v int64) Type {
	switch {
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return ShortInteger
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return Integer
	default:
		return LongInteger
	}
}

// IdentifyDecimal picks Decimal (binary32) if v round-trips through
// float32 exactly, else LongDecimal (binary64) (spec §3 table).
func IdentifyDecimal(v float64) Type {
	if float64(float32(v)) == v {
		return Decimal
	}
	return LongDecimal
}

// CanonicalLess defines the canonical key order (spec §4.3 "Canonical
// order", glossary): shorter keys sort first; among keys of equal length,
// plain byte comparison.
func CanonicalLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
