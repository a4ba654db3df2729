package dart

import "github.com/target/libdart-sub002/internal/rawtype"

// Kind is the seven-member user-visible sum type every value answers via
// Kind() (spec §3, §4.1).
type Kind = rawtype.Kind

const (
	Object  = rawtype.KindObject
	Array   = rawtype.KindArray
	String  = rawtype.KindString
	Integer = rawtype.KindInteger
	Decimal = rawtype.KindDecimal
	Boolean = rawtype.KindBoolean
	Null    = rawtype.KindNull
)
