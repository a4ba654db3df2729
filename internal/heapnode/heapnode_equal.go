package heapnode

import "github.com/target/libdart-sub002/internal/rawtype"

// Equal reports whether a and b are structurally equal heap values (spec
// §4.1 "equality compares structure and value, not identity"). Objects
// compare by key set plus per-key equality (key order does not matter,
// though in practice both sides are already canonically sorted). Arrays
// compare elementwise in order. Integers and decimals compare only within
// their own kind: an integer 3 and a decimal 3.0 are unequal, since they
// carry different raw types even though they hold the same mathematical
// value (spec §4.1 "cross-kind comparisons are never equal").
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return false
	}
	switch ka {
	case rawtype.KindObject:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for i := range a.keys {
			if a.keys[i] != b.keys[i] {
				return false
			}
			if !Equal(a.vals[i], b.vals[i]) {
				return false
			}
		}
		return true
	case rawtype.KindArray:
		if len(a.elems) != len(b.elems) {
			return false
		}
		for i := range a.elems {
			if !Equal(a.elems[i], b.elems[i]) {
				return false
			}
		}
		return true
	case rawtype.KindString:
		return a.str == b.str
	case rawtype.KindInteger:
		return a.i64 == b.i64
	case rawtype.KindDecimal:
		return a.f64 == b.f64
	case rawtype.KindBoolean:
		return a.b == b.b
	default: // KindNull
		return true
	}
}
