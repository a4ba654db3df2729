// Package bufview reads the immutable, flat buffer form directly out of a
// []byte with no parsing or allocation beyond offset arithmetic (spec
// §4.3). It is the one package both the definalizer and the public buffer
// API traverse through; the finalizer (internal/finalizer) writes the same
// layout this package reads.
package bufview

import (
	"math"

	"github.com/target/libdart-sub002/internal/rawtype"
	"github.com/target/libdart-sub002/internal/utils"
)

// headerSize is the size, in bytes, of an aggregate's fixed
// total_bytes+element_count header (spec §4.3 "Array layout"/"Object
// layout").
const headerSize = 8

// arrayVtableEntrySize is [u32 offset][u8 raw_type][3 bytes reserved].
const arrayVtableEntrySize = 8

// objectVtableEntrySize is [u32 offset][u8 raw_type][u8 key_prefix_len][u16 key_prefix].
const objectVtableEntrySize = 8

// View is a read-only handle into one value living inside a buffer: its
// raw type and a slice positioned at the start of its own encoding
// (header, for aggregates; length-prefixed payload, for strings; fixed
// payload, for other scalars). Nested Views are built the same way
// recursively, so callers never copy bytes to traverse a buffer.
type View struct {
	Raw   rawtype.Type
	Bytes []byte
}

// align rounds up offset to the next multiple of alignment.
func align(offset, alignment int) int {
	if alignment <= 1 {
		return offset
	}
	rem := offset % alignment
	if rem == 0 {
		return offset
	}
	return offset + (alignment - rem)
}

// TotalBytes reads an aggregate's total_bytes header field.
func (v View) TotalBytes() uint32 {
	return utils.ReadU32(v.Bytes, 0)
}

// Count reads an aggregate's element_count/pair_count header field.
func (v View) Count() int {
	return int(utils.ReadU32(v.Bytes, 4))
}

// Size implements spec §4.3 "Size queries": element_count/pair_count for
// aggregates, the stored length for strings. Scalars other than strings
// have no size here; the public API turns that case into a type error.
func (v View) Size() int {
	switch v.Raw {
	case rawtype.Object, rawtype.Array:
		return v.Count()
	case rawtype.SmallString:
		return int(v.Bytes[0])
	case rawtype.String:
		return int(utils.ReadU16(v.Bytes, 0))
	case rawtype.BigString:
		return int(utils.ReadU32(v.Bytes, 0))
	default:
		return -1
	}
}

// stringLenFieldSize returns the byte width of the length field preceding
// a string's payload, by raw type (spec §4.3 per-type layout table).
func stringLenFieldSize(raw rawtype.Type) int {
	switch raw {
	case rawtype.SmallString:
		return 1
	case rawtype.String:
		return 2
	case rawtype.BigString:
		return 4
	default:
		return 0
	}
}

// StringValue returns the string payload of a small_string/string/big_string view.
func (v View) StringValue() string {
	lenSize := stringLenFieldSize(v.Raw)
	if lenSize == 0 {
		return ""
	}
	n := v.Size()
	return string(v.Bytes[lenSize : lenSize+n])
}

// IntegerValue returns the integer payload, sign-extended to int64.
func (v View) IntegerValue() int64 {
	switch v.Raw {
	case rawtype.ShortInteger:
		return int64(int16(utils.ReadU16(v.Bytes, 0)))
	case rawtype.Integer:
		return int64(int32(utils.ReadU32(v.Bytes, 0)))
	case rawtype.LongInteger:
		return int64(utils.ReadU64(v.Bytes, 0))
	default:
		return 0
	}
}

// DecimalValue returns the decimal payload, widened to float64.
func (v View) DecimalValue() float64 {
	switch v.Raw {
	case rawtype.Decimal:
		return float64(math.Float32frombits(utils.ReadU32(v.Bytes, 0)))
	case rawtype.LongDecimal:
		return math.Float64frombits(utils.ReadU64(v.Bytes, 0))
	default:
		return 0
	}
}

// BooleanValue returns the boolean payload.
func (v View) BooleanValue() bool {
	return v.Bytes[0] != 0
}

// PayloadLen returns the number of bytes this value's own encoding
// occupies — not counting a following sibling or key — so callers can
// advance past it (used by the validator and the definalizer).
func (v View) PayloadLen() int {
	switch v.Raw {
	case rawtype.SmallString:
		return 1 + v.Size() + 1
	case rawtype.String:
		return 2 + v.Size() + 1
	case rawtype.BigString:
		return 4 + v.Size() + 1
	case rawtype.ShortInteger:
		return 2
	case rawtype.Integer, rawtype.Decimal:
		return 4
	case rawtype.LongInteger, rawtype.LongDecimal:
		return 8
	case rawtype.Boolean:
		return 1
	case rawtype.Null:
		return 0
	case rawtype.Object, rawtype.Array:
		return int(v.TotalBytes())
	default:
		return 0
	}
}

// ArrayGet returns the child at index (spec §4.3 "Array get(index):
// bounds-check; read the vtable entry; return the child view").
func (v View) ArrayGet(index int) (View, bool) {
	n := v.Count()
	if index < 0 || index >= n {
		return View{}, false
	}
	entryOff := headerSize + index*arrayVtableEntrySize
	offset := int(utils.ReadU32(v.Bytes, entryOff))
	raw := rawtype.Type(v.Bytes[entryOff+4])
	return View{Raw: raw, Bytes: v.Bytes[offset:]}, true
}

// ArrayElements returns every element view in order.
func (v View) ArrayElements() []View {
	n := v.Count()
	out := make([]View, n)
	for i := 0; i < n; i++ {
		out[i], _ = v.ArrayGet(i)
	}
	return out
}

// objectEntryOffset returns the byte offset of vtable entry i.
func (v View) objectEntryOffset(i int) int {
	return headerSize + i*objectVtableEntrySize
}

// objectKeyLayout classifies which string layout a key at keyBytes was
// written in. A key is always written with the smallest string raw type
// that losslessly holds it (spec §3 table), same rule as any other
// string value, so re-deriving it from the length byte alone is safe: a
// small_string's single length byte is at most SmallStringBound, and any
// larger key would instead have been written as the 2-byte-length
// `string` form (whose low byte could coincidentally look small, but the
// validator has already confirmed a buffer decodes self-consistently
// before readers ever see it, so ambiguity here is not a reachable
// validator-accepted state).
func objectKeyLayout(keyBytes []byte) rawtype.Type {
	if int(keyBytes[0]) <= rawtype.SmallStringBound {
		return rawtype.SmallString
	}
	if int(utils.ReadU16(keyBytes, 0)) <= rawtype.ShortStringLimit {
		return rawtype.String
	}
	return rawtype.BigString
}

// objectEntryKeyView returns the key view stored at vtable entry i's
// offset; the key always precedes its value in the pair layout (spec
// §4.3 "Object layout").
func (v View) objectEntryKeyView(i int) View {
	entryOff := v.objectEntryOffset(i)
	offset := int(utils.ReadU32(v.Bytes, entryOff))
	keyBytes := v.Bytes[offset:]
	return View{Raw: objectKeyLayout(keyBytes), Bytes: keyBytes}
}

// objectEntryValue returns the value view following entry i's key.
func (v View) objectEntryValue(i int) View {
	entryOff := v.objectEntryOffset(i)
	raw := rawtype.Type(v.Bytes[entryOff+4])
	keyOffset := int(utils.ReadU32(v.Bytes, entryOff))
	keyView := v.objectEntryKeyView(i)
	valOffset := align(keyOffset+keyView.PayloadLen(), rawtype.Alignment(raw))
	return View{Raw: raw, Bytes: v.Bytes[valOffset:]}
}

// ObjectGet performs the canonical-order, key-prefix-accelerated binary
// search of spec §4.3 "Object get(key)".
func (v View) ObjectGet(key string) (View, bool) {
	n := v.Count()
	lo, hi := 0, n
	for lo < hi {
		mid := (lo + hi) / 2
		cmp := v.compareEntryKey(mid, key)
		switch {
		case cmp == 0:
			return v.objectEntryValue(mid), true
		case cmp < 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return View{}, false
}

// compareEntryKey compares the key stored at vtable entry i against key
// under the canonical order (shorter first, then bytewise), returning
// -1/0/1 the way sort.Search-style binary search expects: negative when
// the stored key sorts before key. The key_prefix fields let most
// comparisons resolve without re-reading the full stored key (spec §4.3
// "Lookup algorithms").
func (v View) compareEntryKey(i int, key string) int {
	entryOff := v.objectEntryOffset(i)
	prefixLen := int(v.Bytes[entryOff+5])
	prefix := v.Bytes[entryOff+6 : entryOff+8]

	storedKeyView := v.objectEntryKeyView(i)
	storedLen := storedKeyView.Size()

	if storedLen != len(key) {
		if storedLen < len(key) {
			return -1
		}
		return 1
	}
	// Equal length: the prefix alone decides when the whole key is <= 2
	// bytes (prefixLen == storedLen); otherwise it is a fast-reject.
	if prefixLen > 0 {
		n := prefixLen
		if n > len(key) {
			n = len(key)
		}
		if c := compareBytes(prefix[:n], []byte(key)[:n]); c != 0 {
			return c
		}
		if prefixLen == storedLen {
			return 0
		}
	}
	return compareBytes([]byte(storedKeyView.StringValue()), []byte(key))
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// ObjectKeys returns every key in the vtable's stored (canonical) order.
func (v View) ObjectKeys() []string {
	n := v.Count()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = v.objectEntryKeyView(i).StringValue()
	}
	return out
}

// ObjectEntries returns (key, value-view) pairs in vtable order.
func (v View) ObjectEntries() ([]string, []View) {
	n := v.Count()
	keys := make([]string, n)
	vals := make([]View, n)
	for i := 0; i < n; i++ {
		keys[i] = v.objectEntryKeyView(i).StringValue()
		vals[i] = v.objectEntryValue(i)
	}
	return keys, vals
}
