package bufview

import (
	"fmt"

	"github.com/target/libdart-sub002/internal/rawtype"
	"github.com/target/libdart-sub002/internal/utils"
)

// ValidationError reports where and why validation rejected a buffer
// (spec §4.6 "must be reported as a parse/format error... cite the
// offending offset and reason"). The public API wraps this as a parse
// error.
type ValidationError struct {
	Offset int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("buffer validation failed at offset %d: %s", e.Offset, e.Reason)
}

func fail(offset int, format string, args ...any) error {
	return &ValidationError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}

// Validate decides whether b, interpreted as a buffer value of raw type
// root starting at byte 0, can be traversed without out-of-bounds access
// or misalignment (spec §4.6). On success it returns the root View; the
// buffer must not be handed to any reader before this returns nil.
func Validate(b []byte, root rawtype.Type) (View, error) {
	v, _, err := validateAt(b, 0, root)
	return v, err
}

// validateAt validates the value of raw type raw starting at offset, and
// returns the view plus the absolute offset immediately following it.
func validateAt(b []byte, offset int, raw rawtype.Type) (View, int, error) {
	if offset < 0 || offset > len(b) {
		return View{}, 0, fail(offset, "offset out of range")
	}
	if offset%rawtype.Alignment(raw) != 0 {
		return View{}, 0, fail(offset, "offset misaligned for %s", raw)
	}
	switch raw {
	case rawtype.Object:
		return validateObject(b, offset)
	case rawtype.Array:
		return validateArray(b, offset)
	case rawtype.SmallString, rawtype.String, rawtype.BigString:
		return validateString(b, offset, raw)
	default:
		return validateFixedScalar(b, offset, raw)
	}
}

func validateFixedScalar(b []byte, offset int, raw rawtype.Type) (View, int, error) {
	view := View{Raw: raw, Bytes: nil}
	length := view.payloadLenForFixed(raw)
	if offset+length > len(b) {
		return View{}, 0, fail(offset, "%s payload exceeds buffer", raw)
	}
	view.Bytes = b[offset:]
	if raw == rawtype.Boolean {
		bv := b[offset]
		if bv != 0 && bv != 1 {
			return View{}, 0, fail(offset, "boolean payload is not 0 or 1")
		}
	}
	return view, offset + length, nil
}

// payloadLenForFixed returns the payload length of any non-string,
// non-aggregate raw type, used before a View.Bytes slice is safely
// boundable.
func (View) payloadLenForFixed(raw rawtype.Type) int {
	switch raw {
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
	default:
		return 0
	}
}

func validateString(b []byte, offset int, raw rawtype.Type) (View, int, error) {
	lenSize := stringLenFieldSize(raw)
	if offset+lenSize > len(b) {
		return View{}, 0, fail(offset, "%s length field exceeds buffer", raw)
	}
	var n int
	switch raw {
	case rawtype.SmallString:
		n = int(b[offset])
		if n > rawtype.SmallStringBound {
			return View{}, 0, fail(offset, "small_string length %d exceeds inline bound", n)
		}
	case rawtype.String:
		n = int(utils.ReadU16(b, offset))
	case rawtype.BigString:
		n = int(utils.ReadU32(b, offset))
	}
	total := lenSize + n + 1
	if offset+total > len(b) {
		return View{}, 0, fail(offset, "%s payload (len %d) exceeds buffer", raw, n)
	}
	if b[offset+lenSize+n] != 0 {
		return View{}, 0, fail(offset, "%s is missing its NUL terminator", raw)
	}
	return View{Raw: raw, Bytes: b[offset:]}, offset + total, nil
}

func validateArray(b []byte, offset int) (View, int, error) {
	if offset+headerSize > len(b) {
		return View{}, 0, fail(offset, "array header exceeds buffer")
	}
	totalBytes := int(utils.ReadU32(b, offset))
	count := int(utils.ReadU32(b, offset+4))
	if totalBytes < headerSize || offset+totalBytes > len(b) {
		return View{}, 0, fail(offset, "array total_bytes %d out of range", totalBytes)
	}
	vtableEnd := offset + headerSize + count*arrayVtableEntrySize
	if vtableEnd > offset+totalBytes {
		return View{}, 0, fail(offset, "array vtable (count %d) exceeds total_bytes", count)
	}
	cursor := vtableEnd
	for i := 0; i < count; i++ {
		entryOff := offset + headerSize + i*arrayVtableEntrySize
		// Vtable offsets are relative to the array's own start.
		childOffset := offset + int(utils.ReadU32(b, entryOff))
		childRaw := rawtype.Type(b[entryOff+4])
		if childOffset < vtableEnd || (childOffset >= offset+totalBytes && childRaw != rawtype.Null) {
			return View{}, 0, fail(entryOff, "array element %d offset %d out of range", i, childOffset)
		}
		aligned := align(cursor, rawtype.Alignment(childRaw))
		if childOffset != aligned {
			return View{}, 0, fail(entryOff, "array element %d offset %d is not the expected aligned position %d", i, childOffset, aligned)
		}
		childView, next, err := validateAt(b, childOffset, childRaw)
		if err != nil {
			return View{}, 0, err
		}
		if next > offset+totalBytes {
			return View{}, 0, fail(childOffset, "array element %d body exceeds total_bytes", i)
		}
		cursor = next
		_ = childView
	}
	return View{Raw: rawtype.Array, Bytes: b[offset : offset+totalBytes]}, offset + totalBytes, nil
}

func validateObject(b []byte, offset int) (View, int, error) {
	if offset+headerSize > len(b) {
		return View{}, 0, fail(offset, "object header exceeds buffer")
	}
	totalBytes := int(utils.ReadU32(b, offset))
	count := int(utils.ReadU32(b, offset+4))
	if totalBytes < headerSize || offset+totalBytes > len(b) {
		return View{}, 0, fail(offset, "object total_bytes %d out of range", totalBytes)
	}
	vtableEnd := offset + headerSize + count*objectVtableEntrySize
	if vtableEnd > offset+totalBytes {
		return View{}, 0, fail(offset, "object vtable (count %d) exceeds total_bytes", count)
	}

	cursor := vtableEnd
	var prevKey string
	haveKey := false
	for i := 0; i < count; i++ {
		entryOff := offset + headerSize + i*objectVtableEntrySize
		// Vtable offsets are relative to the object's own start.
		keyOffset := offset + int(utils.ReadU32(b, entryOff))
		valRaw := rawtype.Type(b[entryOff+4])
		prefixLen := int(b[entryOff+5])
		prefix := b[entryOff+6 : entryOff+8]

		if keyOffset < vtableEnd || keyOffset >= offset+totalBytes {
			return View{}, 0, fail(entryOff, "object pair %d key offset %d out of range", i, keyOffset)
		}

		keyLayout := objectKeyLayout(b[keyOffset:])
		keyView, afterKey, err := validateAt(b, keyOffset, keyLayout)
		if err != nil {
			return View{}, 0, err
		}
		key := keyView.StringValue()

		if prefixLen > 2 || prefixLen > len(key) {
			return View{}, 0, fail(entryOff, "object pair %d key_prefix_len %d inconsistent with key length %d", i, prefixLen, len(key))
		}
		for j := 0; j < prefixLen; j++ {
			if prefix[j] != key[j] {
				return View{}, 0, fail(entryOff, "object pair %d key_prefix does not match stored key", i)
			}
		}

		if haveKey && !rawtype.CanonicalLess(prevKey, key) {
			return View{}, 0, fail(entryOff, "object pair %d key %q is not in canonical order after %q", i, key, prevKey)
		}
		prevKey = key
		haveKey = true

		valOffset := align(afterKey, rawtype.Alignment(valRaw))
		if valOffset != afterKey && valOffset-afterKey >= rawtype.Alignment(valRaw) {
			return View{}, 0, fail(entryOff, "object pair %d value padding exceeds one alignment step", i)
		}
		if valOffset >= offset+totalBytes && valRaw != rawtype.Null {
			return View{}, 0, fail(entryOff, "object pair %d value offset %d out of range", i, valOffset)
		}
		_, afterVal, err := validateAt(b, valOffset, valRaw)
		if err != nil {
			return View{}, 0, err
		}
		if afterVal > offset+totalBytes {
			return View{}, 0, fail(entryOff, "object pair %d value body exceeds total_bytes", i)
		}
		cursor = afterVal
	}
	_ = cursor
	return View{Raw: rawtype.Object, Bytes: b[offset : offset+totalBytes]}, offset + totalBytes, nil
}
