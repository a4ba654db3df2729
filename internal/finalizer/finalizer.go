// Package finalizer converts a heap tree (internal/heapnode) into the
// immutable buffer form (internal/bufview can read what this package
// writes), per spec §4.4.
package finalizer

import (
	"github.com/target/libdart-sub002/internal/heapnode"
	"github.com/target/libdart-sub002/internal/rawtype"
	"github.com/target/libdart-sub002/internal/utils"
)

const (
	headerSize            = 8
	arrayVtableEntrySize  = 8
	objectVtableEntrySize = 8
)

func align(offset, alignment int) int {
	if alignment <= 1 {
		return offset
	}
	if rem := offset % alignment; rem != 0 {
		return offset + (alignment - rem)
	}
	return offset
}

// Finalize walks root bottom-up and returns a freshly allocated,
// canonically-encoded buffer (spec §4.4). The two equal heap values
// produce byte-identical buffers invariant follows from object keys
// always being laid out in canonical order (internal/heapnode keeps them
// sorted already) and every scalar using the minimal raw type chosen at
// construction time (internal/rawtype.IdentifyString/Integer/Decimal).
func Finalize(root *heapnode.Node) ([]byte, error) {
	bound, err := boundSize(root)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateBufferSize(bound, utils.MaxBufferSize, "finalized buffer"); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, bound)
	buf = buf[:cap(buf)]
	e := &encoder{buf: buf}
	e.write(root)
	return e.buf[:e.cursor], nil
}

// boundSize computes an upper bound on the encoded size of node,
// including the maximum alignment padding that could be required at each
// step (spec §4.4 step 3), using overflow-checked arithmetic throughout
// since lengths ultimately originate from heap values a caller built
// (internal/utils.SafeAdd/SafeMultiply).
func boundSize(node *heapnode.Node) (uint64, error) {
	switch node.Raw() {
	case rawtype.SmallString, rawtype.String, rawtype.BigString:
		if err := utils.ValidateBufferSize(uint64(len(node.StringValue())), utils.MaxStringLen, "string value"); err != nil {
			return 0, err
		}
		lenField := stringLenFieldSize(node.Raw())
		return utils.SafeAdd(uint64(lenField)+1, uint64(len(node.StringValue())))
	case rawtype.ShortInteger:
		return 2, nil
	case rawtype.Integer, rawtype.Decimal:
		return 4, nil
	case rawtype.LongInteger, rawtype.LongDecimal:
		return 8, nil
	case rawtype.Boolean:
		return 1, nil
	case rawtype.Null:
		return 0, nil
	case rawtype.Object:
		return boundObject(node)
	case rawtype.Array:
		return boundArray(node)
	default:
		return 0, nil
	}
}

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

func boundArray(node *heapnode.Node) (uint64, error) {
	elems := node.ArrayElements()
	vtableSize, err := utils.SafeMultiply(uint64(len(elems)), arrayVtableEntrySize)
	if err != nil {
		return 0, err
	}
	total, err := utils.SafeAdd(headerSize, vtableSize)
	if err != nil {
		return 0, err
	}
	for _, child := range elems {
		pad := uint64(rawtype.Alignment(child.Raw()) - 1)
		childBound, err := boundSize(child)
		if err != nil {
			return 0, err
		}
		total, err = utils.SafeAdd(total, pad)
		if err != nil {
			return 0, err
		}
		total, err = utils.SafeAdd(total, childBound)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

func boundObject(node *heapnode.Node) (uint64, error) {
	keys, vals := node.ObjectEntries()
	vtableSize, err := utils.SafeMultiply(uint64(len(keys)), objectVtableEntrySize)
	if err != nil {
		return 0, err
	}
	total, err := utils.SafeAdd(headerSize, vtableSize)
	if err != nil {
		return 0, err
	}
	for i, key := range keys {
		keyRaw := rawtype.IdentifyString(len(key))
		keyBound, err := utils.SafeAdd(uint64(stringLenFieldSize(keyRaw))+1, uint64(len(key)))
		if err != nil {
			return 0, err
		}
		total, err = utils.SafeAdd(total, uint64(rawtype.Alignment(keyRaw)-1))
		if err != nil {
			return 0, err
		}
		total, err = utils.SafeAdd(total, keyBound)
		if err != nil {
			return 0, err
		}

		child := vals[i]
		total, err = utils.SafeAdd(total, uint64(rawtype.Alignment(child.Raw())-1))
		if err != nil {
			return 0, err
		}
		childBound, err := boundSize(child)
		if err != nil {
			return 0, err
		}
		total, err = utils.SafeAdd(total, childBound)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// encoder writes into a pre-allocated buffer, tracking a single cursor;
// aggregates reserve their header+vtable up front and patch total_bytes
// once their children are written (spec §4.4 step 4).
type encoder struct {
	buf    []byte
	cursor int
}

// write encodes node starting at the encoder's current cursor (which the
// caller must have already aligned for node.Raw()) and returns the
// absolute offset the value started at.
func (e *encoder) write(node *heapnode.Node) int {
	start := e.cursor
	switch node.Raw() {
	case rawtype.SmallString:
		e.writeString(node.StringValue(), 1)
	case rawtype.String:
		e.writeString(node.StringValue(), 2)
	case rawtype.BigString:
		e.writeString(node.StringValue(), 4)
	case rawtype.ShortInteger:
		utils.PutU16(e.buf, e.cursor, uint16(int16(node.IntegerValue())))
		e.cursor += 2
	case rawtype.Integer:
		utils.PutU32(e.buf, e.cursor, uint32(int32(node.IntegerValue())))
		e.cursor += 4
	case rawtype.LongInteger:
		utils.PutU64(e.buf, e.cursor, uint64(node.IntegerValue()))
		e.cursor += 8
	case rawtype.Decimal:
		utils.PutU32(e.buf, e.cursor, float32Bits(node.DecimalValue()))
		e.cursor += 4
	case rawtype.LongDecimal:
		utils.PutU64(e.buf, e.cursor, float64Bits(node.DecimalValue()))
		e.cursor += 8
	case rawtype.Boolean:
		if node.BooleanValue() {
			e.buf[e.cursor] = 1
		} else {
			e.buf[e.cursor] = 0
		}
		e.cursor++
	case rawtype.Null:
		// zero bytes
	case rawtype.Object:
		e.writeObject(node)
	case rawtype.Array:
		e.writeArray(node)
	}
	return start
}

func (e *encoder) writeString(s string, lenFieldSize int) {
	switch lenFieldSize {
	case 1:
		e.buf[e.cursor] = byte(len(s))
	case 2:
		utils.PutU16(e.buf, e.cursor, uint16(len(s)))
	case 4:
		utils.PutU32(e.buf, e.cursor, uint32(len(s)))
	}
	copy(e.buf[e.cursor+lenFieldSize:], s)
	e.buf[e.cursor+lenFieldSize+len(s)] = 0
	e.cursor += lenFieldSize + len(s) + 1
}

func (e *encoder) writeArray(node *heapnode.Node) {
	start := e.cursor
	elems := node.ArrayElements()
	e.cursor += headerSize
	vtableStart := e.cursor
	e.cursor += len(elems) * arrayVtableEntrySize

	for i, child := range elems {
		e.cursor = align(e.cursor, rawtype.Alignment(child.Raw()))
		childStart := e.write(child)
		entryOff := vtableStart + i*arrayVtableEntrySize
		utils.PutU32(e.buf, entryOff, uint32(childStart-start))
		e.buf[entryOff+4] = byte(child.Raw())
	}

	totalBytes := e.cursor - start
	utils.PutU32(e.buf, start, uint32(totalBytes))
	utils.PutU32(e.buf, start+4, uint32(len(elems)))
}

func (e *encoder) writeObject(node *heapnode.Node) {
	start := e.cursor
	keys, vals := node.ObjectEntries()
	e.cursor += headerSize
	vtableStart := e.cursor
	e.cursor += len(keys) * objectVtableEntrySize

	for i, key := range keys {
		keyRaw := rawtype.IdentifyString(len(key))
		e.cursor = align(e.cursor, rawtype.Alignment(keyRaw))
		keyStart := e.cursor
		e.writeString(key, stringLenFieldSize(keyRaw))

		child := vals[i]
		e.cursor = align(e.cursor, rawtype.Alignment(child.Raw()))
		e.write(child)

		entryOff := vtableStart + i*objectVtableEntrySize
		utils.PutU32(e.buf, entryOff, uint32(keyStart-start))
		e.buf[entryOff+4] = byte(child.Raw())

		prefixLen := len(key)
		if prefixLen > 2 {
			prefixLen = 2
		}
		e.buf[entryOff+5] = byte(prefixLen)
		for j := 0; j < prefixLen; j++ {
			e.buf[entryOff+6+j] = key[j]
		}
	}

	totalBytes := e.cursor - start
	utils.PutU32(e.buf, start, uint32(totalBytes))
	utils.PutU32(e.buf, start+4, uint32(len(keys)))
}
