// Package dart implements the dual heap/buffer representation for
// structured, JSON-compatible values described by spec.md: a mutable
// pointer-linked tree used during construction, and an immutable flat
// byte buffer whose layout supports keyed lookup and iteration without
// parsing. See internal/heapnode, internal/bufview, internal/finalizer
// and internal/definalizer for the representations and the conversions
// between them; this file is the public surface gluing them together.
package dart

import (
	"github.com/target/libdart-sub002/internal/bufview"
	"github.com/target/libdart-sub002/internal/definalizer"
	"github.com/target/libdart-sub002/internal/finalizer"
	"github.com/target/libdart-sub002/internal/heapnode"
	"github.com/target/libdart-sub002/internal/rawtype"
	"github.com/target/libdart-sub002/internal/rc"
)

// Flavor is the reference-counter flavor a Heap or Buffer is tagged
// with: rc.Atomic (thread-safe) or rc.Local (thread-confined, cheaper).
// A value tagged with one flavor cannot interoperate with a value tagged
// with the other — a compile-time, type-level distinction (spec §4.2,
// §9), not a runtime flag.
type Flavor interface {
	rc.Atomic | rc.Local
}

// factoryFor resolves F's zero value to the matching internal/heapnode
// counter factory. Go's generic type sets do not propagate a union
// constraint's members' own methods to the type parameter itself
// (there is no way to declare "*F implements rc.Counter" from a
// {rc.Atomic | rc.Local} union alone), so the dispatch happens once,
// dynamically, via a type switch on the boxed zero value — the same
// reason internal/heapnode's recursive tree stores rc.Counter as an
// interface rather than threading three type parameters through every
// node (see internal/rc's package doc).
func factoryFor[F Flavor]() func() rc.Counter {
	var zero F
	switch any(zero).(type) {
	case rc.Local:
		return heapnode.LocalFactory
	default:
		return heapnode.AtomicFactory
	}
}

// Heap is a mutable, pointer-linked value (spec §4.2). AtomicHeap and
// LocalHeap are the two concrete flavors most callers use.
type Heap[F Flavor] struct {
	node *heapnode.Node
}

// Buffer is an immutable, flat value backed by a byte region (spec
// §4.3). Child views returned by Get/GetIndex/iteration share the same
// underlying bytes; no copy is made.
type Buffer[F Flavor] struct {
	view bufview.View
}

type (
	// AtomicHeap is a Heap whose handles may be shared and dropped from
	// multiple goroutines concurrently.
	AtomicHeap = Heap[rc.Atomic]
	// LocalHeap is a Heap whose handles are cheaper but confined to a
	// single goroutine.
	LocalHeap = Heap[rc.Local]
	// AtomicBuffer is a Buffer whose byte-region owner is thread-safe.
	AtomicBuffer = Buffer[rc.Atomic]
	// LocalBuffer is a Buffer whose byte-region owner is thread-confined.
	LocalBuffer = Buffer[rc.Local]
)

// --- Heap constructors ---

// NewObject returns an empty object.
func NewObject[F Flavor]() Heap[F] {
	return Heap[F]{node: heapnode.NewObject(factoryFor[F]())}
}

// NewArray returns an empty array.
func NewArray[F Flavor]() Heap[F] {
	return Heap[F]{node: heapnode.NewArray(factoryFor[F]())}
}

// NewString returns a string leaf.
func NewString[F Flavor](s string) Heap[F] {
	return Heap[F]{node: heapnode.NewString(s, factoryFor[F]())}
}

// NewInteger returns an integer leaf.
func NewInteger[F Flavor](v int64) Heap[F] {
	return Heap[F]{node: heapnode.NewInteger(v, factoryFor[F]())}
}

// NewDecimal returns a decimal leaf.
func NewDecimal[F Flavor](v float64) Heap[F] {
	return Heap[F]{node: heapnode.NewDecimal(v, factoryFor[F]())}
}

// NewBoolean returns a boolean leaf.
func NewBoolean[F Flavor](v bool) Heap[F] {
	return Heap[F]{node: heapnode.NewBoolean(v, factoryFor[F]())}
}

// NewNull returns a null leaf.
func NewNull[F Flavor]() Heap[F] {
	return Heap[F]{node: heapnode.NewNull(factoryFor[F]())}
}

// Atomic-flavor convenience constructors, for the common case where the
// caller does not need thread-confined handles.
func NewAtomicObject() AtomicHeap           { return NewObject[rc.Atomic]() }
func NewAtomicArray() AtomicHeap            { return NewArray[rc.Atomic]() }
func NewAtomicString(s string) AtomicHeap   { return NewString[rc.Atomic](s) }
func NewAtomicInteger(v int64) AtomicHeap   { return NewInteger[rc.Atomic](v) }
func NewAtomicDecimal(v float64) AtomicHeap { return NewDecimal[rc.Atomic](v) }
func NewAtomicBoolean(v bool) AtomicHeap    { return NewBoolean[rc.Atomic](v) }
func NewAtomicNull() AtomicHeap             { return NewNull[rc.Atomic]() }

// --- Heap accessors ---

// Kind returns the value's user-visible kind.
func (h Heap[F]) Kind() Kind { return h.node.Kind() }

func (h Heap[F]) IsObject() bool  { return h.Kind() == Object }
func (h Heap[F]) IsArray() bool   { return h.Kind() == Array }
func (h Heap[F]) IsString() bool  { return h.Kind() == String }
func (h Heap[F]) IsInteger() bool { return h.Kind() == Integer }
func (h Heap[F]) IsDecimal() bool { return h.Kind() == Decimal }
func (h Heap[F]) IsBoolean() bool { return h.Kind() == Boolean }
func (h Heap[F]) IsNull() bool    { return h.Kind() == Null }

// Size returns the number of keys (object), elements (array), or bytes
// (string); it is a type error on any other kind (spec §4.3 "Size
// queries").
func (h Heap[F]) Size() (int, error) {
	switch h.Kind() {
	case Object:
		return h.node.ObjectSize(), nil
	case Array:
		return h.node.ArraySize(), nil
	case String:
		return len(h.node.StringValue()), nil
	default:
		return 0, newTypeError("size() is not defined for kind %s", h.Kind())
	}
}

// AsString returns the string payload, or a type error if not a string.
func (h Heap[F]) AsString() (string, error) {
	if h.Kind() != String {
		return "", newTypeError("as_string() called on kind %s", h.Kind())
	}
	return h.node.StringValue(), nil
}

// AsInteger returns the integer payload, or a type error if not an integer.
func (h Heap[F]) AsInteger() (int64, error) {
	if h.Kind() != Integer {
		return 0, newTypeError("as_integer() called on kind %s", h.Kind())
	}
	return h.node.IntegerValue(), nil
}

// AsDecimal returns the decimal payload, or a type error if not a decimal.
func (h Heap[F]) AsDecimal() (float64, error) {
	if h.Kind() != Decimal {
		return 0, newTypeError("as_decimal() called on kind %s", h.Kind())
	}
	return h.node.DecimalValue(), nil
}

// AsBoolean returns the boolean payload, or a type error if not a boolean.
func (h Heap[F]) AsBoolean() (bool, error) {
	if h.Kind() != Boolean {
		return false, newTypeError("as_boolean() called on kind %s", h.Kind())
	}
	return h.node.BooleanValue(), nil
}

// HasKey reports whether key is present in an object, distinguishing an
// absent key from a present-but-null one (spec §4.2).
func (h Heap[F]) HasKey(key string) bool {
	if h.Kind() != Object {
		return false
	}
	_, ok := h.node.ObjectGet(key)
	return ok
}

// Get returns the child for key, or a null value if absent (spec §4.2:
// "explicitly not an error" — use HasKey to distinguish absence).
func (h Heap[F]) Get(key string) Heap[F] {
	if h.Kind() != Object {
		return NewNull[F]()
	}
	if child, ok := h.node.ObjectGet(key); ok {
		return Heap[F]{node: child}
	}
	return NewNull[F]()
}

// GetIndex returns the element at index, or a null value if out of range.
func (h Heap[F]) GetIndex(index int) Heap[F] {
	if h.Kind() != Array {
		return NewNull[F]()
	}
	if child, ok := h.node.ArrayGet(index); ok {
		return Heap[F]{node: child}
	}
	return NewNull[F]()
}

// At is the strict counterpart to GetIndex: it returns a range error on
// out-of-bounds access instead of a null value (spec §9 design note).
func (h Heap[F]) At(index int) (Heap[F], error) {
	if h.Kind() != Array {
		return Heap[F]{}, newTypeError("at() called on kind %s", h.Kind())
	}
	child, ok := h.node.ArrayGet(index)
	if !ok {
		return Heap[F]{}, newRangeError("index %d out of range (size %d)", index, h.node.ArraySize())
	}
	return Heap[F]{node: child}, nil
}

// --- Heap mutators ---

// Insert sets key to child in an object, returning the (possibly new,
// copy-on-write-split) handle the caller must use afterward.
func (h Heap[F]) Insert(key string, child Heap[F]) (Heap[F], error) {
	if h.Kind() != Object {
		return h, newTypeError("insert() called on kind %s", h.Kind())
	}
	return Heap[F]{node: h.node.ObjectInsert(key, child.node, factoryFor[F]())}, nil
}

// Set is an alias for Insert (spec §6 lists both names with identical
// upsert semantics at this layer).
func (h Heap[F]) Set(key string, child Heap[F]) (Heap[F], error) { return h.Insert(key, child) }

// Erase removes key from an object.
func (h Heap[F]) Erase(key string) (Heap[F], error) {
	if h.Kind() != Object {
		return h, newTypeError("erase() called on kind %s", h.Kind())
	}
	node, _ := h.node.ObjectErase(key, factoryFor[F]())
	return Heap[F]{node: node}, nil
}

// Clear empties an object or array.
func (h Heap[F]) Clear() (Heap[F], error) {
	switch h.Kind() {
	case Object:
		return Heap[F]{node: h.node.ObjectClear(factoryFor[F]())}, nil
	case Array:
		return Heap[F]{node: h.node.ArrayClear(factoryFor[F]())}, nil
	default:
		return h, newTypeError("clear() called on kind %s", h.Kind())
	}
}

// PushBack appends child to an array.
func (h Heap[F]) PushBack(child Heap[F]) (Heap[F], error) {
	if h.Kind() != Array {
		return h, newTypeError("push_back() called on kind %s", h.Kind())
	}
	return Heap[F]{node: h.node.ArrayPushBack(child.node, factoryFor[F]())}, nil
}

// InsertAt inserts child at index in an array, shifting later elements right.
func (h Heap[F]) InsertAt(index int, child Heap[F]) (Heap[F], error) {
	if h.Kind() != Array {
		return h, newTypeError("insert() called on kind %s", h.Kind())
	}
	if index < 0 || index > h.node.ArraySize() {
		return h, newRangeError("insert index %d out of range (size %d)", index, h.node.ArraySize())
	}
	return Heap[F]{node: h.node.ArrayInsert(index, child.node, factoryFor[F]())}, nil
}

// SetAt replaces the element at index in an array.
func (h Heap[F]) SetAt(index int, child Heap[F]) (Heap[F], error) {
	if h.Kind() != Array {
		return h, newTypeError("set() called on kind %s", h.Kind())
	}
	if index < 0 || index >= h.node.ArraySize() {
		return h, newRangeError("set index %d out of range (size %d)", index, h.node.ArraySize())
	}
	return Heap[F]{node: h.node.ArraySetAt(index, child.node, factoryFor[F]())}, nil
}

// EraseAt removes the element at index in an array.
func (h Heap[F]) EraseAt(index int) (Heap[F], error) {
	if h.Kind() != Array {
		return h, newTypeError("erase() called on kind %s", h.Kind())
	}
	if index < 0 || index >= h.node.ArraySize() {
		return h, newRangeError("erase index %d out of range (size %d)", index, h.node.ArraySize())
	}
	return Heap[F]{node: h.node.ArrayEraseAt(index, factoryFor[F]())}, nil
}

// Resize grows or shrinks an array, padding new slots with null.
func (h Heap[F]) Resize(size int) (Heap[F], error) {
	if h.Kind() != Array {
		return h, newTypeError("resize() called on kind %s", h.Kind())
	}
	if size < 0 {
		return h, newRangeError("resize to negative size %d", size)
	}
	return Heap[F]{node: h.node.ArrayResize(size, factoryFor[F]())}, nil
}

// Reserve grows an array's underlying capacity without changing its length.
func (h Heap[F]) Reserve(capacity int) (Heap[F], error) {
	if h.Kind() != Array {
		return h, newTypeError("reserve() called on kind %s", h.Kind())
	}
	return Heap[F]{node: h.node.ArrayReserve(capacity, factoryFor[F]())}, nil
}

// --- Equality ---

// Equal reports whether h and other are structurally equal (spec §4.1).
// It compares two heap values only; a Buffer is compared against a Heap
// by first converting it with Buffer.ToHeap.
func (h Heap[F]) Equal(other Heap[F]) bool {
	return heapnode.Equal(h.node, other.node)
}

// --- Form transitions ---

// Finalize converts h to its buffer form (spec §4.4).
func (h Heap[F]) Finalize() (Buffer[F], error) {
	bytes, err := finalizer.Finalize(h.node)
	if err != nil {
		return Buffer[F]{}, WrapRuntimeError("finalize", err)
	}
	view, verr := bufview.Validate(bytes, h.node.Raw())
	if verr != nil {
		// The finalizer produced bytes its own reader rejects: a bug in
		// this library, not a caller error, but still surfaced through
		// the same error taxonomy rather than a panic.
		return Buffer[F]{}, WrapRuntimeError("finalize produced an invalid buffer", verr)
	}
	return Buffer[F]{view: view}, nil
}

// ToBuffer is an alias for Finalize (spec §6 "to_buffer").
func (h Heap[F]) ToBuffer() (Buffer[F], error) { return h.Finalize() }

// ToHeap is a documented no-op: h is already heap form (spec §6
// "idempotent coercions").
func (h Heap[F]) ToHeap() Heap[F] { return h }

// --- Buffer accessors ---

// Kind returns the value's user-visible kind.
func (b Buffer[F]) Kind() Kind { return rawtype.Simplify(b.view.Raw) }

func (b Buffer[F]) IsObject() bool  { return b.Kind() == Object }
func (b Buffer[F]) IsArray() bool   { return b.Kind() == Array }
func (b Buffer[F]) IsString() bool  { return b.Kind() == String }
func (b Buffer[F]) IsInteger() bool { return b.Kind() == Integer }
func (b Buffer[F]) IsDecimal() bool { return b.Kind() == Decimal }
func (b Buffer[F]) IsBoolean() bool { return b.Kind() == Boolean }
func (b Buffer[F]) IsNull() bool    { return b.Kind() == Null }

// Size mirrors Heap.Size for the buffer form.
func (b Buffer[F]) Size() (int, error) {
	switch b.Kind() {
	case Object, Array, String:
		return b.view.Size(), nil
	default:
		return 0, newTypeError("size() is not defined for kind %s", b.Kind())
	}
}

func (b Buffer[F]) AsString() (string, error) {
	if b.Kind() != String {
		return "", newTypeError("as_string() called on kind %s", b.Kind())
	}
	return b.view.StringValue(), nil
}

func (b Buffer[F]) AsInteger() (int64, error) {
	if b.Kind() != Integer {
		return 0, newTypeError("as_integer() called on kind %s", b.Kind())
	}
	return b.view.IntegerValue(), nil
}

func (b Buffer[F]) AsDecimal() (float64, error) {
	if b.Kind() != Decimal {
		return 0, newTypeError("as_decimal() called on kind %s", b.Kind())
	}
	return b.view.DecimalValue(), nil
}

func (b Buffer[F]) AsBoolean() (bool, error) {
	if b.Kind() != Boolean {
		return false, newTypeError("as_boolean() called on kind %s", b.Kind())
	}
	return b.view.BooleanValue(), nil
}

// HasKey reports whether key is present in an object.
func (b Buffer[F]) HasKey(key string) bool {
	if b.Kind() != Object {
		return false
	}
	_, ok := b.view.ObjectGet(key)
	return ok
}

// Get returns the child view for key, or a null value if absent.
func (b Buffer[F]) Get(key string) Buffer[F] {
	if b.Kind() == Object {
		if child, ok := b.view.ObjectGet(key); ok {
			return Buffer[F]{view: child}
		}
	}
	return Buffer[F]{view: bufview.View{Raw: rawtype.Null}}
}

// GetIndex returns the element view at index, or a null value if out of range.
func (b Buffer[F]) GetIndex(index int) Buffer[F] {
	if b.Kind() == Array {
		if child, ok := b.view.ArrayGet(index); ok {
			return Buffer[F]{view: child}
		}
	}
	return Buffer[F]{view: bufview.View{Raw: rawtype.Null}}
}

// At is the strict counterpart to GetIndex.
func (b Buffer[F]) At(index int) (Buffer[F], error) {
	if b.Kind() != Array {
		return Buffer[F]{}, newTypeError("at() called on kind %s", b.Kind())
	}
	child, ok := b.view.ArrayGet(index)
	if !ok {
		return Buffer[F]{}, newRangeError("index %d out of range (size %d)", index, b.view.Count())
	}
	return Buffer[F]{view: child}, nil
}

// --- Buffer byte access & form transitions ---

// Bytes borrows the underlying byte region for this value (spec §6
// "borrow bytes (non-owning)"); the returned slice shares memory with b
// and must not be retained past b's lifetime if b's owner is released.
func (b Buffer[F]) Bytes() []byte {
	return b.view.Bytes[:b.view.PayloadLen()]
}

// DuplicateBytes returns an owning copy of the underlying byte region
// (spec §6 "duplicate bytes (owning copy)").
func (b Buffer[F]) DuplicateBytes() []byte {
	src := b.Bytes()
	out := make([]byte, len(src))
	copy(out, src)
	return out
}

// NewBufferFromBytes validates bytes as a buffer whose root is an object
// or array — the only well-formed top-level documents on the wire (a
// bare scalar has no vtable to validate against) — and wraps it without
// copying (spec §6 "construct from borrowed bytes"); the caller must not
// mutate bytes afterward.
func NewBufferFromBytes[F Flavor](bytes []byte, root Kind) (Buffer[F], error) {
	raw, err := rawTypeForAggregateKind(root)
	if err != nil {
		return Buffer[F]{}, err
	}
	view, verr := bufview.Validate(bytes, raw)
	if verr != nil {
		return Buffer[F]{}, WrapParseError("validate buffer", verr)
	}
	return Buffer[F]{view: view}, nil
}

// NewBufferTakingOwnership validates and wraps bytes exactly like
// NewBufferFromBytes; the two are distinguished only by caller intent
// (spec §6 "construct by taking ownership of an aligned byte region") —
// Go's garbage collector, not a manual refcount on the slice header,
// reclaims bytes either way, so there is no behavioral difference here.
func NewBufferTakingOwnership[F Flavor](bytes []byte, root Kind) (Buffer[F], error) {
	return NewBufferFromBytes[F](bytes, root)
}

func rawTypeForAggregateKind(k Kind) (rawtype.Type, error) {
	switch k {
	case Object:
		return rawtype.Object, nil
	case Array:
		return rawtype.Array, nil
	default:
		return 0, newTypeError("buffer root kind must be object or array, got %s", k)
	}
}

// ToHeap definalizes b into a fresh heap tree (spec §4.5).
func (b Buffer[F]) ToHeap() Heap[F] {
	return Heap[F]{node: definalizer.Definalize(b.view, factoryFor[F]())}
}

// Lift is an alias for ToHeap (spec §6 supplemented feature: the
// original's lift naming for definalizing a buffer-form view).
func (b Buffer[F]) Lift() Heap[F] { return b.ToHeap() }

// ToBuffer is a documented no-op: b is already buffer form.
func (b Buffer[F]) ToBuffer() Buffer[F] { return b }

// Equal reports whether b and other are structurally equal, by
// definalizing both and comparing as heap trees (spec §4.1: "Two values
// in different forms... that represent the same logical tree compare
// equal").
func (b Buffer[F]) Equal(other Buffer[F]) bool {
	return heapnode.Equal(definalizer.Definalize(b.view, factoryFor[F]()), definalizer.Definalize(other.view, factoryFor[F]()))
}
