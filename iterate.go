package dart

import (
	"github.com/target/libdart-sub002/internal/bufview"
	"github.com/target/libdart-sub002/internal/heapnode"
)

// Iteration (spec §4.2: "Two iterator flavors per aggregate: value
// iterator and key iterator (objects only)... forward iterators over a
// snapshot of the aggregate at iterator-construction time"). Each
// iterator below snapshots the aggregate's keys/children once, up
// front, so later mutation of the source aggregate cannot be observed
// through it. Reading the current element before the first Next() call
// or after Next() has returned false is a state error (spec §7
// StateError) rather than a panic.

// HeapValueIter is a forward iterator over an object's values or an
// array's elements.
type HeapValueIter[F Flavor] struct {
	nodes []*heapnode.Node
	i     int
}

// ValueIter returns a value iterator over h, or a type error if h is
// neither an object nor an array.
func (h Heap[F]) ValueIter() (*HeapValueIter[F], error) {
	switch h.Kind() {
	case Object:
		_, vals := h.node.ObjectEntries()
		return &HeapValueIter[F]{nodes: vals, i: -1}, nil
	case Array:
		return &HeapValueIter[F]{nodes: h.node.ArrayElements(), i: -1}, nil
	default:
		return nil, newTypeError("value_iter() called on kind %s", h.Kind())
	}
}

// Next advances the iterator, reporting whether a value is available.
func (it *HeapValueIter[F]) Next() bool {
	it.i++
	return it.i < len(it.nodes)
}

func (it *HeapValueIter[F]) inBounds() bool { return it.i >= 0 && it.i < len(it.nodes) }

// Value returns the current value, or a state error if called before the
// first Next() or after iteration is exhausted.
func (it *HeapValueIter[F]) Value() (Heap[F], error) {
	if !it.inBounds() {
		return Heap[F]{}, newStateError("value_iter: Value() called outside a valid Next() position")
	}
	return Heap[F]{node: it.nodes[it.i]}, nil
}

// HeapKeyIter is a forward iterator over an object's keys.
type HeapKeyIter[F Flavor] struct {
	keys []string
	i    int
}

// KeyIter returns a key iterator over h, or a type error if h is not an object.
func (h Heap[F]) KeyIter() (*HeapKeyIter[F], error) {
	if h.Kind() != Object {
		return nil, newTypeError("key_iter() called on kind %s", h.Kind())
	}
	return &HeapKeyIter[F]{keys: h.node.ObjectKeys(), i: -1}, nil
}

func (it *HeapKeyIter[F]) Next() bool {
	it.i++
	return it.i < len(it.keys)
}

// Key returns the current key, or a state error outside a valid Next() position.
func (it *HeapKeyIter[F]) Key() (string, error) {
	if it.i < 0 || it.i >= len(it.keys) {
		return "", newStateError("key_iter: Key() called outside a valid Next() position")
	}
	return it.keys[it.i], nil
}

// HeapPairIter is a forward iterator over an object's (key, value) pairs.
type HeapPairIter[F Flavor] struct {
	keys  []string
	nodes []*heapnode.Node
	i     int
}

// PairIter returns a combined key/value iterator over h, or a type error
// if h is not an object.
func (h Heap[F]) PairIter() (*HeapPairIter[F], error) {
	if h.Kind() != Object {
		return nil, newTypeError("pair_iter() called on kind %s", h.Kind())
	}
	keys, vals := h.node.ObjectEntries()
	return &HeapPairIter[F]{keys: keys, nodes: vals, i: -1}, nil
}

func (it *HeapPairIter[F]) Next() bool {
	it.i++
	return it.i < len(it.keys)
}

// Pair returns the current (key, value), or a state error outside a valid
// Next() position.
func (it *HeapPairIter[F]) Pair() (string, Heap[F], error) {
	if it.i < 0 || it.i >= len(it.keys) {
		return "", Heap[F]{}, newStateError("pair_iter: Pair() called outside a valid Next() position")
	}
	return it.keys[it.i], Heap[F]{node: it.nodes[it.i]}, nil
}

// --- Buffer iteration ---

// BufferValueIter is a forward iterator over an object's values or an
// array's elements, in buffer form.
type BufferValueIter[F Flavor] struct {
	views []bufview.View
	i     int
}

func (b Buffer[F]) ValueIter() (*BufferValueIter[F], error) {
	switch b.Kind() {
	case Object:
		_, vals := b.view.ObjectEntries()
		return &BufferValueIter[F]{views: vals, i: -1}, nil
	case Array:
		return &BufferValueIter[F]{views: b.view.ArrayElements(), i: -1}, nil
	default:
		return nil, newTypeError("value_iter() called on kind %s", b.Kind())
	}
}

func (it *BufferValueIter[F]) Next() bool {
	it.i++
	return it.i < len(it.views)
}

// Value returns the current value, or a state error outside a valid
// Next() position.
func (it *BufferValueIter[F]) Value() (Buffer[F], error) {
	if it.i < 0 || it.i >= len(it.views) {
		return Buffer[F]{}, newStateError("value_iter: Value() called outside a valid Next() position")
	}
	return Buffer[F]{view: it.views[it.i]}, nil
}

// BufferKeyIter is a forward iterator over an object's keys, in buffer form.
type BufferKeyIter[F Flavor] struct {
	keys []string
	i    int
}

func (b Buffer[F]) KeyIter() (*BufferKeyIter[F], error) {
	if b.Kind() != Object {
		return nil, newTypeError("key_iter() called on kind %s", b.Kind())
	}
	return &BufferKeyIter[F]{keys: b.view.ObjectKeys(), i: -1}, nil
}

func (it *BufferKeyIter[F]) Next() bool {
	it.i++
	return it.i < len(it.keys)
}

// Key returns the current key, or a state error outside a valid Next() position.
func (it *BufferKeyIter[F]) Key() (string, error) {
	if it.i < 0 || it.i >= len(it.keys) {
		return "", newStateError("key_iter: Key() called outside a valid Next() position")
	}
	return it.keys[it.i], nil
}

// BufferPairIter is a forward iterator over an object's (key, value)
// pairs, in buffer form.
type BufferPairIter[F Flavor] struct {
	keys  []string
	views []bufview.View
	i     int
}

func (b Buffer[F]) PairIter() (*BufferPairIter[F], error) {
	if b.Kind() != Object {
		return nil, newTypeError("pair_iter() called on kind %s", b.Kind())
	}
	keys, vals := b.view.ObjectEntries()
	return &BufferPairIter[F]{keys: keys, views: vals, i: -1}, nil
}

func (it *BufferPairIter[F]) Next() bool {
	it.i++
	return it.i < len(it.keys)
}

// Pair returns the current (key, value), or a state error outside a valid
// Next() position.
func (it *BufferPairIter[F]) Pair() (string, Buffer[F], error) {
	if it.i < 0 || it.i >= len(it.keys) {
		return "", Buffer[F]{}, newStateError("pair_iter: Pair() called outside a valid Next() position")
	}
	return it.keys[it.i], Buffer[F]{view: it.views[it.i]}, nil
}
