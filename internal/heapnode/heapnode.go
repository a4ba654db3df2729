// Package heapnode implements the mutable, pointer-linked tree (spec
// §4.2): objects map strings to child handles, arrays hold ordered child
// handles, and leaves hold inline scalars or a Go string (strings carry
// no reference counter of their own).
// Subtrees are shared via reference-counted handles with copy-on-write on
// mutation (spec §4.2, §9 "avoid duplicating logic per flavor" —
// mutation logic below is written once and works under either refcounter
// flavor via the rc.Counter interface; see internal/rc's doc comment for
// why the heap tree uses that interface instead of generics).
package heapnode

import (
	"github.com/target/libdart-sub002/internal/rawtype"
	"github.com/target/libdart-sub002/internal/rc"
)

// Node is one element of the heap tree. The zero value is not valid; use
// NewObject/NewArray/NewString/NewInteger/NewDecimal/NewBoolean/NewNull.
type Node struct {
	rc  rc.Counter
	raw rawtype.Type

	// Object fields (raw == Object). keys and vals are parallel and kept
	// sorted by the canonical key order at all times (spec §4.3), so
	// ObjectGet can binary-search (spec §5 "heap lookup is O(log n) via
	// an ordered map") and the finalizer needs no separate sort pass.
	keys []string
	vals []*Node

	// Array fields (raw == Array).
	elems []*Node

	// Scalar payload.
	str  string
	i64  int64
	f64  float64
	b    bool
}

// newCounter is stored per-node so that nodes created during mutation
// (copy-on-write splits, new children) are tagged with the same
// refcounter flavor as the tree they were split from, without needing a
// generic type parameter on Node itself.
type newCounter = func() rc.Counter

func atomicFactory() rc.Counter { return rc.NewAtomicCounter() }
func localFactory() rc.Counter  { return rc.NewLocalCounter() }

// AtomicFactory and LocalFactory are the two counter factories the public
// API passes down when constructing a fresh tree.
var (
	AtomicFactory newCounter = atomicFactory
	LocalFactory  newCounter = localFactory
)

func newNode(raw rawtype.Type, factory newCounter) *Node {
	return &Node{rc: factory(), raw: raw}
}

// NewObject creates an empty object node.
func NewObject(factory newCounter) *Node { return newNode(rawtype.Object, factory) }

// NewArray creates an empty array node.
func NewArray(factory newCounter) *Node { return newNode(rawtype.Array, factory) }

// NewString creates a string leaf, selecting the smallest string raw type.
func NewString(s string, factory newCounter) *Node {
	n := newNode(rawtype.IdentifyString(len(s)), factory)
	n.str = s
	return n
}

// NewInteger creates an integer leaf, selecting the smallest integer raw
// type that losslessly holds v.
func NewInteger(v int64, factory newCounter) *Node {
	n := newNode(rawtype.IdentifyInteger(v), factory)
	n.i64 = v
	return n
}

// NewDecimal creates a decimal leaf, preferring binary32 when v round-trips.
func NewDecimal(v float64, factory newCounter) *Node {
	n := newNode(rawtype.IdentifyDecimal(v), factory)
	n.f64 = v
	return n
}

// NewBoolean creates a boolean leaf.
func NewBoolean(v bool, factory newCounter) *Node {
	n := newNode(rawtype.Boolean, factory)
	n.b = v
	return n
}

// NewNull creates a null leaf.
func NewNull(factory newCounter) *Node { return newNode(rawtype.Null, factory) }

// Raw returns the node's raw type.
func (n *Node) Raw() rawtype.Type { return n.raw }

// Kind returns the node's user-visible kind.
func (n *Node) Kind() rawtype.Kind { return rawtype.Simplify(n.raw) }

// Clone returns a handle sharing this node (bumps the refcount); it does
// not deep-copy (spec §4.2 "Copying a handle bumps the count").
func (n *Node) Clone() *Node {
	n.rc.Incr()
	return n
}

// Release drops this handle. If it was the last reference, children (for
// objects/arrays) are released in turn — a cascading drop, mirroring a
// reference-counted destructor (spec §4.2, §5 "released when the last
// handle drops"). Go's GC reclaims the memory regardless; Release exists
// so refcounts stay accurate for Unique()'s copy-on-write check.
func (n *Node) Release() bool {
	if !n.rc.Decr() {
		return false
	}
	switch n.raw {
	case rawtype.Object:
		for _, v := range n.vals {
			v.Release()
		}
	case rawtype.Array:
		for _, v := range n.elems {
			v.Release()
		}
	}
	return true
}

// Unique reports whether n has exactly one owner — the copy-on-write
// trigger condition (spec §4.2).
func (n *Node) Unique() bool { return n.rc.Count() == 1 }

// --- string accessor ---

func (n *Node) StringValue() string { return n.str }

// IntegerValue returns the integer payload.
func (n *Node) IntegerValue() int64 { return n.i64 }

// DecimalValue returns the decimal payload.
func (n *Node) DecimalValue() float64 { return n.f64 }

// BooleanValue returns the boolean payload.
func (n *Node) BooleanValue() bool { return n.b }

// --- object accessors ---

// ObjectSize returns the number of keys (raw must be Object).
func (n *Node) ObjectSize() int { return len(n.keys) }

// ObjectGet returns the child for key and whether it was present (spec
// §4.2 "has_key distinguishes absent keys from present-but-null keys"),
// via binary search over the canonically-ordered key slice.
func (n *Node) ObjectGet(key string) (*Node, bool) {
	if i, ok := n.indexOf(key); ok {
		return n.vals[i], true
	}
	return nil, false
}

// ObjectKeys returns the keys in canonical order (a snapshot copy).
func (n *Node) ObjectKeys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// ObjectEntries returns (key, value) pairs in canonical order. Since the
// heap form keeps keys canonically sorted at all times (spec §4.3), the
// finalizer and canonical-JSON rendering can both use this directly with
// no separate sort pass (spec §4.4 step 2).
func (n *Node) ObjectEntries() ([]string, []*Node) {
	keys := make([]string, len(n.keys))
	copy(keys, n.keys)
	vals := make([]*Node, len(n.vals))
	copy(vals, n.vals)
	return keys, vals
}

// --- array accessors ---

// ArraySize returns the number of elements (raw must be Array).
func (n *Node) ArraySize() int { return len(n.elems) }

// ArrayGet returns the element at index, or nil if out of range (spec
// §4.2 "get(index) return ... a null value if absent / out of range").
func (n *Node) ArrayGet(index int) (*Node, bool) {
	if index < 0 || index >= len(n.elems) {
		return nil, false
	}
	return n.elems[index], true
}

// ArrayElements returns a snapshot copy of the elements.
func (n *Node) ArrayElements() []*Node {
	out := make([]*Node, len(n.elems))
	copy(out, n.elems)
	return out
}
