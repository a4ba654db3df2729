// Package rc provides the two reference-counter flavors shared by heap
// nodes and buffer owners (spec §4.2, §4.3, §5): Atomic, safe to share and
// drop across goroutines, and Local, cheaper but confined to one
// goroutine. The split is a type-level distinction, not a runtime flag
// (spec §9 "Open questions").
//
// Box[V, T, PT] below is a generic owner for a single non-recursive
// value: Box[[]byte, Atomic, *Atomic] and Box[[]byte, Local, *Local] are
// different types that the compiler will not let a caller confuse. The
// public Buffer type does not use Box: it holds only a view of its bytes,
// which the garbage collector keeps alive, and carries no reference count.
// The heap form's owner is a recursive tree node (spec §4.2) whose
// mutation already has to dispatch dynamically node-by-node during
// copy-on-write, so internal/heapnode uses the plain Counter interface
// exported here instead of threading three type parameters through every
// tree operation — the type-level split is enforced one layer up, at the
// public Heap[C] wrapper, which is what spec §4.2 actually promises
// ("a value tagged with one flavor cannot interoperate with a value
// tagged with the other").
package rc

import "sync/atomic"

// Counter is the shared contract both flavors implement.
type Counter interface {
	Incr()
	Decr() bool // true exactly once, when the count reaches zero
	Count() int32
}

// Atomic is a reference-counter flavor safe to share and drop from
// multiple goroutines concurrently (spec §4.2 "thread-safe").
type Atomic struct {
	n atomic.Int32
}

func (c *Atomic) Incr()        { c.n.Add(1) }
func (c *Atomic) Decr() bool   { return c.n.Add(-1) == 0 }
func (c *Atomic) Count() int32 { return c.n.Load() }

// Local is a reference-counter flavor that is cheaper than Atomic but must
// not be incremented or decremented from more than one goroutine (spec
// §4.2 "thread-local", §5 "handles must not be dropped from a thread
// other than the one that obtained them").
type Local struct {
	n int32
}

func (c *Local) Incr()        { c.n++ }
func (c *Local) Decr() bool   { c.n--; return c.n == 0 }
func (c *Local) Count() int32 { return c.n }

// NewAtomicCounter and NewLocalCounter return a fresh Counter with a count
// of one, for callers (like internal/heapnode) that want the dynamic
// interface rather than the generic Box below.
func NewAtomicCounter() Counter { c := &Atomic{}; c.Incr(); return c }
func NewLocalCounter() Counter  { c := &Local{}; c.Incr(); return c }

// Box owns a value of type V behind a reference counter of concrete type T
// (Atomic or Local), accessed through PT = *T. Cloning a Box bumps the
// counter; Release drops it and returns true the first time the count
// reaches zero — the caller should free the payload exactly then.
type Box[V any, T any, PT interface {
	*T
	Counter
}] struct {
	rc    PT
	Value V
}

// New creates a Box with a reference count of one.
func New[V any, T any, PT interface {
	*T
	Counter
}](v V) *Box[V, T, PT] {
	var t T
	pt := PT(&t)
	pt.Incr()
	return &Box[V, T, PT]{rc: pt, Value: v}
}

// Clone increments the reference count and returns the same Box, mirroring
// the handle-copy semantics of spec §4.2 ("Copying a handle bumps the
// count").
func (b *Box[V, T, PT]) Clone() *Box[V, T, PT] {
	b.rc.Incr()
	return b
}

// Release decrements the reference count and reports whether this was the
// last reference (spec §4.2 "dropping releases the node when the count
// reaches zero").
func (b *Box[V, T, PT]) Release() bool {
	return b.rc.Decr()
}

// RefCount returns the current reference count, for tests and diagnostics.
func (b *Box[V, T, PT]) RefCount() int32 {
	return b.rc.Count()
}

// Unique reports whether this Box has exactly one owner, the trigger
// condition for copy-on-write (spec §4.2 "first ensure the receiver node
// is uniquely owned").
func (b *Box[V, T, PT]) Unique() bool {
	return b.rc.Count() == 1
}

// AtomicBox and LocalBox hide the three-type-parameter Box instantiation
// behind the two flavors callers actually choose between.
type (
	AtomicBox[V any] = Box[V, Atomic, *Atomic]
	LocalBox[V any]  = Box[V, Local, *Local]
)

// NewAtomic and NewLocal construct a Box of the corresponding flavor.
func NewAtomic[V any](v V) *AtomicBox[V] { return New[V, Atomic, *Atomic](v) }
func NewLocal[V any](v V) *LocalBox[V]   { return New[V, Local, *Local](v) }
