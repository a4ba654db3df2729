package heapnode

import (
	"sort"

	"github.com/target/libdart-sub002/internal/rawtype"
)

// ensureUnique returns a node the caller may mutate in place: either n
// itself, if no other handle shares it, or a fresh private shallow copy
// with its own counter and handle-cloned (not deep-copied) children (spec
// §4.2 "mutating operations first ensure the receiver node is uniquely
// owned; child subtrees are not eagerly cloned").
func (n *Node) ensureUnique(factory newCounter) *Node {
	if n.Unique() {
		return n
	}
	cp := &Node{rc: factory(), raw: n.raw, str: n.str, i64: n.i64, f64: n.f64, b: n.b}
	if n.raw == rawtype.Object {
		cp.keys = append([]string(nil), n.keys...)
		cp.vals = make([]*Node, len(n.vals))
		for i, v := range n.vals {
			cp.vals[i] = v.Clone()
		}
	}
	if n.raw == rawtype.Array {
		cp.elems = make([]*Node, len(n.elems))
		for i, v := range n.elems {
			cp.elems[i] = v.Clone()
		}
	}
	n.Release()
	return cp
}

// indexOf binary-searches the canonically-sorted key slice, returning the
// slot holding key (found) or the slot a new key of that rank would be
// inserted at (not found).
func (n *Node) indexOf(key string) (int, bool) {
	i := sort.Search(len(n.keys), func(i int) bool {
		return !rawtype.CanonicalLess(n.keys[i], key)
	})
	if i < len(n.keys) && n.keys[i] == key {
		return i, true
	}
	return i, false
}

// ObjectInsert sets key to child, replacing any existing value (spec §6
// "insert"). Returns the handle the caller must use from now on.
func (n *Node) ObjectInsert(key string, child *Node, factory newCounter) *Node {
	n = n.ensureUnique(factory)
	i, ok := n.indexOf(key)
	if ok {
		n.vals[i].Release()
		n.vals[i] = child
		return n
	}
	n.keys = append(n.keys, "")
	copy(n.keys[i+1:], n.keys[i:])
	n.keys[i] = key
	n.vals = append(n.vals, nil)
	copy(n.vals[i+1:], n.vals[i:])
	n.vals[i] = child
	return n
}

// ObjectSet is an alias for ObjectInsert, matching spec §6's naming of
// both "insert" and "set" as object mutators with identical semantics
// here (the original distinguishes them only for exception-vs-upsert
// behavior at the ABI layer, out of scope for the core).
func (n *Node) ObjectSet(key string, child *Node, factory newCounter) *Node {
	return n.ObjectInsert(key, child, factory)
}

// ObjectErase removes key if present. Returns the handle to use from now
// on and whether the key had been present.
func (n *Node) ObjectErase(key string, factory newCounter) (*Node, bool) {
	n = n.ensureUnique(factory)
	i, ok := n.indexOf(key)
	if !ok {
		return n, false
	}
	n.vals[i].Release()
	n.keys = append(n.keys[:i], n.keys[i+1:]...)
	n.vals = append(n.vals[:i], n.vals[i+1:]...)
	return n, true
}

// ObjectClear removes all keys.
func (n *Node) ObjectClear(factory newCounter) *Node {
	n = n.ensureUnique(factory)
	for _, v := range n.vals {
		v.Release()
	}
	n.keys = nil
	n.vals = nil
	return n
}

// ArrayPushBack appends child to the end of the array.
func (n *Node) ArrayPushBack(child *Node, factory newCounter) *Node {
	n = n.ensureUnique(factory)
	n.elems = append(n.elems, child)
	return n
}

// ArrayInsert inserts child at index, shifting later elements right.
// index == ArraySize() appends.
func (n *Node) ArrayInsert(index int, child *Node, factory newCounter) *Node {
	n = n.ensureUnique(factory)
	n.elems = append(n.elems, nil)
	copy(n.elems[index+1:], n.elems[index:])
	n.elems[index] = child
	return n
}

// ArraySetAt replaces the element at index.
func (n *Node) ArraySetAt(index int, child *Node, factory newCounter) *Node {
	n = n.ensureUnique(factory)
	n.elems[index].Release()
	n.elems[index] = child
	return n
}

// ArrayEraseAt removes the element at index, shifting later elements left.
func (n *Node) ArrayEraseAt(index int, factory newCounter) *Node {
	n = n.ensureUnique(factory)
	n.elems[index].Release()
	n.elems = append(n.elems[:index], n.elems[index+1:]...)
	return n
}

// ArrayResize grows or shrinks the array to size, padding new slots with
// NewNull(factory) null nodes when growing.
func (n *Node) ArrayResize(size int, factory newCounter) *Node {
	n = n.ensureUnique(factory)
	switch {
	case size < len(n.elems):
		for _, v := range n.elems[size:] {
			v.Release()
		}
		n.elems = n.elems[:size]
	case size > len(n.elems):
		for len(n.elems) < size {
			n.elems = append(n.elems, NewNull(factory))
		}
	}
	return n
}

// ArrayReserve grows the underlying capacity without changing length; a
// pure performance hint, mirroring spec §6's "reserve".
func (n *Node) ArrayReserve(capacity int, factory newCounter) *Node {
	n = n.ensureUnique(factory)
	if cap(n.elems) < capacity {
		grown := make([]*Node, len(n.elems), capacity)
		copy(grown, n.elems)
		n.elems = grown
	}
	return n
}

// ArrayClear removes all elements.
func (n *Node) ArrayClear(factory newCounter) *Node {
	n = n.ensureUnique(factory)
	for _, v := range n.elems {
		v.Release()
	}
	n.elems = nil
	return n
}
