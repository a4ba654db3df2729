// Package definalizer converts a validated buffer (internal/bufview) back
// into a mutable heap tree (internal/heapnode), per spec §4.5: "a
// straightforward recursive walk... producing a freshly owned heap tree
// whose structural equality with the original buffer is required."
package definalizer

import (
	"github.com/target/libdart-sub002/internal/bufview"
	"github.com/target/libdart-sub002/internal/heapnode"
	"github.com/target/libdart-sub002/internal/rawtype"
	"github.com/target/libdart-sub002/internal/rc"
)

// Factory is the counter-flavor constructor threaded through a
// definalize pass, the same shape internal/heapnode's constructors take
// (heapnode.AtomicFactory / heapnode.LocalFactory).
type Factory = func() rc.Counter

// Definalize recursively decodes view into a freshly owned heap tree
// tagged with factory's counter flavor.
func Definalize(view bufview.View, factory Factory) *heapnode.Node {
	switch view.Raw {
	case rawtype.Object:
		return definalizeObject(view, factory)
	case rawtype.Array:
		return definalizeArray(view, factory)
	case rawtype.SmallString, rawtype.String, rawtype.BigString:
		return heapnode.NewString(view.StringValue(), factory)
	case rawtype.ShortInteger, rawtype.Integer, rawtype.LongInteger:
		return heapnode.NewInteger(view.IntegerValue(), factory)
	case rawtype.Decimal, rawtype.LongDecimal:
		return heapnode.NewDecimal(view.DecimalValue(), factory)
	case rawtype.Boolean:
		return heapnode.NewBoolean(view.BooleanValue(), factory)
	default:
		return heapnode.NewNull(factory)
	}
}

func definalizeObject(view bufview.View, factory Factory) *heapnode.Node {
	keys, vals := view.ObjectEntries()
	node := heapnode.NewObject(factory)
	for i, key := range keys {
		node = node.ObjectInsert(key, Definalize(vals[i], factory), factory)
	}
	return node
}

func definalizeArray(view bufview.View, factory Factory) *heapnode.Node {
	node := heapnode.NewArray(factory)
	for _, elem := range view.ArrayElements() {
		node = node.ArrayPushBack(Definalize(elem, factory), factory)
	}
	return node
}
