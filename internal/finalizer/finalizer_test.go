package finalizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/target/libdart-sub002/internal/bufview"
	"github.com/target/libdart-sub002/internal/heapnode"
	"github.com/target/libdart-sub002/internal/rawtype"
	"github.com/target/libdart-sub002/internal/utils"
)

func TestFinalizeSimpleObject(t *testing.T) {
	obj := heapnode.NewObject(heapnode.AtomicFactory)
	obj = obj.ObjectInsert("hello", heapnode.NewString("world", heapnode.AtomicFactory), heapnode.AtomicFactory)
	obj = obj.ObjectInsert("pi", heapnode.NewDecimal(3.14159, heapnode.AtomicFactory), heapnode.AtomicFactory)

	buf, err := Finalize(obj)
	require.NoError(t, err)

	require.Equal(t, uint32(len(buf)), utils.ReadU32(buf, 0))
	require.Equal(t, uint32(2), utils.ReadU32(buf, 4))

	root, err := bufview.Validate(buf, rawtype.Object)
	require.NoError(t, err)

	require.Equal(t, []string{"pi", "hello"}, root.ObjectKeys())

	hello, ok := root.ObjectGet("hello")
	require.True(t, ok)
	require.Equal(t, "world", hello.StringValue())

	pi, ok := root.ObjectGet("pi")
	require.True(t, ok)
	require.InDelta(t, 3.14159, pi.DecimalValue(), 1e-9)
}

func TestFinalizeArray(t *testing.T) {
	arr := heapnode.NewArray(heapnode.AtomicFactory)
	arr = arr.ArrayPushBack(heapnode.NewInteger(1, heapnode.AtomicFactory), heapnode.AtomicFactory)
	arr = arr.ArrayPushBack(heapnode.NewString("two", heapnode.AtomicFactory), heapnode.AtomicFactory)
	arr = arr.ArrayPushBack(heapnode.NewDecimal(3.14159, heapnode.AtomicFactory), heapnode.AtomicFactory)
	arr = arr.ArrayPushBack(heapnode.NewNull(heapnode.AtomicFactory), heapnode.AtomicFactory)

	buf, err := Finalize(arr)
	require.NoError(t, err)

	root, err := bufview.Validate(buf, rawtype.Array)
	require.NoError(t, err)
	require.Equal(t, 4, root.Count())

	v0, _ := root.ArrayGet(0)
	require.Equal(t, int64(1), v0.IntegerValue())
	v1, _ := root.ArrayGet(1)
	require.Equal(t, "two", v1.StringValue())
	v2, _ := root.ArrayGet(2)
	require.InDelta(t, 3.14159, v2.DecimalValue(), 1e-9)
	v3, _ := root.ArrayGet(3)
	require.Equal(t, rawtype.Null, v3.Raw)
}

func TestFinalizeIsOrderIndependent(t *testing.T) {
	a := heapnode.NewObject(heapnode.AtomicFactory)
	a = a.ObjectInsert("x", heapnode.NewInteger(1, heapnode.AtomicFactory), heapnode.AtomicFactory)
	a = a.ObjectInsert("y", heapnode.NewInteger(2, heapnode.AtomicFactory), heapnode.AtomicFactory)

	b := heapnode.NewObject(heapnode.AtomicFactory)
	b = b.ObjectInsert("y", heapnode.NewInteger(2, heapnode.AtomicFactory), heapnode.AtomicFactory)
	b = b.ObjectInsert("x", heapnode.NewInteger(1, heapnode.AtomicFactory), heapnode.AtomicFactory)

	bufA, err := Finalize(a)
	require.NoError(t, err)
	bufB, err := Finalize(b)
	require.NoError(t, err)

	require.Equal(t, bufA, bufB)
}

func TestFinalizeNestedObjectAndArray(t *testing.T) {
	inner := heapnode.NewObject(heapnode.AtomicFactory)
	inner = inner.ObjectInsert("c", heapnode.NewString("deep", heapnode.AtomicFactory), heapnode.AtomicFactory)
	mid := heapnode.NewObject(heapnode.AtomicFactory)
	mid = mid.ObjectInsert("b", inner, heapnode.AtomicFactory)
	root := heapnode.NewObject(heapnode.AtomicFactory)
	root = root.ObjectInsert("a", mid, heapnode.AtomicFactory)

	arr := heapnode.NewArray(heapnode.AtomicFactory)
	arr = arr.ArrayPushBack(heapnode.NewString("last", heapnode.AtomicFactory), heapnode.AtomicFactory)
	root = root.ObjectInsert("arr", arr, heapnode.AtomicFactory)

	buf, err := Finalize(root)
	require.NoError(t, err)

	view, err := bufview.Validate(buf, rawtype.Object)
	require.NoError(t, err)

	a, ok := view.ObjectGet("a")
	require.True(t, ok)
	b, ok := a.ObjectGet("b")
	require.True(t, ok)
	c, ok := b.ObjectGet("c")
	require.True(t, ok)
	require.Equal(t, "deep", c.StringValue())

	arrView, ok := view.ObjectGet("arr")
	require.True(t, ok)
	first, ok := arrView.ArrayGet(0)
	require.True(t, ok)
	require.Equal(t, "last", first.StringValue())
}
