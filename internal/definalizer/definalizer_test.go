package definalizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/target/libdart-sub002/internal/bufview"
	"github.com/target/libdart-sub002/internal/finalizer"
	"github.com/target/libdart-sub002/internal/heapnode"
	"github.com/target/libdart-sub002/internal/rawtype"
)

func TestDefinalizeRoundTripsObject(t *testing.T) {
	obj := heapnode.NewObject(heapnode.AtomicFactory)
	obj = obj.ObjectInsert("hello", heapnode.NewString("world", heapnode.AtomicFactory), heapnode.AtomicFactory)
	obj = obj.ObjectInsert("pi", heapnode.NewDecimal(3.14159, heapnode.AtomicFactory), heapnode.AtomicFactory)
	obj = obj.ObjectInsert("n", heapnode.NewInteger(42, heapnode.AtomicFactory), heapnode.AtomicFactory)
	obj = obj.ObjectInsert("ok", heapnode.NewBoolean(true, heapnode.AtomicFactory), heapnode.AtomicFactory)
	obj = obj.ObjectInsert("nil", heapnode.NewNull(heapnode.AtomicFactory), heapnode.AtomicFactory)

	buf, err := finalizer.Finalize(obj)
	require.NoError(t, err)

	view, err := bufview.Validate(buf, rawtype.Object)
	require.NoError(t, err)

	reconstructed := Definalize(view, heapnode.AtomicFactory)
	require.True(t, heapnode.Equal(obj, reconstructed))
}

func TestDefinalizeRoundTripsNestedArray(t *testing.T) {
	arr := heapnode.NewArray(heapnode.AtomicFactory)
	arr = arr.ArrayPushBack(heapnode.NewInteger(1, heapnode.AtomicFactory), heapnode.AtomicFactory)
	inner := heapnode.NewObject(heapnode.AtomicFactory)
	inner = inner.ObjectInsert("k", heapnode.NewString("v", heapnode.AtomicFactory), heapnode.AtomicFactory)
	arr = arr.ArrayPushBack(inner, heapnode.AtomicFactory)

	buf, err := finalizer.Finalize(arr)
	require.NoError(t, err)

	view, err := bufview.Validate(buf, rawtype.Array)
	require.NoError(t, err)

	reconstructed := Definalize(view, heapnode.AtomicFactory)
	require.True(t, heapnode.Equal(arr, reconstructed))
}

func TestDefinalizeThenFinalizeIsByteIdentical(t *testing.T) {
	obj := heapnode.NewObject(heapnode.AtomicFactory)
	obj = obj.ObjectInsert("a", heapnode.NewInteger(1, heapnode.AtomicFactory), heapnode.AtomicFactory)
	obj = obj.ObjectInsert("bb", heapnode.NewInteger(2, heapnode.AtomicFactory), heapnode.AtomicFactory)

	buf, err := finalizer.Finalize(obj)
	require.NoError(t, err)

	view, err := bufview.Validate(buf, rawtype.Object)
	require.NoError(t, err)

	reconstructed := Definalize(view, heapnode.AtomicFactory)
	buf2, err := finalizer.Finalize(reconstructed)
	require.NoError(t, err)

	require.Equal(t, buf, buf2)
}
