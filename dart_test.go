package dart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/target/libdart-sub002/internal/rc"
)

func TestConstructorsAndKind(t *testing.T) {
	require.True(t, NewObject[rc.Local]().IsObject())
	require.True(t, NewArray[rc.Local]().IsArray())
	require.True(t, NewString[rc.Local]("x").IsString())
	require.True(t, NewInteger[rc.Local](1).IsInteger())
	require.True(t, NewDecimal[rc.Local](1.5).IsDecimal())
	require.True(t, NewBoolean[rc.Local](true).IsBoolean())
	require.True(t, NewNull[rc.Local]().IsNull())
}

func TestObjectInsertGetHasKey(t *testing.T) {
	obj := NewObject[rc.Local]()
	obj, err := obj.Insert("hello", NewString[rc.Local]("world"))
	require.NoError(t, err)
	obj, err = obj.Insert("pi", NewDecimal[rc.Local](3.14159))
	require.NoError(t, err)

	require.True(t, obj.HasKey("hello"))
	require.False(t, obj.HasKey("missing"))

	s, err := obj.Get("hello").AsString()
	require.NoError(t, err)
	require.Equal(t, "world", s)

	// get() on an absent key is explicitly not an error: it yields null.
	require.True(t, obj.Get("missing").IsNull())
}

func TestArrayMutatorsAndAt(t *testing.T) {
	arr := NewArray[rc.Local]()
	arr, err := arr.PushBack(NewInteger[rc.Local](1))
	require.NoError(t, err)
	arr, err = arr.PushBack(NewInteger[rc.Local](2))
	require.NoError(t, err)

	size, err := arr.Size()
	require.NoError(t, err)
	require.Equal(t, 2, size)

	v, err := arr.At(0)
	require.NoError(t, err)
	i, err := v.AsInteger()
	require.NoError(t, err)
	require.Equal(t, int64(1), i)

	_, err = arr.At(5)
	require.Error(t, err)
	require.IsType(t, &RangeError{}, err)

	require.True(t, arr.GetIndex(5).IsNull())
}

func TestWrongKindAccessorsReturnTypeError(t *testing.T) {
	obj := NewObject[rc.Local]()
	_, err := obj.AsString()
	require.Error(t, err)
	require.IsType(t, &TypeError{}, err)

	_, err = obj.PushBack(NewInteger[rc.Local](1))
	require.Error(t, err)
	require.IsType(t, &TypeError{}, err)
}

func TestEqualAcrossHeapConstructionOrder(t *testing.T) {
	a := NewObject[rc.Local]()
	a, _ = a.Insert("x", NewInteger[rc.Local](1))
	a, _ = a.Insert("y", NewInteger[rc.Local](2))

	b := NewObject[rc.Local]()
	b, _ = b.Insert("y", NewInteger[rc.Local](2))
	b, _ = b.Insert("x", NewInteger[rc.Local](1))

	require.True(t, a.Equal(b))
}

func TestFinalizeProducesValidatedBuffer(t *testing.T) {
	obj := NewObject[rc.Local]()
	obj, _ = obj.Insert("hello", NewString[rc.Local]("world"))
	obj, _ = obj.Insert("pi", NewDecimal[rc.Local](3.14159))

	buf, err := obj.Finalize()
	require.NoError(t, err)
	require.True(t, buf.IsObject())

	s, err := buf.Get("hello").AsString()
	require.NoError(t, err)
	require.Equal(t, "world", s)
}

func TestFinalizeIsOrderIndependentAtPublicAPI(t *testing.T) {
	a := NewObject[rc.Local]()
	a, _ = a.Insert("zeta", NewInteger[rc.Local](1))
	a, _ = a.Insert("alpha", NewInteger[rc.Local](2))

	b := NewObject[rc.Local]()
	b, _ = b.Insert("alpha", NewInteger[rc.Local](2))
	b, _ = b.Insert("zeta", NewInteger[rc.Local](1))

	bufA, err := a.Finalize()
	require.NoError(t, err)
	bufB, err := b.Finalize()
	require.NoError(t, err)

	require.Equal(t, bufA.DuplicateBytes(), bufB.DuplicateBytes())
}

func TestBufferRoundTripsToHeapAndBack(t *testing.T) {
	obj := NewObject[rc.Local]()
	obj, _ = obj.Insert("a", NewObject[rc.Local]())
	inner, _ := obj.Get("a").Insert("b", NewString[rc.Local]("deep"))
	obj, _ = obj.Insert("a", inner)

	buf, err := obj.Finalize()
	require.NoError(t, err)

	lifted := buf.ToHeap()
	require.True(t, lifted.Equal(obj))

	nested := lifted.Get("a")
	s, err := nested.Get("b").AsString()
	require.NoError(t, err)
	require.Equal(t, "deep", s)
}

func TestBufferEqualAcrossForms(t *testing.T) {
	h := NewArray[rc.Local]()
	h, _ = h.PushBack(NewString[rc.Local]("last"))

	buf, err := h.Finalize()
	require.NoError(t, err)

	require.True(t, buf.ToHeap().Equal(h))
	require.True(t, buf.Equal(buf))
}

func TestNewBufferFromBytesRejectsCorruptedVtable(t *testing.T) {
	h := NewObject[rc.Local]()
	h, _ = h.Insert("k", NewInteger[rc.Local](1))
	buf, err := h.Finalize()
	require.NoError(t, err)

	corrupted := buf.DuplicateBytes()
	// Smash the vtable's key offset field to point past total_bytes.
	for i := 8; i < 12; i++ {
		corrupted[i] = 0xff
	}

	_, err = NewBufferFromBytes[rc.Local](corrupted, Object)
	require.Error(t, err)
	require.IsType(t, &ParseError{}, err)
}

func TestNewBufferFromBytesRejectsNonAggregateRoot(t *testing.T) {
	h := NewObject[rc.Local]()
	buf, err := h.Finalize()
	require.NoError(t, err)

	_, err = NewBufferFromBytes[rc.Local](buf.DuplicateBytes(), String)
	require.Error(t, err)
}
