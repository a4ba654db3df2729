package dart

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/target/libdart-sub002/internal/rc"
)

func TestHeapValueIterOverArray(t *testing.T) {
	arr := NewArray[rc.Local]()
	arr, _ = arr.PushBack(NewInteger[rc.Local](1))
	arr, _ = arr.PushBack(NewInteger[rc.Local](2))
	arr, _ = arr.PushBack(NewInteger[rc.Local](3))

	it, err := arr.ValueIter()
	require.NoError(t, err)

	var got []int64
	for it.Next() {
		val, err := it.Value()
		require.NoError(t, err)
		v, err := val.AsInteger()
		require.NoError(t, err)
		got = append(got, v)
	}
	require.Equal(t, []int64{1, 2, 3}, got)
}

func TestHeapKeyAndPairIterAreCanonicallyOrdered(t *testing.T) {
	obj := NewObject[rc.Local]()
	obj, _ = obj.Insert("zeta", NewInteger[rc.Local](1))
	obj, _ = obj.Insert("alpha", NewInteger[rc.Local](2))
	obj, _ = obj.Insert("mid", NewInteger[rc.Local](3))

	kit, err := obj.KeyIter()
	require.NoError(t, err)
	var keys []string
	for kit.Next() {
		k, err := kit.Key()
		require.NoError(t, err)
		keys = append(keys, k)
	}
	require.Equal(t, []string{"mid", "zeta", "alpha"}, keys)

	pit, err := obj.PairIter()
	require.NoError(t, err)
	var pairs []string
	for pit.Next() {
		k, v, err := pit.Pair()
		require.NoError(t, err)
		i, _ := v.AsInteger()
		pairs = append(pairs, k)
		_ = i
	}
	require.Equal(t, keys, pairs)
}

func TestHeapIteratorSnapshotsAtConstruction(t *testing.T) {
	obj := NewObject[rc.Local]()
	obj, _ = obj.Insert("a", NewInteger[rc.Local](1))

	it, err := obj.KeyIter()
	require.NoError(t, err)

	// Mutating the source after the iterator is built must not be
	// observed through the already-constructed iterator.
	_, err = obj.Insert("b", NewInteger[rc.Local](2))
	require.NoError(t, err)

	var seen []string
	for it.Next() {
		k, err := it.Key()
		require.NoError(t, err)
		seen = append(seen, k)
	}
	require.Equal(t, []string{"a"}, seen)
}

func TestIterOnWrongKindIsTypeError(t *testing.T) {
	s := NewString[rc.Local]("x")
	_, err := s.ValueIter()
	require.Error(t, err)
	require.IsType(t, &TypeError{}, err)

	arr := NewArray[rc.Local]()
	_, err = arr.KeyIter()
	require.Error(t, err)
}

func TestHeapIterAccessOutsideNextIsStateError(t *testing.T) {
	arr := NewArray[rc.Local]()
	arr, _ = arr.PushBack(NewInteger[rc.Local](1))

	it, err := arr.ValueIter()
	require.NoError(t, err)

	// Before the first Next().
	_, err = it.Value()
	require.Error(t, err)
	require.IsType(t, &StateError{}, err)

	require.True(t, it.Next())
	_, err = it.Value()
	require.NoError(t, err)

	// After exhaustion.
	require.False(t, it.Next())
	_, err = it.Value()
	require.Error(t, err)
	require.IsType(t, &StateError{}, err)
}

func TestBufferIterationMirrorsHeap(t *testing.T) {
	obj := NewObject[rc.Local]()
	obj, _ = obj.Insert("hello", NewString[rc.Local]("world"))
	obj, _ = obj.Insert("pi", NewDecimal[rc.Local](3.14159))

	buf, err := obj.Finalize()
	require.NoError(t, err)

	pit, err := buf.PairIter()
	require.NoError(t, err)

	var keys []string
	for pit.Next() {
		k, _, err := pit.Pair()
		require.NoError(t, err)
		keys = append(keys, k)
	}
	require.Equal(t, []string{"pi", "hello"}, keys)
}

func TestBufferValueIterOverArray(t *testing.T) {
	arr := NewArray[rc.Local]()
	arr, _ = arr.PushBack(NewString[rc.Local]("a"))
	arr, _ = arr.PushBack(NewString[rc.Local]("b"))

	buf, err := arr.Finalize()
	require.NoError(t, err)

	it, err := buf.ValueIter()
	require.NoError(t, err)

	var got []string
	for it.Next() {
		val, err := it.Value()
		require.NoError(t, err)
		s, err := val.AsString()
		require.NoError(t, err)
		got = append(got, s)
	}
	require.Equal(t, []string{"a", "b"}, got)
}
