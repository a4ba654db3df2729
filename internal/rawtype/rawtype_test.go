package rawtype

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplifyCollapsesRawTypes(t *testing.T) {
	require.Equal(t, KindString, Simplify(SmallString))
	require.Equal(t, KindString, Simplify(String))
	require.Equal(t, KindString, Simplify(BigString))
	require.Equal(t, KindInteger, Simplify(ShortInteger))
	require.Equal(t, KindInteger, Simplify(Integer))
	require.Equal(t, KindInteger, Simplify(LongInteger))
	require.Equal(t, KindDecimal, Simplify(Decimal))
	require.Equal(t, KindDecimal, Simplify(LongDecimal))
	require.Equal(t, KindObject, Simplify(Object))
	require.Equal(t, KindArray, Simplify(Array))
	require.Equal(t, KindBoolean, Simplify(Boolean))
	require.Equal(t, KindNull, Simplify(Null))
}

func TestAlignmentMatchesTable(t *testing.T) {
	cases := map[Type]int{
		SmallString:  1,
		Boolean:      1,
		Null:         1,
		String:       2,
		ShortInteger: 2,
		BigString:    4,
		Integer:      4,
		Decimal:      4,
		LongInteger:  8,
		LongDecimal:  8,
		Array:        8,
		Object:       8,
	}
	for typ, want := range cases {
		require.Equal(t, want, Alignment(typ), "type %v", typ)
	}
}

func TestIdentifyStringPicksSmallest(t *testing.T) {
	require.Equal(t, SmallString, IdentifyString(0))
	require.Equal(t, SmallString, IdentifyString(SmallStringBound))
	require.Equal(t, String, IdentifyString(SmallStringBound+1))
	require.Equal(t, String, IdentifyString(ShortStringLimit))
	require.Equal(t, BigString, IdentifyString(ShortStringLimit+1))
}

func TestIdentifyIntegerPicksSmallest(t *testing.T) {
	require.Equal(t, ShortInteger, IdentifyInteger(0))
	require.Equal(t, ShortInteger, IdentifyInteger(math.MaxInt16))
	require.Equal(t, Integer, IdentifyInteger(math.MaxInt16+1))
	require.Equal(t, Integer, IdentifyInteger(math.MinInt16-1))
	require.Equal(t, LongInteger, IdentifyInteger(math.MaxInt32+1))
	require.Equal(t, LongInteger, IdentifyInteger(math.MinInt32-1))
}

func TestIdentifyDecimalPrefersFloat32(t *testing.T) {
	require.Equal(t, Decimal, IdentifyDecimal(3.5))
	require.Equal(t, LongDecimal, IdentifyDecimal(3.14159265358979))
}

func TestCanonicalLessShorterFirst(t *testing.T) {
	require.True(t, CanonicalLess("pi", "hello"))
	require.False(t, CanonicalLess("hello", "pi"))
}

func TestCanonicalLessEqualLengthIsBytewise(t *testing.T) {
	require.True(t, CanonicalLess("aa", "ab"))
	require.False(t, CanonicalLess("ab", "aa"))
}

func TestCanonicalOrderIsTotalAndStable(t *testing.T) {
	keys := []string{"hello", "yes", "stop", "pi", "a", "bb"}
	sort.Slice(keys, func(i, j int) bool { return CanonicalLess(keys[i], keys[j]) })
	require.Equal(t, []string{"a", "bb", "pi", "yes", "stop", "hello"}, keys)
}
