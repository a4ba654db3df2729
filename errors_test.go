package dart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorMessageOmitsCauseWhenNil(t *testing.T) {
	err := newTypeError("as_string() called on kind %s", Integer)
	require.Equal(t, "as_string() called on kind integer", err.Error())
}

func TestWrapErrorIncludesCauseAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := WrapParseError("validate buffer", cause)
	require.Equal(t, "validate buffer: boom", err.Error())
	require.ErrorIs(t, err, cause)
}

func TestWrapErrorReturnsNilForNilCause(t *testing.T) {
	require.NoError(t, WrapParseError("validate buffer", nil))
	require.NoError(t, WrapRuntimeError("finalize", nil))
}

func TestEachTaxonomyMemberIsDistinguishableViaErrorsAs(t *testing.T) {
	var typeErr *TypeError
	require.True(t, errors.As(newTypeError("x"), &typeErr))

	var stateErr *StateError
	require.True(t, errors.As(newStateError("x"), &stateErr))

	var rangeErr *RangeError
	require.True(t, errors.As(newRangeError("x"), &rangeErr))

	var logicErr *LogicError
	require.True(t, errors.As(newLogicError("x"), &logicErr))

	var parseErr *ParseError
	require.True(t, errors.As(WrapParseError("x", errors.New("y")), &parseErr))

	var runtimeErr *RuntimeError
	require.True(t, errors.As(WrapRuntimeError("x", errors.New("y")), &runtimeErr))
}
