package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckMultiplyOverflow(t *testing.T) {
	tests := []struct {
		name    string
		a, b    uint64
		wantErr bool
	}{
		{"small numbers", 10, 20, false},
		{"one zero", 0, math.MaxUint64, false},
		{"both zero", 0, 0, false},
		{"exact max", math.MaxUint64, 1, false},
		{"overflow", math.MaxUint64 / 2, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckMultiplyOverflow(tt.a, tt.b)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestSafeMultiply(t *testing.T) {
	v, err := SafeMultiply(6, 7)
	require.NoError(t, err)
	require.Equal(t, uint64(42), v)

	_, err = SafeMultiply(math.MaxUint64, 2)
	require.Error(t, err)
}

func TestCheckAddOverflow(t *testing.T) {
	require.NoError(t, CheckAddOverflow(1, 2))
	require.Error(t, CheckAddOverflow(math.MaxUint64, 1))
}

func TestSafeAdd(t *testing.T) {
	v, err := SafeAdd(1, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(3), v)

	_, err = SafeAdd(math.MaxUint64, 1)
	require.Error(t, err)
}

func TestValidateBufferSize(t *testing.T) {
	require.NoError(t, ValidateBufferSize(10, 100, "thing"))
	require.Error(t, ValidateBufferSize(101, 100, "thing"))
}
