package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow checks if multiplying two uint64 values would overflow.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}
	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}
	return nil
}

// SafeMultiply multiplies two uint64 values, failing rather than wrapping on overflow.
func SafeMultiply(a, b uint64) (uint64, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// CheckAddOverflow reports whether a+b would overflow uint64.
func CheckAddOverflow(a, b uint64) error {
	if a > math.MaxUint64-b {
		return fmt.Errorf("addition overflow: %d + %d exceeds uint64 max", a, b)
	}
	return nil
}

// SafeAdd adds two uint64 values, failing rather than wrapping on overflow.
func SafeAdd(a, b uint64) (uint64, error) {
	if err := CheckAddOverflow(a, b); err != nil {
		return 0, err
	}
	return a + b, nil
}

// ValidateBufferSize validates that size does not exceed maxSize.
func ValidateBufferSize(size, maxSize uint64, description string) error {
	if size > maxSize {
		return fmt.Errorf("%s: size %d exceeds maximum %d", description, size, maxSize)
	}
	return nil
}

// MaxBufferSize bounds the total size this library will ever allocate for a
// single finalized buffer. The vtable offset fields are 32-bit (spec §4.3),
// so no well-formed buffer can exceed math.MaxUint32 bytes regardless.
const MaxBufferSize = math.MaxUint32

// MaxStringLen bounds the length this library will accept for a single
// string value, well below the big_string 32-bit length field's range, to
// keep the finalizer's upper-bound pass from being driven to absurd sizes
// by adversarial heap input.
const MaxStringLen = 1 << 31
