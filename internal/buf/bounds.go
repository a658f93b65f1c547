package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int64.
func AddOverflowSafe(a, b int64) (int64, bool) {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return 0, false
	case b < 0 && a < math.MinInt64-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative values, returning ok = false
// when the result would overflow int64 or either operand is negative.
// Region sizes are computed as header + count*recordSize, so both factors
// come from untrusted headers and must be checked.
func MulOverflowSafe(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// ExtentSize returns header + count*recordSize, or an error describing the
// overflow. count is unsigned because it is read straight from disk.
//
//	size, err := buf.ExtentSize(HeaderSize, slotCount, slotSize)
//	if err != nil {
//	    return fmt.Errorf("table: %w", err)
//	}
func ExtentSize(header int64, count uint64, recordSize int64) (int64, error) {
	if count > math.MaxInt64 {
		return 0, fmt.Errorf("overflow: count=%d exceeds int64", count)
	}
	body, ok := MulOverflowSafe(int64(count), recordSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * recordSize=%d", count, recordSize)
	}
	total, ok := AddOverflowSafe(header, body)
	if !ok {
		return 0, fmt.Errorf("overflow: header=%d + body=%d", header, body)
	}
	return total, nil
}
