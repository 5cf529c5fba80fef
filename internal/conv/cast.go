package conv

import (
	"fmt"
	"math"
)

// Uint64ToInt64 converts uint64 to int64 safely.
func Uint64ToInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to int64 (too large)", v)
	}
	return int64(v), nil
}

// Float64ToInt64 converts an integral float64 to int64. It fails for
// fractions, NaN and values outside the int64 range.
func Float64ToInt64(v float64) (int64, error) {
	if v != math.Trunc(v) || math.IsNaN(v) {
		return 0, fmt.Errorf("float %v is not integral", v)
	}
	// -2^63 is exact in float64; 2^63 is the first value past MaxInt64.
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, fmt.Errorf("integer overflow: %v cannot be converted to int64", v)
	}
	return int64(v), nil
}
