package dataframe

import (
	"math"
	"sort"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
)

// Number is the set of element types the numeric kernels run on.
type Number interface {
	constraints.Integer | constraints.Float
}

func cmpOrdered[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// accumulate applies a running binary function. Once a NaN is reached it is
// carried forward.
func accumulate[T Number](values []T, fn func(acc, v T) T) []T {
	out := make([]T, len(values))
	for i, v := range values {
		switch {
		case i == 0:
			out[i] = v
		case isNaN(out[i-1]):
			out[i] = out[i-1]
		case isNaN(v):
			out[i] = v
		default:
			out[i] = fn(out[i-1], v)
		}
	}
	return out
}

func isNaN[T Number](v T) bool {
	return math.IsNaN(float64(v))
}

func minOf[T constraints.Ordered](a, b T) T {
	if b < a {
		return b
	}
	return a
}

func maxOf[T constraints.Ordered](a, b T) T {
	if b > a {
		return b
	}
	return a
}

func add[T Number](a, b T) T { return a + b }

// extremeIdx returns the first position of the minimum (less) or maximum.
func extremeIdx[T constraints.Ordered](values []T, less bool) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if (less && values[i] < values[best]) || (!less && values[i] > values[best]) {
			best = i
		}
	}
	return best
}

// firstNaN returns the position of the first NaN or -1.
func firstNaN(values []float64) int {
	for i, v := range values {
		if math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// median returns the midpoint of the two middle values for even lengths.
// NaN propagates.
func median(values []float64) float64 {
	if floats.HasNaN(values) {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// floorDivInt divides rounding toward negative infinity. Division by zero
// yields zero.
func floorDivInt(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// powInt raises a to a non-negative integer power by squaring.
func powInt(a, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= a
		}
		a *= a
		exp >>= 1
	}
	return result
}

// roundHalfEven rounds to the given number of decimals, ties to even.
func roundHalfEven(v float64, decimals int) float64 {
	if decimals >= 0 {
		scale := math.Pow(10, float64(decimals))
		return math.RoundToEven(v*scale) / scale
	}
	scale := math.Pow(10, float64(-decimals))
	return math.RoundToEven(v/scale) * scale
}

// roundIntHalfEven rounds an integer to a multiple of 10^-decimals.
func roundIntHalfEven(v int64, decimals int) int64 {
	if decimals >= 0 {
		return v
	}
	scale := int64(1)
	for i := 0; i < -decimals && scale <= math.MaxInt64/10; i++ {
		scale *= 10
	}
	q, r := v/scale, v%scale
	if r < 0 {
		q, r = q-1, r+scale
	}
	switch {
	case 2*r > scale, 2*r == scale && q%2 != 0:
		q++
	}
	return q * scale
}
