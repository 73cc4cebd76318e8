package formulas

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// PopStdDev calculates the population standard deviation of a slice.
// Standardization uses the population form: the vectors are the whole
// client population of the run, not a sample.
func PopStdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return math.Sqrt(stat.PopVariance(data, nil))
}

// MinMax returns the minimum and maximum of a slice
func MinMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	return floats.Min(data), floats.Max(data)
}

// MinMaxScale maps v into [0,1] given the column's min and max.
// A degenerate column (max == min) scales to 0 for every value.
func MinMaxScale(v, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return (v - min) / (max - min)
}

// ShareOrZero divides num by den, defined as 0 when den is 0
func ShareOrZero(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// EuclideanDistance returns the L2 distance between two equal-length vectors
func EuclideanDistance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}
