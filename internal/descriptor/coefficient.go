package descriptor

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultEpsilon is the denominator floor used by DefaultParams.
const DefaultEpsilon = 1e-6

// Coefficient returns the normalized local correlation between the current
// block a and the shifted block b. Both slices hold the same block in
// row-major order.
//
//	(sum(a*b)/n - mean(a)*mean(b)) / (std(a)*std(b) + epsilon)
//
// std is the population standard deviation. For two constant blocks the
// numerator is exactly zero and so is the result.
func Coefficient(a, b []float64, epsilon float64) float64 {
	n := float64(len(a))
	meanA, stdA := stat.PopMeanStdDev(a, nil)
	meanB, stdB := stat.PopMeanStdDev(b, nil)

	num := floats.Dot(a, b)/n - meanA*meanB
	den := stdA*stdB + epsilon
	return num / den
}
