// Package numerics provides the small numerical toolkit used by the
// veto computation: sample grids, trapezoidal quadrature and the 1-D
// and 2-D interpolants the integration kernels are built from.
package numerics

import "math"

// Logspace returns n samples logarithmically spaced between 10^exp0 and
// 10^exp1 inclusive.
func Logspace(exp0, exp1 float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = math.Pow(10, exp0)
		return out
	}
	step := (exp1 - exp0) / float64(n-1)
	for i := range out {
		out[i] = math.Pow(10, exp0+float64(i)*step)
	}
	return out
}

// Linspace returns n evenly spaced samples on [a, b] inclusive.
func Linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	return out
}

// Diff returns the n-1 adjacent differences of a.
func Diff(a []float64) []float64 {
	out := make([]float64, len(a)-1)
	for i := range out {
		out[i] = a[i+1] - a[i]
	}
	return out
}

// Centers returns the midpoints of consecutive bin edges.
func Centers(edges []float64) []float64 {
	out := make([]float64, len(edges)-1)
	for i := range out {
		out[i] = 0.5 * (edges[i] + edges[i+1])
	}
	return out
}

// Trapz integrates y over x with the composite trapezoidal rule.
// NaN samples propagate into the result.
func Trapz(y, x []float64) float64 {
	sum := 0.0
	for i := 1; i < len(x); i++ {
		sum += 0.5 * (y[i] + y[i-1]) * (x[i] - x[i-1])
	}
	return sum
}

// SearchSorted returns the leftmost index at which v could be inserted
// into the ascending slice a while keeping it sorted.
func SearchSorted(a []float64, v float64) int {
	lo, hi := 0, len(a)
	for lo < hi {
		mid := (lo + hi) / 2
		if a[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
