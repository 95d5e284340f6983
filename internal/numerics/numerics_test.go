package numerics

import (
	"errors"
	"math"
	"testing"
)

func TestLogspace(t *testing.T) {
	xs := Logspace(-1, 2, 4)
	want := []float64{0.1, 1, 10, 100}
	if len(xs) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(xs))
	}
	for i := range xs {
		if math.Abs(xs[i]-want[i])/want[i] > 1e-12 {
			t.Errorf("sample %d: expected %g, got %g", i, want[i], xs[i])
		}
	}
	if xs := Logspace(3, 9, 1); xs[0] != 1e3 {
		t.Errorf("single sample should sit at the lower bound, got %g", xs[0])
	}
}

func TestLinspaceDiffCenters(t *testing.T) {
	xs := Linspace(0, 1, 5)
	if xs[0] != 0 || xs[4] != 1 || math.Abs(xs[2]-0.5) > 1e-15 {
		t.Errorf("unexpected linspace: %v", xs)
	}
	d := Diff(xs)
	for _, v := range d {
		if math.Abs(v-0.25) > 1e-15 {
			t.Errorf("unexpected diff: %v", d)
		}
	}
	c := Centers([]float64{0, 2, 6})
	if c[0] != 1 || c[1] != 4 {
		t.Errorf("unexpected centers: %v", c)
	}
}

func TestTrapz(t *testing.T) {
	xs := Linspace(0, 1, 101)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = x
	}
	if got := Trapz(ys, xs); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("integral of x over [0,1]: expected 0.5, got %g", got)
	}
	// Trapezoids are exact for linear integrands even on uneven grids.
	xs = []float64{0, 0.1, 0.5, 1}
	ys = []float64{1, 1.2, 2.0, 3.0}
	if got := Trapz(ys, xs); math.Abs(got-2.0) > 1e-12 {
		t.Errorf("integral of 1+2x over [0,1]: expected 2, got %g", got)
	}
}

func TestSearchSorted(t *testing.T) {
	a := []float64{1, 2, 4, 8}
	cases := []struct {
		v    float64
		want int
	}{
		{0.5, 0}, {1, 0}, {1.5, 1}, {4, 2}, {9, 4},
	}
	for _, c := range cases {
		if got := SearchSorted(a, c.v); got != c.want {
			t.Errorf("SearchSorted(%g) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestLinearInterp(t *testing.T) {
	f, err := NewLinear([]float64{0, 1, 2}, []float64{0, 2, 4})
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	if got := f.Eval(0.5); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected 1 at 0.5, got %g", got)
	}
	// Default policy extrapolates the edge segment.
	if got := f.Eval(3); math.Abs(got-6) > 1e-12 {
		t.Errorf("expected extrapolated 6 at 3, got %g", got)
	}
	f.WithFill(-1, Nan)
	if got := f.Eval(-0.5); got != -1 {
		t.Errorf("expected below-fill -1, got %g", got)
	}
	if got := f.Eval(3); !math.IsNaN(got) {
		t.Errorf("expected NaN above the domain, got %g", got)
	}
}

func TestQuadraticInterpExact(t *testing.T) {
	// Three-point stencils reproduce a parabola exactly everywhere.
	parab := func(x float64) float64 { return 2*x*x - 3*x + 1 }
	xs := Linspace(-2, 2, 9)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = parab(x)
	}
	f, err := NewQuadratic(xs, ys)
	if err != nil {
		t.Fatalf("NewQuadratic: %v", err)
	}
	for _, x := range []float64{-1.7, -0.3, 0.25, 1.9, 2.3, -2.2} {
		if got := f.Eval(x); math.Abs(got-parab(x)) > 1e-10 {
			t.Errorf("at %g: expected %g, got %g", x, parab(x), got)
		}
	}
}

func TestInterpSortsNodes(t *testing.T) {
	// Descending input is accepted and sorted.
	f, err := NewQuadratic([]float64{3, 2, 1, 0}, []float64{9, 4, 1, 0})
	if err != nil {
		t.Fatalf("NewQuadratic: %v", err)
	}
	if got := f.Eval(1.5); math.Abs(got-2.25) > 1e-10 {
		t.Errorf("expected 2.25 at 1.5, got %g", got)
	}
}

func TestInterpInputErrors(t *testing.T) {
	if _, err := NewLinear([]float64{1}, []float64{1}); !errors.Is(err, ErrInterpInput) {
		t.Errorf("expected ErrInterpInput for one node, got %v", err)
	}
	if _, err := NewQuadratic([]float64{1, 2}, []float64{1, 2}); !errors.Is(err, ErrInterpInput) {
		t.Errorf("expected ErrInterpInput for two nodes, got %v", err)
	}
	if _, err := NewLinear([]float64{1, 1, 2}, []float64{1, 2, 3}); !errors.Is(err, ErrInterpInput) {
		t.Errorf("expected ErrInterpInput for duplicate nodes, got %v", err)
	}
	if _, err := NewLinear([]float64{1, 2, 3}, []float64{1, 2}); !errors.Is(err, ErrInterpInput) {
		t.Errorf("expected ErrInterpInput for length mismatch, got %v", err)
	}
}

func TestGrid2D(t *testing.T) {
	// Bilinear interpolation is exact for planes.
	plane := func(x, y float64) float64 { return 2*x + 3*y - 1 }
	xs := []float64{0, 1, 2}
	ys := []float64{0, 2, 4, 6}
	vals := make([][]float64, len(xs))
	for i, x := range xs {
		row := make([]float64, len(ys))
		for j, y := range ys {
			row[j] = plane(x, y)
		}
		vals[i] = row
	}
	g, err := NewGrid2D(xs, ys, vals)
	if err != nil {
		t.Fatalf("NewGrid2D: %v", err)
	}
	pts := [][2]float64{{0.5, 1}, {1.5, 3.3}, {0, 0}, {2, 6}, {2.5, 7}, {-0.5, -1}}
	for _, p := range pts {
		if got := g.Eval(p[0], p[1]); math.Abs(got-plane(p[0], p[1])) > 1e-10 {
			t.Errorf("at (%g, %g): expected %g, got %g", p[0], p[1], plane(p[0], p[1]), got)
		}
	}
}

func TestGrid2DInputErrors(t *testing.T) {
	if _, err := NewGrid2D([]float64{1}, []float64{1, 2}, [][]float64{{1, 2}}); !errors.Is(err, ErrInterpInput) {
		t.Errorf("expected ErrInterpInput for a single row, got %v", err)
	}
	if _, err := NewGrid2D([]float64{1, 2}, []float64{1, 2}, [][]float64{{1, 2}, {3}}); !errors.Is(err, ErrInterpInput) {
		t.Errorf("expected ErrInterpInput for a ragged grid, got %v", err)
	}
}
