package numerics

import (
	"errors"
	"math"
	"sort"
)

// ErrInterpInput indicates interpolation nodes that are too few or not
// strictly increasing after sorting.
var ErrInterpInput = errors.New("numerics: invalid interpolation nodes")

type interpKind int

const (
	kindLinear interpKind = iota
	kindQuadratic
)

type edgePolicy int

const (
	edgeExtrapolate edgePolicy = iota
	edgeFill
)

// Interp is a piecewise polynomial interpolant over sorted nodes.
// The quadratic kind evaluates the local three-point Lagrange
// polynomial around the bracketing segment; outside the domain it
// either extrapolates the edge polynomial or returns fill values.
type Interp struct {
	xs, ys       []float64
	kind         interpKind
	edges        edgePolicy
	below, above float64
}

// NewLinear builds a piecewise linear interpolant. Nodes are sorted by x.
func NewLinear(xs, ys []float64) (*Interp, error) {
	return newInterp(xs, ys, kindLinear, 2)
}

// NewQuadratic builds a piecewise quadratic interpolant. Nodes are
// sorted by x.
func NewQuadratic(xs, ys []float64) (*Interp, error) {
	return newInterp(xs, ys, kindQuadratic, 3)
}

func newInterp(xs, ys []float64, kind interpKind, minNodes int) (*Interp, error) {
	if len(xs) != len(ys) || len(xs) < minNodes {
		return nil, ErrInterpInput
	}
	x := append([]float64(nil), xs...)
	y := append([]float64(nil), ys...)
	sort.Sort(&xyPairs{x, y})
	for i := 1; i < len(x); i++ {
		if x[i] <= x[i-1] {
			return nil, ErrInterpInput
		}
	}
	return &Interp{xs: x, ys: y, kind: kind, edges: edgeExtrapolate}, nil
}

// WithFill makes out-of-domain evaluation return below for x < xs[0]
// and above for x > xs[len-1] instead of extrapolating.
func (f *Interp) WithFill(below, above float64) *Interp {
	f.edges = edgeFill
	f.below, f.above = below, above
	return f
}

// Eval evaluates the interpolant at x.
func (f *Interp) Eval(x float64) float64 {
	n := len(f.xs)
	if f.edges == edgeFill {
		if x < f.xs[0] {
			return f.below
		}
		if x > f.xs[n-1] {
			return f.above
		}
	}
	switch f.kind {
	case kindLinear:
		return f.evalLinear(x)
	default:
		return f.evalQuadratic(x)
	}
}

// EvalSlice evaluates the interpolant at every sample of xs.
func (f *Interp) EvalSlice(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = f.Eval(x)
	}
	return out
}

func (f *Interp) segment(x float64) int {
	// Index i such that nodes i, i+1 bracket x, clamped to the edges so
	// out-of-domain evaluation uses the boundary segment.
	i := SearchSorted(f.xs, x) - 1
	if i < 0 {
		i = 0
	}
	if i > len(f.xs)-2 {
		i = len(f.xs) - 2
	}
	return i
}

func (f *Interp) evalLinear(x float64) float64 {
	i := f.segment(x)
	t := (x - f.xs[i]) / (f.xs[i+1] - f.xs[i])
	return f.ys[i] + t*(f.ys[i+1]-f.ys[i])
}

func (f *Interp) evalQuadratic(x float64) float64 {
	i := f.segment(x)
	// Center the three-point stencil on the bracketing segment.
	if i > 0 && (i == len(f.xs)-2 || x-f.xs[i] < f.xs[i+1]-x) {
		i--
	}
	if i > len(f.xs)-3 {
		i = len(f.xs) - 3
	}
	x0, x1, x2 := f.xs[i], f.xs[i+1], f.xs[i+2]
	y0, y1, y2 := f.ys[i], f.ys[i+1], f.ys[i+2]
	l0 := (x - x1) * (x - x2) / ((x0 - x1) * (x0 - x2))
	l1 := (x - x0) * (x - x2) / ((x1 - x0) * (x1 - x2))
	l2 := (x - x0) * (x - x1) / ((x2 - x0) * (x2 - x1))
	return y0*l0 + y1*l1 + y2*l2
}

type xyPairs struct {
	x, y []float64
}

func (p *xyPairs) Len() int           { return len(p.x) }
func (p *xyPairs) Less(i, j int) bool { return p.x[i] < p.x[j] }
func (p *xyPairs) Swap(i, j int) {
	p.x[i], p.x[j] = p.x[j], p.x[i]
	p.y[i], p.y[j] = p.y[j], p.y[i]
}

// Grid2D is a bilinear interpolant on a regular rectangular grid.
// Outside the grid it extrapolates linearly from the boundary cell,
// matching a regular-grid interpolator with no bounds error.
type Grid2D struct {
	xs, ys []float64
	vals   [][]float64 // vals[i][j] at (xs[i], ys[j])
}

// NewGrid2D builds a bilinear interpolant over strictly increasing axes.
// vals must have len(xs) rows of len(ys) columns.
func NewGrid2D(xs, ys []float64, vals [][]float64) (*Grid2D, error) {
	if len(xs) < 2 || len(ys) < 2 || len(vals) != len(xs) {
		return nil, ErrInterpInput
	}
	for _, row := range vals {
		if len(row) != len(ys) {
			return nil, ErrInterpInput
		}
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, ErrInterpInput
		}
	}
	for j := 1; j < len(ys); j++ {
		if ys[j] <= ys[j-1] {
			return nil, ErrInterpInput
		}
	}
	return &Grid2D{xs: xs, ys: ys, vals: vals}, nil
}

// Eval evaluates the interpolant at (x, y).
func (g *Grid2D) Eval(x, y float64) float64 {
	i := clampSegment(g.xs, x)
	j := clampSegment(g.ys, y)
	tx := (x - g.xs[i]) / (g.xs[i+1] - g.xs[i])
	ty := (y - g.ys[j]) / (g.ys[j+1] - g.ys[j])
	v00 := g.vals[i][j]
	v01 := g.vals[i][j+1]
	v10 := g.vals[i+1][j]
	v11 := g.vals[i+1][j+1]
	return v00*(1-tx)*(1-ty) + v10*tx*(1-ty) + v01*(1-tx)*ty + v11*tx*ty
}

func clampSegment(a []float64, v float64) int {
	i := SearchSorted(a, v) - 1
	if i < 0 {
		i = 0
	}
	if i > len(a)-2 {
		i = len(a) - 2
	}
	return i
}

// Nan is the quiet NaN used as the undefined fill value for
// out-of-domain table lookups.
var Nan = math.NaN()
