package veto

import (
	"math"

	"github.com/afedynitch/nuVeto/internal/cascade"
	"github.com/afedynitch/nuVeto/internal/numerics"
	"github.com/afedynitch/nuVeto/internal/particles"
)

// stubSolver is a synthetic cascade solver with power-law fluxes and
// analytic two-body decay matrices, cheap enough to run the full
// pipeline in tests.
type stubSolver struct {
	egrid   []float64
	ewidths []float64
	solves  int
}

const (
	stubMaxX       = 1030.0 // g/cm^2
	stubScaleH     = 6.4e5  // cm
	stubGamma      = 2.7
	stubMuonNorm   = 1e4
	stubMesonNorm  = 1.0
	stubAttenDepth = 1500.0
)

var stubSpecies = []string{
	"pi+", "pi-", "K+", "K-", "K0L", "K0S", "mu+", "mu-",
	"D+", "D-", "Ds+", "Ds-", "D0", "D0-bar", "Lambda0", "Lambda0-bar",
	"k_mu+", "k_mu-", "pi_mu+", "pi_mu-", "pr_mu+", "pr_mu-",
	"p", "n",
}

func newStubSolver() *stubSolver {
	// 10 bins per decade from 0.1 GeV to 1e11 GeV.
	egrid := numerics.Logspace(-1, 11, 121)
	step := math.Pow(10, 0.05)
	widths := make([]float64, len(egrid))
	for i, e := range egrid {
		widths[i] = e * (step - 1/step)
	}
	return &stubSolver{egrid: egrid, ewidths: widths}
}

func (s *stubSolver) EGrid() []float64   { return s.egrid }
func (s *stubSolver) EWidths() []float64 { return s.ewidths }
func (s *stubSolver) MaxX() float64      { return stubMaxX }

func (s *stubSolver) Height(x float64) float64 {
	return stubScaleH * math.Log(stubMaxX/x)
}

func (s *stubSolver) Density(x float64) float64 {
	return x / stubScaleH
}

func (s *stubSolver) CrossSection(pdg int) ([]float64, bool) {
	cs := make([]float64, len(s.egrid))
	for i := range cs {
		cs[i] = 3e-26
	}
	return cs, true
}

// DecayMatrix builds the scale-invariant two-body row so that the
// extracted kernel is flat at br/(1-r) below the kinematic endpoint.
func (s *stubSolver) DecayMatrix(motherPDG, daughterPDG int) ([][]float64, bool) {
	mother, ok := stubName(motherPDG)
	if !ok {
		return nil, false
	}
	daughter, ok := stubName(daughterPDG)
	if !ok {
		return nil, false
	}
	rr, err := particles.MassRatio(mother, daughter)
	if err != nil {
		return nil, false
	}
	br := 0.0
	chans, err := particles.Channels(mother)
	if err != nil {
		return nil, false
	}
	base := daughter
	for _, ch := range chans {
		for _, prod := range ch.Products {
			p1, _ := particles.Get(prod)
			p2, _ := particles.Get(base)
			if p1.PDG == p2.PDG || p1.PDG == -p2.PDG {
				br += ch.Br
				break
			}
		}
	}
	if br == 0 {
		return nil, false
	}
	n := len(s.egrid)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		for j := range mat[i] {
			x := s.egrid[i] / s.egrid[j]
			if x <= 1-rr {
				mat[i][j] = br / (1 - rr) * s.ewidths[i] / s.egrid[j]
			}
		}
	}
	return mat, true
}

func (s *stubSolver) YieldMatrix(projectilePDG, childPDG int) ([][]float64, bool) {
	return nil, false
}

func (s *stubSolver) Projectiles() []string { return []string{"p", "n"} }

func (s *stubSolver) flux(name string, e, x, ecr float64) float64 {
	if ecr > 0 && e > ecr {
		return 0
	}
	norm := stubMesonNorm
	switch name {
	case "mu+", "mu-":
		norm = 0.1 * stubMuonNorm
	case "k_mu+", "k_mu-", "pi_mu+", "pi_mu-", "pr_mu+", "pr_mu-":
		norm = 0.3 * stubMuonNorm
	case "p", "n":
		norm = 10 * stubMesonNorm
	}
	return norm * math.Pow(e, -stubGamma) * math.Exp(-x/stubAttenDepth)
}

func (s *stubSolver) Solve(req cascade.Request) (*cascade.GridSolution, error) {
	s.solves++
	n := len(s.egrid)
	index := make(map[string][2]int, len(stubSpecies))
	for i, name := range stubSpecies {
		index[name] = [2]int{i * n, (i + 1) * n}
	}
	states := make([][]float64, len(req.XGrid))
	for k, x := range req.XGrid {
		state := make([]float64, len(stubSpecies)*n)
		for si, name := range stubSpecies {
			for j := 0; j < n; j++ {
				state[si*n+j] = s.flux(name, s.egrid[j], x, req.ECr)
			}
		}
		states[k] = state
	}
	return &cascade.GridSolution{States: states, Index: index}, nil
}

var stubPDG = func() map[int]string {
	m := make(map[int]string)
	for _, name := range append(append([]string{}, stubSpecies...),
		"numu", "antinumu", "nue", "antinue") {
		if p, err := particles.Get(name); err == nil {
			m[p.PDG] = name
		}
	}
	return m
}()

func stubName(pdg int) (string, bool) {
	name, ok := stubPDG[pdg]
	return name, ok
}
