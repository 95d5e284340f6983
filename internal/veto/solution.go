package veto

import (
	"math"

	"go.uber.org/zap"

	"github.com/afedynitch/nuVeto/internal/cascade"
	"github.com/afedynitch/nuVeto/internal/numerics"
	"github.com/afedynitch/nuVeto/internal/particles"
	"github.com/afedynitch/nuVeto/internal/units"
)

// SolutionOpts modify flux extraction. Mag multiplies the result by
// E^Mag; Integrate multiplies by bin widths to yield particle counts;
// GridIdx selects a depth step when HasGridIdx is set, otherwise the
// deepest sample is used.
type SolutionOpts struct {
	Mag        float64
	GridIdx    int
	HasGridIdx bool
	Integrate  bool
}

// Solution converts raw solver state into the physical flux of a named
// species on the shared energy grid: the directly solved component,
// plus secondaries regenerated from projectile interactions scaled by
// the species' decay length. For muons the pre-split surface
// sub-solutions (kaon-, pion- and prompt-origin) are added, because the
// solver keeps those categories separate for muons reaching the
// surface.
func (e *Engine) Solution(name string, gs *cascade.GridSolution, opts SolutionOpts) ([]float64, error) {
	p, err := particles.Get(name)
	if err != nil {
		return nil, err
	}
	idx, xv := e.clampGridIdx(gs, opts.GridIdx, opts.HasGridIdx)

	egrid := e.solver.EGrid()
	res := make([]float64, len(egrid))

	// Regeneration: sum over every allowed projectile species of
	// (interaction yield matrix) . (projectile flux x cross section x
	// target density), then scale by the decay length of the species.
	if p.Mass > 0 && p.Lifetime > 0 {
		rho := e.solver.Density(xv)
		ndens := rho * units.Na / units.MolAir
		for _, prim := range e.solver.Projectiles() {
			block, ok := gs.Block(prim, idx)
			if !ok {
				continue
			}
			ppdg, err := particles.PDGID(prim)
			if err != nil {
				// Solver-enumerated projectile outside the registry;
				// it cannot contribute a tabulated yield.
				e.log.Debug("skipping unregistered projectile", zap.String("name", prim))
				continue
			}
			pxs, ok := e.solver.CrossSection(ppdg)
			if !ok {
				continue
			}
			ym, ok := e.solver.YieldMatrix(ppdg, p.PDG)
			if !ok {
				continue
			}
			for i := range res {
				row := ym[i]
				acc := 0.0
				for j := range row {
					acc += row[j] * block[j] * pxs[j] * ndens
				}
				res[i] += acc
			}
		}
		for i := range res {
			decayLength := (egrid[i] * units.GeV / p.Mass) * p.Lifetime / units.Cm
			res[i] *= decayLength
		}
	}

	// The directly solved component overrides regeneration wherever the
	// solver reports it.
	if direct, ok := gs.Block(name, idx); ok {
		for i := range res {
			if direct[i] != 0 {
				res[i] = direct[i]
			}
		}
	}

	if name == "mu+" || name == "mu-" {
		for _, prefix := range []string{"k_", "pi_", "pr_"} {
			if block, ok := gs.Block(prefix+name, idx); ok {
				for i := range res {
					res[i] += block[i]
				}
			}
		}
	}

	if opts.Mag != 0 {
		for i := range res {
			res[i] *= math.Pow(egrid[i], opts.Mag)
		}
	}
	if opts.Integrate {
		widths := e.solver.EWidths()
		for i := range res {
			res[i] *= widths[i]
		}
	}
	return res, nil
}

// RescalePhi converts a parent flux at one depth step into an effective
// decay-source density, interpolated over energy so the integration can
// sample off-grid energies:
//
//	source(E) = (1 / decay_length(E)) * dh * flux(E)
func (e *Engine) RescalePhi(mother string, gs *cascade.GridSolution, idx int) (*numerics.Interp, error) {
	p, err := particles.Get(mother)
	if err != nil {
		return nil, err
	}
	flux, err := e.Solution(mother, gs, SolutionOpts{GridIdx: idx, HasGridIdx: true})
	if err != nil {
		return nil, err
	}
	dh := e.dhVec[idx]
	egrid := e.solver.EGrid()
	vals := make([]float64, len(egrid))
	for i := range vals {
		invDecayLength := (p.Mass / (egrid[i] * units.GeV)) * (dh / p.Lifetime)
		vals[i] = invDecayLength * flux[i]
	}
	return numerics.NewQuadratic(egrid, vals)
}
