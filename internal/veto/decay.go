package veto

import (
	"fmt"
	"math"

	"github.com/afedynitch/nuVeto/internal/numerics"
	"github.com/afedynitch/nuVeto/internal/particles"
)

// refDaughterIdx is the representative daughter-energy index the decay
// kernel shape is extracted at. The shape in log energy fraction is
// treated as energy-scale invariant, so one extraction serves every
// daughter energy.
const refDaughterIdx = 20

// minKernelX is the smallest energy fraction the decay matrix samples
// reliably; below it the kernel is held flat at the last good value.
const minKernelX = 5e-2

// DecayKernel returns the interpolated decay spectrum dN/dx for one
// mother -> daughter channel as a function of the daughter energy
// fraction x. The kernel is anchored at the analytic two-body edge
// value br/(1-r) at x = 1-r, held flat below the smallest reliably
// sampled fraction, and zero above the kinematic endpoint. Kernels are
// cached per channel.
func (e *Engine) DecayKernel(mother, daughter string) (*numerics.Interp, error) {
	key := channelKey{mother: mother, daughter: daughter}
	if k, ok := e.kernels[key]; ok {
		return k, nil
	}

	mpdg, err := particles.PDGID(mother)
	if err != nil {
		return nil, err
	}
	dpdg, err := particles.PDGID(daughter)
	if err != nil {
		return nil, err
	}
	dmat, ok := e.solver.DecayMatrix(mpdg, dpdg)
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s (no decay matrix)",
			particles.ErrUnknownChannel, mother, daughter)
	}
	rr, err := particles.MassRatio(mother, daughter)
	if err != nil {
		return nil, err
	}
	br2, err := particles.BrTwoBody(mother, daughter)
	if err != nil {
		return nil, err
	}
	edge := br2 / (1 - rr)

	egrid := e.solver.EGrid()
	delta := e.solver.EWidths()

	// Differential spectrum vs energy fraction, extracted at the
	// reference daughter energy.
	logxWidth := math.Log10(egrid[1]) - math.Log10(egrid[0])
	xs := make([]float64, 0, len(egrid))
	ys := make([]float64, 0, len(egrid))
	lower := 0.0
	for i := range egrid {
		x := egrid[refDaughterIdx] / egrid[i]
		// Only bins fully below the kinematic endpoint and above the
		// sampling floor enter the fit.
		if math.Log10(x)+logxWidth/2 >= math.Log10(1-rr) || x < minKernelX {
			continue
		}
		dNdEE := dmat[refDaughterIdx][i] * egrid[i] / delta[i]
		xs = append(xs, x)
		ys = append(ys, dNdEE)
		lower = dNdEE
	}
	xs = append(xs, 1-rr)
	ys = append(ys, edge)

	kernel, err := numerics.NewQuadratic(xs, ys)
	if err != nil {
		return nil, fmt.Errorf("veto: decay kernel %s -> %s: %w", mother, daughter, err)
	}
	kernel.WithFill(lower, 0)
	e.kernels[key] = kernel
	return kernel, nil
}
