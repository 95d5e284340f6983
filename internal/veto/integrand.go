package veto

import (
	"github.com/afedynitch/nuVeto/internal/cascade"
)

// Integrand assembles the integrable array for one flux kind at one
// depth step: the sum over contributing mother species of
//
//	kernel(enu/esamp) / esamp * source(esamp) * weight
//
// sampled on the companion-energy axis esamp. The weight is identity
// for the total flux and survival-probability derived for the passed
// flux.
func (e *Engine) Integrand(k Kind, gs *cascade.GridSolution, idx int, weight, esamp []float64, enu float64) ([]float64, error) {
	ys := make([]float64, len(esamp))
	for _, mother := range k.Mothers() {
		kernel, err := e.DecayKernel(mother, k.Daughter)
		if err != nil {
			return nil, err
		}
		source, err := e.RescalePhi(mother, gs, idx)
		if err != nil {
			return nil, err
		}
		for i, es := range esamp {
			ys[i] += kernel.Eval(enu/es) / es * source.Eval(es) * weight[i]
		}
	}
	return ys, nil
}
