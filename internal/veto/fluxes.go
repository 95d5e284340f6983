package veto

import (
	"math"

	"go.uber.org/zap"

	"github.com/afedynitch/nuVeto/internal/crflux"
	"github.com/afedynitch/nuVeto/internal/numerics"
	"github.com/afedynitch/nuVeto/internal/prpl"
	"github.com/afedynitch/nuVeto/internal/units"
)

// FluxOpts tune one Fluxes evaluation. Accuracy scales the companion
// and primary-energy sampling densities; Prpl selects the muon reach
// model; CorrOnly restricts the computation to the correlated
// approximation against the default-primary cascade only.
type FluxOpts struct {
	Accuracy int
	Prpl     prpl.Model
	CorrOnly bool
}

// samples per unit accuracy on the companion-energy axis and the
// primary-energy axis.
const (
	esampPerAccuracy = 1000
	ecrPerAccuracy   = 10
)

// Fluxes produces the (passed, total) flux pair for one neutrino energy
// (GeV) and flux kind. In full mode the result is the triple integral
// over companion energy, slant depth and primary cosmic-ray energy,
// summed over the nucleus species of the primary model; in
// correlated-only mode the outer primary integral is skipped and the
// default-primary cascade is used. NaN values from out-of-domain
// external tables propagate unmodified.
func (e *Engine) Fluxes(enu float64, k Kind, o FluxOpts) (passed, total float64, err error) {
	if o.Accuracy <= 0 {
		o.Accuracy = 3
	}
	egrid := e.solver.EGrid()
	emax := egrid[len(egrid)-1]

	esamp := numerics.Logspace(math.Log10(enu), math.Log10(emax),
		esampPerAccuracy*o.Accuracy)
	identity := make([]float64, len(esamp))
	for i := range identity {
		identity[i] = 1
	}
	reaching := e.companionWeights(enu, k, esamp, o.Prpl)

	if o.CorrOnly {
		gs, err := e.gridSol(0, 0)
		if err != nil {
			return 0, 0, err
		}
		for idx := range e.xVec {
			num, err := e.Integrand(k, gs, idx, reaching, esamp, enu)
			if err != nil {
				return 0, 0, err
			}
			den, err := e.Integrand(k, gs, idx, identity, esamp, enu)
			if err != nil {
				return 0, 0, err
			}
			passed += numerics.Trapz(num, esamp)
			total += numerics.Trapz(den, esamp)
		}
		return passed, total, nil
	}

	for _, particle := range e.pmodel.NucleusIDs() {
		a := crflux.MassNumber(particle)
		// Primary energies spanning 1e2*A to 1e10*A GeV.
		ecrs := numerics.Logspace(2, 10, ecrPerAccuracy*o.Accuracy)
		for i := range ecrs {
			ecrs[i] *= a
		}

		// The no-muon probability is the most expensive nested factor;
		// it is evaluated on the coarse primary grid and interpolated
		// at the residual energies.
		pnm := make([]float64, len(ecrs))
		for i, ecr := range ecrs {
			pnm[i], err = e.ProbNoMu(ecr, particle, o.Prpl)
			if err != nil {
				return 0, 0, err
			}
		}
		pnmfn, err := numerics.NewLinear(ecrs, pnm)
		if err != nil {
			return 0, 0, err
		}
		pnmfn.WithFill(1, numerics.Nan)

		// Primaries below enu cannot produce the neutrino; start one
		// grid point below the first energy above it.
		istart := 0
		for i, ecr := range ecrs {
			if ecr > enu {
				istart = i - 1
				break
			}
		}
		if istart < 0 {
			istart = 0
		}

		nums := make([]float64, 0, len(ecrs)-istart)
		dens := make([]float64, 0, len(ecrs)-istart)
		for _, ecr := range ecrs[istart:] {
			crFlux := e.pmodel.NucleusFlux(particle, ecr) * units.Phim2
			gs, err := e.gridSol(ecr, particle)
			if err != nil {
				return 0, 0, err
			}
			pnmarr := make([]float64, len(esamp))
			for i := range esamp {
				pnmarr[i] = pnmfn.Eval(ecr - esamp[i])
			}
			numEcr, denEcr := 0.0, 0.0
			for idx := range e.xVec {
				num, err := e.Integrand(k, gs, idx, reaching, esamp, enu)
				if err != nil {
					return 0, 0, err
				}
				for i := range num {
					num[i] *= pnmarr[i]
				}
				den, err := e.Integrand(k, gs, idx, identity, esamp, enu)
				if err != nil {
					return 0, 0, err
				}
				numEcr += numerics.Trapz(num, esamp)
				denEcr += numerics.Trapz(den, esamp)
			}
			nums = append(nums, numEcr*crFlux/units.Phicm2)
			dens = append(dens, denEcr*crFlux/units.Phicm2)
		}
		passed += numerics.Trapz(nums, ecrs[istart:])
		total += numerics.Trapz(dens, ecrs[istart:])
	}

	e.log.Debug("fluxes computed",
		zap.Float64("enu", enu),
		zap.String("kind", k.String()),
		zap.Float64("passed", passed),
		zap.Float64("total", total))
	return passed, total, nil
}

// companionWeights builds the muon-survival weighting on the
// companion-energy axis. Only muon-neutrino channels have a detectable
// companion; conventional channels use two-body kinematics, prompt
// channels the precomputed decay histogram when available.
func (e *Engine) companionWeights(enu float64, k Kind, esamp []float64, pm prpl.Model) []float64 {
	w := make([]float64, len(esamp))
	if !k.IsMuon() {
		for i := range w {
			w[i] = 1
		}
		return w
	}
	dist := e.geo.Overburden(e.costh)
	if k.Category == Conventional || e.prompt == nil {
		// Two-body kinematics fix the companion energy at
		// esamp - enu for the parent sampled at esamp.
		for i, es := range esamp {
			w[i] = 1 - pm.ReachProb((es-enu)*units.GeV, dist)
		}
		return w
	}
	xmus := e.prompt.Centers()
	for i, es := range esamp {
		enufrac := enu / es
		veto := 0.0
		for _, xmu := range xmus {
			veto += e.prompt.Prob(enufrac, xmu) * pm.ReachProb(xmu*es*units.GeV, dist)
		}
		w[i] = 1 - veto
	}
	return w
}
