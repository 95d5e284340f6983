package veto

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/afedynitch/nuVeto/internal/cache"
	"github.com/afedynitch/nuVeto/internal/cascade"
	"github.com/afedynitch/nuVeto/internal/crflux"
	"github.com/afedynitch/nuVeto/internal/geom"
	"github.com/afedynitch/nuVeto/internal/numerics"
	"github.com/afedynitch/nuVeto/internal/prpl"
	"github.com/afedynitch/nuVeto/internal/units"
)

// ErrConfig indicates an invalid engine configuration.
var ErrConfig = errors.New("veto: invalid engine configuration")

const (
	defaultDepthSteps = 11
	defaultCacheSize  = 1 << 10
	minSlantDepth     = 1e-4 // g/cm^2, top of the depth grid
)

// Config assembles one engine. A separate engine is required for each
// (CosTheta, Pmodel, Hadr) combination; the Service registry manages
// that mapping.
type Config struct {
	CosTheta float64
	Pmodel   crflux.Model
	Hadr     string
	Solver   cascade.Solver

	// Detector geometry in meters; zero values take the defaults.
	Depth     float64
	Elevation float64

	// DepthSteps is the size of the slant-depth grid (default 11).
	DepthSteps int

	// Cache capacities, rounded up to powers of two (default 2^10).
	NoMuCacheSize     int
	SolutionCacheSize int

	// PromptHist enables the histogram-based companion weighting for
	// prompt channels. Without it prompt channels fall back to the
	// two-body weighting.
	PromptHist *PromptHist

	Logger *zap.Logger
}

type solKey struct {
	ecr      float64
	particle int
}

type nomuKey struct {
	ecr      float64
	particle int
	prpl     string
}

type channelKey struct {
	mother, daughter string
}

// Engine owns the cascade solver and caches for one configuration and
// runs the passing-fraction pipeline. Not safe for concurrent use.
type Engine struct {
	costh    float64
	pmodel   crflux.Model
	hadr     string
	solver   cascade.Solver
	geo      *geom.Geometry
	thetaRad float64

	xVec  []float64 // slant depth samples, g/cm^2
	dhVec []float64 // path-length increments per step, natural units

	kernels map[channelKey]*numerics.Interp
	sols    *cache.LRU[solKey, *cascade.GridSolution]
	nomu    *cache.LRU[nomuKey, float64]
	prompt  *PromptHist
	log     *zap.Logger
}

// New builds an engine and its depth grid from the solver's atmosphere.
func New(cfg Config) (*Engine, error) {
	if cfg.Solver == nil || cfg.Pmodel == nil {
		return nil, fmt.Errorf("%w: solver and primary model are required", ErrConfig)
	}
	if cfg.CosTheta < -1 || cfg.CosTheta > 1 {
		return nil, fmt.Errorf("%w: cos_theta %g outside [-1, 1]", ErrConfig, cfg.CosTheta)
	}
	if cfg.Depth == 0 {
		cfg.Depth = geom.DefaultDepth
	}
	if cfg.Elevation == 0 {
		cfg.Elevation = geom.DefaultElevation
	}
	if cfg.DepthSteps == 0 {
		cfg.DepthSteps = defaultDepthSteps
	}
	if cfg.NoMuCacheSize == 0 {
		cfg.NoMuCacheSize = defaultCacheSize
	}
	if cfg.SolutionCacheSize == 0 {
		cfg.SolutionCacheSize = defaultCacheSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	geo := geom.New(cfg.Depth, cfg.Elevation)
	thetaRad := math.Acos(geo.CosThetaEff(cfg.CosTheta))

	// Depth grid along the shower axis with the corresponding path
	// length traversed per step.
	xv := numerics.Logspace(math.Log10(minSlantDepth),
		math.Log10(cfg.Solver.MaxX()), cfg.DepthSteps)
	lengths := make([]float64, len(xv))
	for i, x := range xv {
		h := cfg.Solver.Height(x)
		lengths[i] = geom.PathLength(h, thetaRad) * units.Cm
	}
	dh := make([]float64, len(xv)-1)
	for i := range dh {
		dh[i] = math.Abs(lengths[i+1] - lengths[i])
	}

	e := &Engine{
		costh:    cfg.CosTheta,
		pmodel:   cfg.Pmodel,
		hadr:     cfg.Hadr,
		solver:   cfg.Solver,
		geo:      geo,
		thetaRad: thetaRad,
		xVec:     xv[:len(xv)-1],
		dhVec:    dh,
		kernels:  make(map[channelKey]*numerics.Interp),
		sols:     cache.NewLRU[solKey, *cascade.GridSolution](cfg.SolutionCacheSize),
		nomu:     cache.NewLRU[nomuKey, float64](cfg.NoMuCacheSize),
		prompt:   cfg.PromptHist,
		log:      cfg.Logger,
	}
	e.log.Debug("engine created",
		zap.Float64("cos_theta", cfg.CosTheta),
		zap.String("pmodel", cfg.Pmodel.Name()),
		zap.String("hadr", cfg.Hadr),
		zap.Int("depth_steps", len(e.xVec)))
	return e, nil
}

// CosTheta returns the configured detector-frame zenith cosine.
func (e *Engine) CosTheta() float64 { return e.costh }

// DepthGrid returns the slant-depth samples of the engine.
func (e *Engine) DepthGrid() []float64 { return e.xVec }

// SolutionCacheStats and NoMuCacheStats expose the memoization
// counters for inspection.
func (e *Engine) SolutionCacheStats() cache.Stats { return e.sols.Stats() }
func (e *Engine) NoMuCacheStats() cache.Stats     { return e.nomu.Stats() }

// gridSol returns the memoized cascade solution for one primary
// condition; ecr == 0 solves for the configured primary spectrum.
func (e *Engine) gridSol(ecr float64, particle int) (*cascade.GridSolution, error) {
	return e.sols.GetOrCompute(solKey{ecr, particle}, func() (*cascade.GridSolution, error) {
		e.log.Debug("solving cascade",
			zap.Float64("ecr", ecr), zap.Int("particle", particle))
		return e.solver.Solve(cascade.Request{XGrid: e.xVec, ECr: ecr, Particle: particle})
	})
}

// clampGridIdx resolves a depth-grid index against the available steps.
// A missing or out-of-range index falls back to the deepest available
// sample; this is the documented graceful-degradation policy, not an
// error.
func (e *Engine) clampGridIdx(gs *cascade.GridSolution, idx int, hasIdx bool) (int, float64) {
	last := gs.Steps() - 1
	if last > len(e.xVec)-1 {
		last = len(e.xVec) - 1
	}
	if !hasIdx || idx < 0 || idx > last {
		return last, e.xVec[last]
	}
	return idx, e.xVec[idx]
}

// ProbNoMu returns the Poisson-suppressed probability that a shower
// initiated by a primary of energy ecr (GeV) and the given nucleus id
// yields zero muons reaching the detector, using reach model pm.
// Results are memoized per (ecr, particle, model).
func (e *Engine) ProbNoMu(ecr float64, particle int, pm prpl.Model) (float64, error) {
	key := nomuKey{ecr: ecr, particle: particle, prpl: pm.Name()}
	return e.nomu.GetOrCompute(key, func() (float64, error) {
		gs, err := e.gridSol(ecr, particle)
		if err != nil {
			return 0, err
		}
		muMinus, err := e.Solution("mu-", gs, SolutionOpts{})
		if err != nil {
			return 0, err
		}
		muPlus, err := e.Solution("mu+", gs, SolutionOpts{})
		if err != nil {
			return 0, err
		}
		lIce := e.geo.Overburden(e.costh)
		egrid := e.solver.EGrid()
		integ := make([]float64, len(egrid))
		for i := range egrid {
			integ[i] = (muMinus[i] + muPlus[i]) * pm.ReachProb(egrid[i]*units.GeV, lIce)
		}
		return math.Exp(-numerics.Trapz(integ, egrid)), nil
	})
}
