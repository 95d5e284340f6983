package veto

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/afedynitch/nuVeto/internal/cascade"
	"github.com/afedynitch/nuVeto/internal/crflux"
	"github.com/afedynitch/nuVeto/internal/geom"
	"github.com/afedynitch/nuVeto/internal/prpl"
)

// SolverFactory constructs a cascade solver bound to one hadronic
// model, primary model and zenith angle (degrees, measured at the
// surface).
type SolverFactory func(hadr string, pmodel crflux.Model, thetaDeg float64) (cascade.Solver, error)

type engineKey struct {
	cosTheta float64
	pmodel   string
	hadr     string
}

// Service is the memoizing facade over per-configuration engines. Each
// distinct (cos_theta, primary model, hadronic model) key lazily
// constructs one engine that lives for the service lifetime; the
// registry itself is mutex-guarded, the engines are single-caller.
type Service struct {
	mu      sync.Mutex
	engines map[engineKey]*Engine

	factory    SolverFactory
	depth      float64
	elevation  float64
	noMuCache  int
	solCache   int
	promptHist *PromptHist
	log        *zap.Logger
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithDetector overrides the detector depth and surface elevation (m).
func WithDetector(depth, elevation float64) ServiceOption {
	return func(s *Service) { s.depth, s.elevation = depth, elevation }
}

// WithCacheSizes overrides the per-engine cache capacities.
func WithCacheSizes(noMu, solutions int) ServiceOption {
	return func(s *Service) { s.noMuCache, s.solCache = noMu, solutions }
}

// WithPromptHist supplies the prompt-decay companion histogram.
func WithPromptHist(h *PromptHist) ServiceOption {
	return func(s *Service) { s.promptHist = h }
}

// WithLogger attaches a logger to the service and its engines.
func WithLogger(log *zap.Logger) ServiceOption {
	return func(s *Service) { s.log = log }
}

// NewService returns a service constructing solvers through factory.
func NewService(factory SolverFactory, opts ...ServiceOption) *Service {
	s := &Service{
		engines:   make(map[engineKey]*Engine),
		factory:   factory,
		depth:     geom.DefaultDepth,
		elevation: geom.DefaultElevation,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the engine for a configuration, constructing it on
// first use.
func (s *Service) Engine(cosTheta float64, pmodel crflux.Model, hadr string) (*Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := engineKey{cosTheta: cosTheta, pmodel: pmodel.Name(), hadr: hadr}
	if eng, ok := s.engines[key]; ok {
		return eng, nil
	}
	geo := geom.New(s.depth, s.elevation)
	thetaDeg := math.Acos(geo.CosThetaEff(cosTheta)) * 180 / math.Pi
	solver, err := s.factory(hadr, pmodel, thetaDeg)
	if err != nil {
		return nil, err
	}
	eng, err := New(Config{
		CosTheta:          cosTheta,
		Pmodel:            pmodel,
		Hadr:              hadr,
		Solver:            solver,
		Depth:             s.depth,
		Elevation:         s.elevation,
		NoMuCacheSize:     s.noMuCache,
		SolutionCacheSize: s.solCache,
		PromptHist:        s.promptHist,
		Logger:            s.log,
	})
	if err != nil {
		return nil, err
	}
	s.engines[key] = eng
	return eng, nil
}

// RunOpts select the sampling accuracy, reach model and mode of one
// passing-rate or flux evaluation. Zero values take the defaults
// (accuracy 3, the built-in analytic ice model, full mode, fraction).
type RunOpts struct {
	Accuracy int
	Prpl     string
	CorrOnly bool
	// Raw makes PassingRate return the unnormalized passed flux
	// instead of the passed/total fraction.
	Raw bool
}

func (o RunOpts) reachModel() (prpl.Model, error) {
	name := o.Prpl
	if name == "" {
		name = "ice_analytic"
	}
	return prpl.Get(name)
}

// Fluxes evaluates (passed, total) for one configuration.
func (s *Service) Fluxes(enu, cosTheta float64, kind string, pmodel crflux.Model, hadr string, o RunOpts) (float64, float64, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return 0, 0, err
	}
	pm, err := o.reachModel()
	if err != nil {
		return 0, 0, err
	}
	eng, err := s.Engine(cosTheta, pmodel, hadr)
	if err != nil {
		return 0, 0, err
	}
	return eng.Fluxes(enu, k, FluxOpts{Accuracy: o.Accuracy, Prpl: pm, CorrOnly: o.CorrOnly})
}

// PassingRate returns the fraction of the flux kind passing the
// self-veto at one neutrino energy and zenith cosine (or the raw
// passed flux with RunOpts.Raw). Deterministic given warm caches.
func (s *Service) PassingRate(enu, cosTheta float64, kind string, pmodel crflux.Model, hadr string, o RunOpts) (float64, error) {
	passed, total, err := s.Fluxes(enu, cosTheta, kind, pmodel, hadr, o)
	if err != nil {
		return 0, err
	}
	if o.Raw {
		return passed, nil
	}
	return passed / total, nil
}

// TotalFlux returns the unvetoed flux for one configuration.
func (s *Service) TotalFlux(enu, cosTheta float64, kind string, pmodel crflux.Model, hadr string, o RunOpts) (float64, error) {
	_, total, err := s.Fluxes(enu, cosTheta, kind, pmodel, hadr, o)
	return total, err
}
