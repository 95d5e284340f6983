// Package prpl models the probability that a muon of given surface
// energy survives propagation through a slant overburden and reaches
// the detector. Tabulated models are loaded from JSON files; a built-in
// analytic ice model covers the default configuration.
package prpl

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/afedynitch/nuVeto/internal/numerics"
)

// ErrUnknownModel indicates a reach-model name with no registration.
var ErrUnknownModel = errors.New("prpl: unknown reach model")

// Model yields the reach probability in [0, 1] for a muon of energy
// (GeV) at the surface traversing dist meters of overburden. Energies
// or distances outside a tabulated domain yield the table's own fill
// value (typically NaN), which propagates unmodified.
type Model interface {
	Name() string
	ReachProb(energy, dist float64) float64
}

var (
	regMu    sync.Mutex
	registry = map[string]Model{}
)

func init() {
	Register(NewAnalyticIce())
}

// Register adds a model to the process-wide lookup, replacing any
// previous model with the same name.
func Register(m Model) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[m.Name()] = m
}

// Get returns a registered model by name.
func Get(name string) (Model, error) {
	regMu.Lock()
	defer regMu.Unlock()
	m, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, name)
	}
	return m, nil
}

// Names lists the registered models.
func Names() []string {
	regMu.Lock()
	defer regMu.Unlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AnalyticIce is the built-in reach model for ice: continuous energy
// loss dE/dX = a + bE gives the mean range, with gaussian straggling
// about it. Muons below the detection threshold never reach.
type AnalyticIce struct {
	// A and B are the ionization and radiative loss parameters in
	// GeV/mwe and 1/mwe.
	A, B float64
	// Density of ice in g/cm^3 converts meters of ice to mwe.
	Density float64
	// MinEnergy is the detection threshold in GeV.
	MinEnergy float64
}

// NewAnalyticIce returns the ice model with standard loss parameters
// and a 1 TeV detection threshold.
func NewAnalyticIce() *AnalyticIce {
	return &AnalyticIce{A: 0.249, B: 0.422e-3, Density: 0.9167, MinEnergy: 1e3}
}

func (m *AnalyticIce) Name() string { return "ice_analytic" }

// MeanRange returns the mean distance in meters of ice a muon of the
// given energy travels before dropping below the threshold.
func (m *AnalyticIce) MeanRange(energy float64) float64 {
	if energy <= m.MinEnergy {
		return 0
	}
	// a, b are per mwe; convert the resulting range to meters of ice.
	return math.Log((m.A+energy*m.B)/(m.A+m.MinEnergy*m.B)) / m.B / m.Density
}

func (m *AnalyticIce) ReachProb(energy, dist float64) float64 {
	mean := m.MeanRange(energy)
	if mean <= 0 {
		return 0
	}
	// Survival function of a gaussian range distribution with variance
	// equal to the mean range.
	z := (dist - mean) / math.Sqrt(2*mean)
	return 0.5 * math.Erfc(z)
}

// tableFile is the JSON schema of a tabulated reach model.
type tableFile struct {
	Name  string      `json:"name"`
	EGrid []float64   `json:"e_grid"` // GeV
	DGrid []float64   `json:"d_grid"` // meters
	Probs [][]float64 `json:"probs"`  // [len(EGrid)][len(DGrid)]
}

// Table is a reach model interpolated bilinearly from a 2-D grid in
// log10(energy) and distance. Lookups outside the grid are NaN.
type Table struct {
	name   string
	interp *numerics.Grid2D
	emin   float64
	emax   float64
	dmin   float64
	dmax   float64
}

// Load reads a tabulated model from path and registers it.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prpl: read table: %w", err)
	}
	var f tableFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("prpl: decode table: %w", err)
	}
	t, err := NewTable(f.Name, f.EGrid, f.DGrid, f.Probs)
	if err != nil {
		return nil, err
	}
	Register(t)
	return t, nil
}

// NewTable builds a tabulated model from grids and probabilities.
func NewTable(name string, egrid, dgrid []float64, probs [][]float64) (*Table, error) {
	logE := make([]float64, len(egrid))
	for i, e := range egrid {
		logE[i] = math.Log10(e)
	}
	interp, err := numerics.NewGrid2D(logE, dgrid, probs)
	if err != nil {
		return nil, fmt.Errorf("prpl: table %s: %w", name, err)
	}
	return &Table{
		name:   name,
		interp: interp,
		emin:   egrid[0],
		emax:   egrid[len(egrid)-1],
		dmin:   dgrid[0],
		dmax:   dgrid[len(dgrid)-1],
	}, nil
}

func (t *Table) Name() string { return t.name }

func (t *Table) ReachProb(energy, dist float64) float64 {
	if energy < t.emin || energy > t.emax || dist < t.dmin || dist > t.dmax {
		return numerics.Nan
	}
	p := t.interp.Eval(math.Log10(energy), dist)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
