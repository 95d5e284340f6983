package cascade

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/afedynitch/nuVeto/internal/numerics"
)

// bundleFile is the JSON schema of an exported solver state. Matrices
// are row-major on the energy grid; matrix keys are "motherPDG:daughterPDG".
type bundleFile struct {
	HadronicModel string                 `json:"hadronic_model"`
	PrimaryModel  string                 `json:"primary_model"`
	ThetaDeg      float64                `json:"theta_deg"`
	EGrid         []float64              `json:"e_grid"`
	EWidths       []float64              `json:"e_widths"`
	MaxX          float64                `json:"max_x"`
	XSamples      []float64              `json:"x_samples"`
	Heights       []float64              `json:"heights"`
	Densities     []float64              `json:"densities"`
	CrossSections map[string][]float64   `json:"cross_sections"`
	DecayMatrices map[string][][]float64 `json:"decay_matrices"`
	YieldMatrices map[string][][]float64 `json:"yield_matrices"`
	Projectiles   []string               `json:"projectiles"`
	Solutions     []bundleSolution       `json:"solutions"`
}

type bundleSolution struct {
	ECr      float64           `json:"ecr"`
	Particle int               `json:"particle"`
	Index    map[string][2]int `json:"index"`
	States   [][]float64       `json:"states"`
}

// Bundle replays cascade states exported to a JSON file. Solve requests
// are matched against the precomputed (ECr, Particle) entries; the
// nearest single-primary energy within 1% is accepted, anything else is
// ErrNoSolution.
type Bundle struct {
	file    bundleFile
	height  *numerics.Interp
	density *numerics.Interp
	log     *zap.Logger
}

// Open reads and validates a solution bundle.
func Open(path string, log *zap.Logger) (*Bundle, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cascade: read bundle: %w", err)
	}
	var f bundleFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("cascade: decode bundle: %w", err)
	}
	if len(f.EGrid) == 0 || len(f.EGrid) != len(f.EWidths) {
		return nil, fmt.Errorf("cascade: bundle %s: energy grid/widths mismatch", path)
	}
	if len(f.XSamples) != len(f.Heights) || len(f.XSamples) != len(f.Densities) {
		return nil, fmt.Errorf("cascade: bundle %s: atmosphere table mismatch", path)
	}
	height, err := numerics.NewLinear(f.XSamples, f.Heights)
	if err != nil {
		return nil, fmt.Errorf("cascade: bundle %s: height table: %w", path, err)
	}
	density, err := numerics.NewLinear(f.XSamples, f.Densities)
	if err != nil {
		return nil, fmt.Errorf("cascade: bundle %s: density table: %w", path, err)
	}
	log.Info("cascade bundle loaded",
		zap.String("path", path),
		zap.String("hadr", f.HadronicModel),
		zap.String("pmodel", f.PrimaryModel),
		zap.Float64("theta_deg", f.ThetaDeg),
		zap.Int("solutions", len(f.Solutions)))
	return &Bundle{file: f, height: height, density: density, log: log}, nil
}

// HadronicModel returns the hadronic interaction model the bundle was
// exported with.
func (b *Bundle) HadronicModel() string { return b.file.HadronicModel }

// PrimaryModel returns the primary flux model tag of the bundle.
func (b *Bundle) PrimaryModel() string { return b.file.PrimaryModel }

// ThetaDeg returns the zenith angle of the exported cascade.
func (b *Bundle) ThetaDeg() float64 { return b.file.ThetaDeg }

func (b *Bundle) EGrid() []float64      { return b.file.EGrid }
func (b *Bundle) EWidths() []float64    { return b.file.EWidths }
func (b *Bundle) MaxX() float64         { return b.file.MaxX }
func (b *Bundle) Projectiles() []string { return b.file.Projectiles }

func (b *Bundle) Height(x float64) float64  { return b.height.Eval(x) }
func (b *Bundle) Density(x float64) float64 { return b.density.Eval(x) }

func (b *Bundle) CrossSection(pdg int) ([]float64, bool) {
	cs, ok := b.file.CrossSections[strconv.Itoa(pdg)]
	return cs, ok
}

func (b *Bundle) DecayMatrix(motherPDG, daughterPDG int) ([][]float64, bool) {
	m, ok := b.file.DecayMatrices[matrixKey(motherPDG, daughterPDG)]
	return m, ok
}

func (b *Bundle) YieldMatrix(projectilePDG, childPDG int) ([][]float64, bool) {
	m, ok := b.file.YieldMatrices[matrixKey(projectilePDG, childPDG)]
	return m, ok
}

// Solve matches the request against the precomputed solutions. The
// bundle's depth grid is fixed at export time; req.XGrid is not
// re-solved, only validated against the stored step count.
func (b *Bundle) Solve(req Request) (*GridSolution, error) {
	best := -1
	bestDist := math.Inf(1)
	for i, sol := range b.file.Solutions {
		if req.ECr == 0 {
			if sol.ECr == 0 {
				best = i
				break
			}
			continue
		}
		if sol.Particle != req.Particle || sol.ECr == 0 {
			continue
		}
		d := math.Abs(math.Log(sol.ECr / req.ECr))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 || (req.ECr != 0 && bestDist > 0.01) {
		return nil, fmt.Errorf("%w: ecr=%g particle=%d", ErrNoSolution, req.ECr, req.Particle)
	}
	sol := b.file.Solutions[best]
	if len(req.XGrid) > 0 && len(sol.States) < len(req.XGrid) {
		return nil, fmt.Errorf("%w: bundle has %d depth steps, need %d",
			ErrNoSolution, len(sol.States), len(req.XGrid))
	}
	b.log.Debug("bundle solve",
		zap.Float64("ecr", sol.ECr),
		zap.Int("particle", sol.Particle),
		zap.Int("steps", len(sol.States)))
	return &GridSolution{States: sol.States, Index: sol.Index}, nil
}

func matrixKey(a, d int) string {
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(a))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(d))
	return sb.String()
}
