// Package cascade defines the boundary to the external atmospheric
// cascade solver. The veto computation only reads solver state through
// the Solver interface; the transport physics itself lives outside this
// repository. A file-backed Bundle replays solver states exported to
// JSON for offline use.
package cascade

import "errors"

var (
	// ErrNoSolution indicates a solve request the bundle has no
	// precomputed state for.
	ErrNoSolution = errors.New("cascade: no solution for request")

	// ErrNoMatrix indicates a missing decay or yield matrix entry.
	ErrNoMatrix = errors.New("cascade: no matrix for particle pair")
)

// Request selects the primary condition for one solve. ECr == 0 means
// the configured primary-model spectrum; otherwise a single primary
// nucleus of energy ECr (GeV) and the given corsika id.
type Request struct {
	XGrid    []float64 // slant depths (g/cm^2) to report state at
	ECr      float64
	Particle int
}

// Solver is the read-only surface of the cascade code: energy grid and
// bin widths, atmosphere transforms, cross sections, decay/interaction
// matrices and the solve operation producing depth-gridded state.
//
// Implementations are bound to one (hadronic model, primary model,
// zenith angle) configuration at construction.
type Solver interface {
	// EGrid returns the shared energy grid in GeV, strictly increasing.
	EGrid() []float64
	// EWidths returns the bin widths matching EGrid.
	EWidths() []float64
	// MaxX returns the deepest available slant depth in g/cm^2.
	MaxX() float64
	// Height converts slant depth to altitude above the surface in cm.
	Height(x float64) float64
	// Density returns the air density at slant depth x in g/cm^3.
	Density(x float64) float64
	// CrossSection returns the interaction cross section in cm^2 on the
	// energy grid for a PDG id.
	CrossSection(pdg int) ([]float64, bool)
	// DecayMatrix returns the decay yield matrix for mother -> daughter.
	// Element [i][j] is the daughter count in energy bin i per mother in
	// bin j.
	DecayMatrix(motherPDG, daughterPDG int) ([][]float64, bool)
	// YieldMatrix returns the interaction yield matrix projectile -> child.
	YieldMatrix(projectilePDG, childPDG int) ([][]float64, bool)
	// Projectiles names the projectile species allowed to regenerate
	// secondaries through interactions.
	Projectiles() []string
	// Solve runs the cascade for the requested primary condition and
	// reports state at every depth of req.XGrid.
	Solve(req Request) (*GridSolution, error)
}

// GridSolution is the solver state reported on a depth grid: one flat
// state vector per depth step plus the index ranges of each species.
// It is read-only to the veto computation.
type GridSolution struct {
	States [][]float64
	Index  map[string][2]int
}

// Steps returns the number of depth-grid steps.
func (g *GridSolution) Steps() int { return len(g.States) }

// Block returns the flux block of a named species at depth step idx.
func (g *GridSolution) Block(name string, idx int) ([]float64, bool) {
	ref, ok := g.Index[name]
	if !ok || idx < 0 || idx >= len(g.States) {
		return nil, false
	}
	return g.States[idx][ref[0]:ref[1]], true
}
