package veto

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/afedynitch/nuVeto/internal/numerics"
)

// PromptHist is the precomputed two-dimensional histogram of companion
// muon energy fractions for prompt decays, indexed by the daughter
// energy fraction. The two-body approximation fails for these
// short-lived multi-body decays, so the companion spectrum is read from
// this table instead. Loaded once, read-only.
type PromptHist struct {
	xmus   []float64
	interp *numerics.Grid2D
}

type promptHistFile struct {
	XEdges     []float64   `json:"xedges"`
	Histograms [][]float64 `json:"histograms"`
}

// LoadPromptHist reads a prompt-decay histogram from a JSON file
// holding the companion-fraction bin edges and the row-major histogram
// with one row per daughter-fraction node (bin centers plus the x = 1
// endpoint).
func LoadPromptHist(path string) (*PromptHist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("veto: read prompt histogram: %w", err)
	}
	var f promptHistFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("veto: decode prompt histogram: %w", err)
	}
	return NewPromptHist(f.XEdges, f.Histograms)
}

// NewPromptHist builds the histogram interpolant from companion-fraction
// bin edges and values. vals must have len(centers)+1 rows (daughter
// fraction axis, closed by the x = 1 endpoint) of len(centers) columns.
func NewPromptHist(xedges []float64, vals [][]float64) (*PromptHist, error) {
	if len(xedges) < 3 {
		return nil, fmt.Errorf("veto: prompt histogram: need at least 2 bins, got %d", len(xedges)-1)
	}
	xmus := numerics.Centers(xedges)
	xnus := append(append([]float64(nil), xmus...), 1)
	interp, err := numerics.NewGrid2D(xnus, xmus, vals)
	if err != nil {
		return nil, fmt.Errorf("veto: prompt histogram: %w", err)
	}
	return &PromptHist{xmus: xmus, interp: interp}, nil
}

// Centers returns the companion-fraction sample points.
func (h *PromptHist) Centers() []float64 { return h.xmus }

// Prob returns the companion-fraction probability at daughter fraction
// enufrac and companion fraction xmu, extrapolated at the table edges.
func (h *PromptHist) Prob(enufrac, xmu float64) float64 {
	return h.interp.Eval(enufrac, xmu)
}
