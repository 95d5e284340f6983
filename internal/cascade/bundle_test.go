package cascade

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeBundle(t *testing.T, f bundleFile) string {
	t.Helper()
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "bundle.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testBundleFile() bundleFile {
	return bundleFile{
		HadronicModel: "SIBYLL2.3c",
		PrimaryModel:  "H3a",
		ThetaDeg:      30,
		EGrid:         []float64{1, 10, 100},
		EWidths:       []float64{1, 10, 100},
		MaxX:          1000,
		XSamples:      []float64{1, 500, 1000},
		Heights:       []float64{8e6, 5e5, 0},
		Densities:     []float64{1e-6, 5e-4, 1.2e-3},
		CrossSections: map[string][]float64{"2212": {1e-26, 2e-26, 3e-26}},
		DecayMatrices: map[string][][]float64{
			"211:14": {{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		},
		YieldMatrices: map[string][][]float64{
			"2212:211": {{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		},
		Projectiles: []string{"p"},
		Solutions: []bundleSolution{
			{
				ECr:    0,
				Index:  map[string][2]int{"pi+": {0, 3}},
				States: [][]float64{{1, 2, 3}, {4, 5, 6}},
			},
			{
				ECr:      1e5,
				Particle: 14,
				Index:    map[string][2]int{"pi+": {0, 3}},
				States:   [][]float64{{7, 8, 9}, {10, 11, 12}},
			},
		},
	}
}

func TestOpenAccessors(t *testing.T) {
	b, err := Open(writeBundle(t, testBundleFile()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if b.HadronicModel() != "SIBYLL2.3c" || b.PrimaryModel() != "H3a" {
		t.Errorf("unexpected model tags: %s %s", b.HadronicModel(), b.PrimaryModel())
	}
	if b.ThetaDeg() != 30 || b.MaxX() != 1000 {
		t.Errorf("unexpected geometry: theta %g max_x %g", b.ThetaDeg(), b.MaxX())
	}
	if len(b.EGrid()) != 3 || len(b.EWidths()) != 3 {
		t.Errorf("unexpected grid sizes")
	}

	// Atmosphere tables interpolate linearly between samples.
	if h := b.Height(1); math.Abs(h-8e6) > 1 {
		t.Errorf("height at the top sample: expected 8e6, got %g", h)
	}
	if h := b.Height(750); math.Abs(h-2.5e5) > 1 {
		t.Errorf("height midway: expected 2.5e5, got %g", h)
	}
	if d := b.Density(1000); math.Abs(d-1.2e-3) > 1e-9 {
		t.Errorf("ground density: expected 1.2e-3, got %g", d)
	}
}

func TestOpenRejectsMismatchedTables(t *testing.T) {
	f := testBundleFile()
	f.EWidths = f.EWidths[:2]
	if _, err := Open(writeBundle(t, f), nil); err == nil {
		t.Error("expected an error for grid/widths mismatch")
	}

	f = testBundleFile()
	f.Heights = f.Heights[:2]
	if _, err := Open(writeBundle(t, f), nil); err == nil {
		t.Error("expected an error for atmosphere table mismatch")
	}
}

func TestBundleMatrices(t *testing.T) {
	b, err := Open(writeBundle(t, testBundleFile()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if cs, ok := b.CrossSection(2212); !ok || cs[2] != 3e-26 {
		t.Errorf("proton cross section lookup failed: %v %v", cs, ok)
	}
	if _, ok := b.CrossSection(2112); ok {
		t.Error("neutron cross section should be absent")
	}
	if m, ok := b.DecayMatrix(211, 14); !ok || m[1][1] != 1 {
		t.Errorf("decay matrix lookup failed: %v %v", m, ok)
	}
	if _, ok := b.DecayMatrix(321, 14); ok {
		t.Error("kaon decay matrix should be absent")
	}
	if m, ok := b.YieldMatrix(2212, 211); !ok || m[2][0] != 1 {
		t.Errorf("yield matrix lookup failed: %v %v", m, ok)
	}
}

func TestBundleSolve(t *testing.T) {
	b, err := Open(writeBundle(t, testBundleFile()), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	// Spectrum solution.
	gs, err := b.Solve(Request{XGrid: []float64{1, 500}})
	if err != nil {
		t.Fatalf("Solve spectrum: %v", err)
	}
	block, ok := gs.Block("pi+", 0)
	if !ok || block[0] != 1 {
		t.Errorf("spectrum block lookup failed: %v %v", block, ok)
	}

	// Single-primary match within the 1% energy window.
	gs, err = b.Solve(Request{ECr: 1.004e5, Particle: 14})
	if err != nil {
		t.Fatalf("Solve near-match: %v", err)
	}
	block, _ = gs.Block("pi+", 1)
	if block[0] != 10 {
		t.Errorf("expected the stored primary solution, got %v", block)
	}

	// Outside the window or with a different nucleus the bundle refuses.
	if _, err := b.Solve(Request{ECr: 2e5, Particle: 14}); !errors.Is(err, ErrNoSolution) {
		t.Errorf("expected ErrNoSolution for a far energy, got %v", err)
	}
	if _, err := b.Solve(Request{ECr: 1e5, Particle: 402}); !errors.Is(err, ErrNoSolution) {
		t.Errorf("expected ErrNoSolution for a missing nucleus, got %v", err)
	}
	if _, err := b.Solve(Request{XGrid: []float64{1, 2, 3}}); !errors.Is(err, ErrNoSolution) {
		t.Errorf("expected ErrNoSolution for too many depth steps, got %v", err)
	}
}

func TestGridSolutionBlock(t *testing.T) {
	gs := &GridSolution{
		States: [][]float64{{1, 2, 3, 4}},
		Index:  map[string][2]int{"pi+": {0, 2}, "K+": {2, 4}},
	}
	if gs.Steps() != 1 {
		t.Errorf("expected one step, got %d", gs.Steps())
	}
	block, ok := gs.Block("K+", 0)
	if !ok || block[0] != 3 || block[1] != 4 {
		t.Errorf("unexpected block: %v %v", block, ok)
	}
	if _, ok := gs.Block("D+", 0); ok {
		t.Error("unknown species should miss")
	}
	if _, ok := gs.Block("pi+", 5); ok {
		t.Error("out-of-range step should miss")
	}
}
