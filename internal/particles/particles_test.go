package particles

import (
	"errors"
	"math"
	"testing"
)

func TestGet(t *testing.T) {
	p, err := Get("pi+")
	if err != nil {
		t.Fatalf("Get(pi+): %v", err)
	}
	if p.PDG != 211 {
		t.Errorf("expected PDG 211, got %d", p.PDG)
	}
	if math.Abs(p.Mass-0.13957039) > 1e-9 {
		t.Errorf("unexpected pion mass %g", p.Mass)
	}

	if _, err := Get("chi0"); !errors.Is(err, ErrUnknownParticle) {
		t.Errorf("expected ErrUnknownParticle, got %v", err)
	}
}

func TestAntiparticleIDs(t *testing.T) {
	cases := map[string]int{
		"mu+":         -13,
		"mu-":         13,
		"D0-bar":      -421,
		"antinumu":    -14,
		"Lambda0-bar": -3122,
	}
	for name, want := range cases {
		id, err := PDGID(name)
		if err != nil {
			t.Errorf("PDGID(%s): %v", name, err)
			continue
		}
		if id != want {
			t.Errorf("PDGID(%s) = %d, want %d", name, id, want)
		}
	}
}

func TestChannelsConjugate(t *testing.T) {
	// Antiparticles reuse the particle decay table.
	plus, err := Channels("pi+")
	if err != nil {
		t.Fatalf("Channels(pi+): %v", err)
	}
	minus, err := Channels("pi-")
	if err != nil {
		t.Fatalf("Channels(pi-): %v", err)
	}
	if len(plus) == 0 || len(plus) != len(minus) {
		t.Fatalf("conjugate channel tables differ: %d vs %d", len(plus), len(minus))
	}
	if plus[0].Br != minus[0].Br {
		t.Errorf("conjugate branching ratios differ: %g vs %g", plus[0].Br, minus[0].Br)
	}
}

func TestMassRatio(t *testing.T) {
	cases := []struct {
		mother, daughter string
		want             float64
	}{
		// (m_mu / m_pi)^2 and (m_mu / m_K)^2
		{"pi+", "numu", 0.5731},
		{"K+", "numu", 0.0458},
		{"pi-", "antinumu", 0.5731},
	}
	for _, c := range cases {
		r, err := MassRatio(c.mother, c.daughter)
		if err != nil {
			t.Errorf("MassRatio(%s, %s): %v", c.mother, c.daughter, err)
			continue
		}
		if math.Abs(r-c.want) > 1e-3 {
			t.Errorf("MassRatio(%s, %s) = %g, want %g", c.mother, c.daughter, r, c.want)
		}
	}
}

func TestMassRatioPicksLightestCoProducts(t *testing.T) {
	// D+ has both a two-body and a three-body muon channel; the endpoint
	// comes from the two-body channel with the lighter co-products.
	r, err := MassRatio("D+", "numu")
	if err != nil {
		t.Fatalf("MassRatio(D+, numu): %v", err)
	}
	mu, _ := Get("mu+")
	d, _ := Get("D+")
	want := (mu.Mass / d.Mass) * (mu.Mass / d.Mass)
	if math.Abs(r-want) > 1e-9 {
		t.Errorf("MassRatio(D+, numu) = %g, want %g", r, want)
	}
}

func TestMassRatioUnknownChannel(t *testing.T) {
	if _, err := MassRatio("pi+", "nue"); !errors.Is(err, ErrUnknownChannel) {
		t.Errorf("expected ErrUnknownChannel, got %v", err)
	}
	if _, err := MassRatio("chi0", "numu"); !errors.Is(err, ErrUnknownParticle) {
		t.Errorf("expected ErrUnknownParticle, got %v", err)
	}
}

func TestBrTwoBody(t *testing.T) {
	br, err := BrTwoBody("K+", "numu")
	if err != nil {
		t.Fatalf("BrTwoBody(K+, numu): %v", err)
	}
	if math.Abs(br-0.6356) > 1e-9 {
		t.Errorf("BrTwoBody(K+, numu) = %g, want 0.6356", br)
	}

	// K0L decays to muon neutrinos only through three-body modes.
	br, err = BrTwoBody("K0L", "numu")
	if err != nil {
		t.Fatalf("BrTwoBody(K0L, numu): %v", err)
	}
	if br != 0 {
		t.Errorf("BrTwoBody(K0L, numu) = %g, want 0", br)
	}
}
