// Package particles is the static registry of particle properties and
// decay channels consumed by the veto computation: masses, lifetimes,
// PDG ids and branching ratios. Values are PDG 2024 world averages,
// converted to natural units (GeV = 1).
package particles

import (
	"errors"
	"fmt"

	"github.com/afedynitch/nuVeto/internal/units"
)

var (
	// ErrUnknownParticle indicates a species name with no registry entry.
	ErrUnknownParticle = errors.New("particles: unknown particle")

	// ErrUnknownChannel indicates a (mother, daughter) pair with no
	// tabulated decay channel.
	ErrUnknownChannel = errors.New("particles: unknown decay channel")
)

// Particle is an immutable particle record.
type Particle struct {
	Name     string
	PDG      int
	Mass     float64 // GeV
	Lifetime float64 // GeV^-1; 0 for stable or effectively stable
}

// Channel is one decay mode of a mother particle.
type Channel struct {
	Br       float64
	Products []string
}

// Get returns the record for a named species.
func Get(name string) (Particle, error) {
	p, ok := table[name]
	if !ok {
		return Particle{}, fmt.Errorf("%w: %s", ErrUnknownParticle, name)
	}
	return p, nil
}

// PDGID returns the PDG id for a named species.
func PDGID(name string) (int, error) {
	p, err := Get(name)
	if err != nil {
		return 0, err
	}
	return p.PDG, nil
}

// Channels returns the tabulated decay modes of mother.
func Channels(mother string) ([]Channel, error) {
	if _, err := Get(mother); err != nil {
		return nil, err
	}
	return decays[conjugateBase(mother)], nil
}

// MassRatio returns r = (m_other/m_mother)^2 where m_other is the
// smallest total mass of the co-products in any decay of mother that
// contains daughter. The daughter spectrum endpoint is at x = 1 - r.
func MassRatio(mother, daughter string) (float64, error) {
	m, err := Get(mother)
	if err != nil {
		return 0, err
	}
	chans, err := Channels(mother)
	if err != nil {
		return 0, err
	}
	base := conjugateBase(daughter)
	best := -1.0
	for _, ch := range chans {
		tot, found := 0.0, false
		for _, prod := range ch.Products {
			if !found && conjugateBase(prod) == base {
				found = true
				continue
			}
			pp, err := Get(prod)
			if err != nil {
				return 0, err
			}
			tot += pp.Mass
		}
		if found && (best < 0 || tot < best) {
			best = tot
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: %s -> %s", ErrUnknownChannel, mother, daughter)
	}
	r := best / m.Mass
	return r * r, nil
}

// BrTwoBody returns the branching ratio of the two-body decay of mother
// that contains daughter, or 0 when no two-body channel exists (the
// decay-kernel edge vanishes for purely multi-body decays).
func BrTwoBody(mother, daughter string) (float64, error) {
	chans, err := Channels(mother)
	if err != nil {
		return 0, err
	}
	base := conjugateBase(daughter)
	for _, ch := range chans {
		if len(ch.Products) != 2 {
			continue
		}
		for _, prod := range ch.Products {
			if conjugateBase(prod) == base {
				return ch.Br, nil
			}
		}
	}
	return 0, nil
}

// conjugateBase maps a species to the name its decay table is keyed by.
// Decay tables are stored for the particle; the antiparticle table is
// the charge conjugate and shares branching ratios and kinematics.
func conjugateBase(name string) string {
	if base, ok := conjugates[name]; ok {
		return base
	}
	return name
}

func sec(t float64) float64 { return t * units.Sec }

// table holds one record per species, antiparticles included. Muon
// neutrino channel conventions follow the cascade solver's naming
// (numu/antinumu, nue/antinue).
var table = map[string]Particle{
	"pi+": {"pi+", 211, 0.13957039, sec(2.6033e-8)},
	"pi-": {"pi-", -211, 0.13957039, sec(2.6033e-8)},
	"pi0": {"pi0", 111, 0.1349768, sec(8.43e-17)},

	"K+":  {"K+", 321, 0.493677, sec(1.2380e-8)},
	"K-":  {"K-", -321, 0.493677, sec(1.2380e-8)},
	"K0L": {"K0L", 130, 0.497611, sec(5.116e-8)},
	"K0S": {"K0S", 310, 0.497611, sec(8.954e-11)},

	"mu+": {"mu+", -13, 0.1056584, sec(2.1969811e-6)},
	"mu-": {"mu-", 13, 0.1056584, sec(2.1969811e-6)},

	"D+":          {"D+", 411, 1.86966, sec(1.033e-12)},
	"D-":          {"D-", -411, 1.86966, sec(1.033e-12)},
	"D0":          {"D0", 421, 1.86484, sec(4.103e-13)},
	"D0-bar":      {"D0-bar", -421, 1.86484, sec(4.103e-13)},
	"Ds+":         {"Ds+", 431, 1.96835, sec(5.012e-13)},
	"Ds-":         {"Ds-", -431, 1.96835, sec(5.012e-13)},
	"Lambda0":     {"Lambda0", 3122, 1.115683, sec(2.617e-10)},
	"Lambda0-bar": {"Lambda0-bar", -3122, 1.115683, sec(2.617e-10)},

	"e+": {"e+", -11, 0.000511, 0},
	"e-": {"e-", 11, 0.000511, 0},

	"numu":     {"numu", 14, 0, 0},
	"antinumu": {"antinumu", -14, 0, 0},
	"nue":      {"nue", 12, 0, 0},
	"antinue":  {"antinue", -12, 0, 0},

	"p":    {"p", 2212, 0.9382721, 0},
	"pbar": {"pbar", -2212, 0.9382721, 0},
	"n":    {"n", 2112, 0.9395654, sec(878.4)},
	"nbar": {"nbar", -2112, 0.9395654, sec(878.4)},

	"K0-bar": {"K0-bar", -311, 0.497611, 0},
	"K0":     {"K0", 311, 0.497611, 0},
}

// conjugates maps antiparticles (and charge-flipped mesons) onto the
// species whose decay table applies after charge conjugation.
var conjugates = map[string]string{
	"pi-":         "pi+",
	"K-":          "K+",
	"mu-":         "mu+",
	"D-":          "D+",
	"Ds-":         "Ds+",
	"D0-bar":      "D0",
	"Lambda0-bar": "Lambda0",
	"antinumu":    "numu",
	"antinue":     "nue",
	"e-":          "e+",
	"K0":          "K0-bar",
	"pbar":        "p",
	"nbar":        "n",
}

// decays lists the leading channels relevant to lepton production.
// Branching ratios are for the particle; conjugate species reuse them.
var decays = map[string][]Channel{
	"pi+": {
		{0.999877, []string{"mu+", "numu"}},
	},
	"K+": {
		{0.6356, []string{"mu+", "numu"}},
		{0.2067, []string{"pi+", "pi0"}},
		{0.0507, []string{"pi0", "e+", "nue"}},
		{0.0335, []string{"pi0", "mu+", "numu"}},
	},
	"K0L": {
		{0.2027, []string{"pi-", "e+", "nue"}},
		{0.2027, []string{"pi+", "e-", "antinue"}},
		{0.1351, []string{"pi-", "mu+", "numu"}},
		{0.1351, []string{"pi+", "mu-", "antinumu"}},
		{0.1952, []string{"pi0", "pi0", "pi0"}},
	},
	"K0S": {
		{0.6920, []string{"pi+", "pi-"}},
		{0.3069, []string{"pi0", "pi0"}},
		{3.52e-4, []string{"pi-", "e+", "nue"}},
		{3.52e-4, []string{"pi+", "e-", "antinue"}},
	},
	"mu+": {
		{1.0, []string{"e+", "nue", "antinumu"}},
	},
	"D+": {
		{0.0876, []string{"K0-bar", "mu+", "numu"}},
		{0.0873, []string{"K0-bar", "e+", "nue"}},
		{3.74e-4, []string{"mu+", "numu"}},
	},
	"D0": {
		{0.0341, []string{"K-", "mu+", "numu"}},
		{0.0355, []string{"K-", "e+", "nue"}},
	},
	"Ds+": {
		{5.43e-3, []string{"mu+", "numu"}},
		{0.0267, []string{"K0-bar", "mu+", "numu"}},
	},
	"Lambda0": {
		{0.639, []string{"p", "pi-"}},
		{0.358, []string{"n", "pi0"}},
		{1.57e-4, []string{"p", "mu-", "antinumu"}},
		{8.32e-4, []string{"p", "e-", "antinue"}},
	},
}
