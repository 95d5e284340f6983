package veto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/afedynitch/nuVeto/internal/particles"
)

// ErrUnknownKind indicates a flux-kind string outside the closed
// {conv, pr} x {neutrino species} set.
var ErrUnknownKind = errors.New("veto: unknown flux kind")

// Category tags the parent decay chain of a neutrino flux component.
type Category int

const (
	// Conventional is the pion/kaon decay chain.
	Conventional Category = iota
	// Prompt is the short-lived charm/baryon decay chain.
	Prompt
)

func (c Category) String() string {
	if c == Prompt {
		return "pr"
	}
	return "conv"
}

// Kind is a validated (category, daughter species) pair, e.g. the
// conventional muon-neutrino flux "conv_numu".
type Kind struct {
	Category Category
	Daughter string
}

var daughters = map[string]bool{
	"numu": true, "antinumu": true, "nue": true, "antinue": true,
}

// ParseKind parses strings of the form "conv_numu" or "pr_antinue",
// validating both halves against the closed tables.
func ParseKind(s string) (Kind, error) {
	categ, daughter, ok := strings.Cut(s, "_")
	if !ok || !daughters[daughter] {
		return Kind{}, fmt.Errorf("%w: %s", ErrUnknownKind, s)
	}
	switch categ {
	case "conv":
		return Kind{Conventional, daughter}, nil
	case "pr":
		return Kind{Prompt, daughter}, nil
	}
	return Kind{}, fmt.Errorf("%w: %s", ErrUnknownKind, s)
}

func (k Kind) String() string {
	return k.Category.String() + "_" + k.Daughter
}

// IsMuon reports whether the daughter is a muon neutrino, the only
// species whose companion is a detectable muon.
func (k Kind) IsMuon() bool {
	return strings.Contains(k.Daughter, "numu")
}

// Mothers lists the parent species contributing to this flux component.
// Charge assignments follow the daughter: an antineutrino comes from
// the negative meson chain and the positive muon, and vice versa.
func (k Kind) Mothers() []string {
	anti := strings.Contains(k.Daughter, "anti")
	charge, lcharge := "+", "-"
	bar, lbar := "", "-bar"
	if anti {
		charge, lcharge = "-", "+"
		bar, lbar = "-bar", ""
	}
	if k.Category == Prompt {
		return []string{"D" + charge, "Ds" + charge, "D0" + bar, "Lambda0" + lbar}
	}
	mothers := []string{"pi" + charge, "K" + charge, "K0L"}
	if strings.Contains(k.Daughter, "nue") {
		mothers = append(mothers, "K0S", "mu"+charge)
	} else {
		mothers = append(mothers, "mu"+lcharge)
	}
	return mothers
}

// Validate checks every mother of the kind against the particle
// registry; a Kind constructed by ParseKind with tabulated species
// always validates.
func (k Kind) Validate() error {
	for _, m := range k.Mothers() {
		if _, err := particles.Get(m); err != nil {
			return err
		}
	}
	return nil
}
