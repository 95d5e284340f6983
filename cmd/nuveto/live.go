package main

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/afedynitch/nuVeto/internal/crflux"
	"github.com/afedynitch/nuVeto/internal/veto"
)

// scanModel drives the live scan view: one passing-rate point is
// computed per update message, the plot grows as results arrive.
type scanModel struct {
	svc      *veto.Service
	pm       crflux.Model
	energies []float64
	rates    []float64
	idx      int
	err      error
	done     bool
	quitting bool
}

type pointMsg struct {
	rate float64
	err  error
}

func newScanModel(svc *veto.Service, pm crflux.Model, energies []float64) *scanModel {
	return &scanModel{svc: svc, pm: pm, energies: energies}
}

func (m *scanModel) computeNext() tea.Msg {
	rate, err := m.svc.PassingRate(m.energies[m.idx], cosTheta, kind, m.pm, hadr, runOpts())
	return pointMsg{rate: rate, err: err}
}

func (m *scanModel) Init() tea.Cmd {
	return m.computeNext
}

func (m *scanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	case pointMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.rates = append(m.rates, msg.rate)
		m.idx++
		if m.idx >= len(m.energies) {
			m.done = true
			return m, nil
		}
		return m, m.computeNext
	}
	return m, nil
}

func (m *scanModel) View() string {
	if m.quitting && !m.done {
		return "scan aborted\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s passing fraction, cos(theta)=%.2f", kind, cosTheta)))
	b.WriteByte('\n')

	if len(m.rates) >= 2 {
		graph := asciigraph.Plot(m.rates,
			asciigraph.Height(12),
			asciigraph.Width(64),
			asciigraph.Caption(fmt.Sprintf("log10(E/GeV) %.1f..%.1f",
				math.Log10(m.energies[0]), math.Log10(m.energies[len(m.energies)-1]))))
		b.WriteString(panelStyle.Render(graph))
		b.WriteByte('\n')
	}

	if m.err != nil {
		b.WriteString(errStyle.Render(m.err.Error()))
	} else if m.done {
		b.WriteString(progressStyle.Render(fmt.Sprintf("done, %d points (q to quit)", len(m.rates))))
	} else {
		b.WriteString(progressStyle.Render(fmt.Sprintf("computing %d/%d  E=%.3g GeV",
			m.idx+1, len(m.energies), m.energies[m.idx])))
	}
	b.WriteByte('\n')
	return b.String()
}
