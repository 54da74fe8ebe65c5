package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kivo360/omoictl/internal/phase"
	"github.com/kivo360/omoictl/models"
)

// Glyphs for the phase pipeline.
const (
	glyphCompleted = "✓"
	glyphCurrent   = "●"
	glyphPending   = "○"
	glyphFailed    = "✗"
)

var titleCaser = cases.Title(language.English)

// phaseStyle maps a derived state to its display style.
func phaseStyle(state models.PhaseState) lipgloss.Style {
	switch state {
	case models.PhaseCompleted:
		return StyleSuccess
	case models.PhaseCurrent:
		return lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	case models.PhaseFailed:
		return StyleError
	default:
		return StyleSubtle
	}
}

func phaseGlyph(state models.PhaseState) string {
	switch state {
	case models.PhaseCompleted:
		return glyphCompleted
	case models.PhaseCurrent:
		return glyphCurrent
	case models.PhaseFailed:
		return glyphFailed
	default:
		return glyphPending
	}
}

// RenderPhasePipeline renders the spec's phase progression as a one-line
// pipeline, e.g.
//
//	✓ Explore ── ✓ PRD ── ● Requirements ── ○ Design ── ○ Tasks ── ○ Sync
func RenderPhasePipeline(spec models.Spec) string {
	phases := phase.Sequence()
	states := phase.DeriveOrdered(phases, spec.CurrentPhaseID, spec.Status)

	parts := make([]string, len(phases))
	for i, p := range phases {
		style := phaseStyle(states[i])
		label := p.Label
		if label == "" {
			label = titleCaser.String(p.ID)
		}
		parts[i] = style.Render(phaseGlyph(states[i]) + " " + label)
	}
	return strings.Join(parts, StyleSubtle.Render(" ── "))
}

// RenderPhaseDetail renders a per-phase breakdown with descriptions, one
// phase per line.
func RenderPhaseDetail(spec models.Spec) string {
	phases := phase.Sequence()
	states := phase.DeriveOrdered(phases, spec.CurrentPhaseID, spec.Status)

	var b strings.Builder
	for i, p := range phases {
		style := phaseStyle(states[i])
		b.WriteString(fmt.Sprintf("  %s %-14s %s\n",
			style.Render(phaseGlyph(states[i])),
			style.Render(p.Label),
			StyleSubtle.Render(p.Description),
		))
	}
	return b.String()
}
