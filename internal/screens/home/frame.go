package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorly/internal/session"
	"github.com/abhisek/tutorly/internal/ui/theme"
)

const titleFull = `▀█▀ █ █ ▀█▀ █▀█ █▀█ █   █ █
 █  █▄█  █  █▄█ █▀▄ █▄▄  █ `

const titleCompact = "T · U · T · O · R · L · Y"

// contentWidth returns the uniform inner width shared by all sections.
func contentWidth(frameWidth int) int {
	// cabinet border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 64 {
		w = 64
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	text := titleFull
	if compact {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// renderStatsBar shows the run's progress in a bordered box.
func renderStatsBar(p *session.Progress, total, cw int) string {
	solved := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	tried := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	var s, a int
	if p != nil {
		s, a = p.Solved, p.Attempted
	}
	stats := fmt.Sprintf("%s  %s  %s",
		solved.Render(fmt.Sprintf("✓ %d SOLVED", s)),
		tried.Render(fmt.Sprintf("● %d TRIED", a)),
		dim.Render(fmt.Sprintf("%d PROBLEMS", total)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderCabinetFrame wraps content in a double border centered in the
// given area.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
