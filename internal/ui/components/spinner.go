package components

import (
	"image/color"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorly/internal/ui/theme"
)

// SpinnerSize selects the glyph set.
type SpinnerSize string

const (
	SpinnerSmall  SpinnerSize = "sm"
	SpinnerMedium SpinnerSize = "md"
	SpinnerLarge  SpinnerSize = "lg"
)

// SpinnerColor selects the foreground color.
type SpinnerColor string

const (
	SpinnerPurple SpinnerColor = "purple"
	SpinnerBlue   SpinnerColor = "blue"
	SpinnerGray   SpinnerColor = "gray"
)

// Spinner is a loading indicator. It is purely presentational: it only
// animates and renders, the owning screen decides when to show it.
type Spinner struct {
	Size  SpinnerSize
	Color SpinnerColor
	Label string

	model spinner.Model
}

// NewSpinner creates a spinner. Unknown sizes fall back to md and unknown
// colors to purple.
func NewSpinner(size SpinnerSize, c SpinnerColor, label string) Spinner {
	size = normalizeSize(size)
	c = normalizeColor(c)

	m := spinner.New(
		spinner.WithSpinner(glyphs(size)),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(foreground(c)).Bold(size == SpinnerLarge)),
	)
	return Spinner{Size: size, Color: c, Label: label, model: m}
}

// Init starts the animation.
func (s Spinner) Init() tea.Cmd {
	return s.model.Tick
}

// Update advances the animation on its own tick messages.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

// View renders the glyph followed by the label, if any.
func (s Spinner) View() string {
	v := s.model.View()
	if s.Label != "" {
		v += " " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.Label)
	}
	return v
}

func normalizeSize(size SpinnerSize) SpinnerSize {
	switch size {
	case SpinnerSmall, SpinnerMedium, SpinnerLarge:
		return size
	}
	return SpinnerMedium
}

func normalizeColor(c SpinnerColor) SpinnerColor {
	switch c {
	case SpinnerPurple, SpinnerBlue, SpinnerGray:
		return c
	}
	return SpinnerPurple
}

func glyphs(size SpinnerSize) spinner.Spinner {
	switch size {
	case SpinnerSmall:
		return spinner.MiniDot
	case SpinnerLarge:
		return spinner.Points
	default:
		return spinner.Dot
	}
}

func foreground(c SpinnerColor) color.Color {
	switch c {
	case SpinnerBlue:
		return theme.Info
	case SpinnerGray:
		return theme.TextDim
	default:
		return theme.Primary
	}
}
