package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorly/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota
	MascotCelebrating               // at least one problem solved
	MascotEmpty                     // no problems to practice
)

const mascotIdle = `┌─────┐
│ ◉ ◉ │
│  ▽  │
│ ? ! │
└─────┘`

const mascotCelebrating = `┌─────┐
│ ★ ★ │
│  ▿  │
│ ✓ ✓ │
└─╥═╥─┘
  ╚═╝`

const mascotEmpty = `┌─────┐
│ - - │ ?
│  ▽  │
│ · · │
└─────┘`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(v MascotVariant) string {
	art, fg := mascotIdle, theme.Primary
	switch v {
	case MascotCelebrating:
		art, fg = mascotCelebrating, theme.Success
	case MascotEmpty:
		art, fg = mascotEmpty, theme.Accent
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}
