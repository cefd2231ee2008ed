package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/router"
	"github.com/abhisek/tutorly/internal/screen"
	"github.com/abhisek/tutorly/internal/screens/practice"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/ui/components"
	"github.com/abhisek/tutorly/internal/ui/layout"
	"github.com/abhisek/tutorly/internal/ui/theme"
)

// problemsLoadedMsg carries the result of loading the problem list.
type problemsLoadedMsg struct {
	problems []*problem.Problem
	err      error
}

// HomeScreen lists the available problems.
type HomeScreen struct {
	problems store.ProblemRepo
	deps     practice.Deps

	loaded  bool
	loadErr error
	list    []*problem.Problem
	menu    components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen. deps are handed to every practice screen
// it opens.
func New(problems store.ProblemRepo, deps practice.Deps) *HomeScreen {
	return &HomeScreen{problems: problems, deps: deps}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load
}

func (h *HomeScreen) load() tea.Msg {
	if h.problems == nil {
		return problemsLoadedMsg{}
	}
	list, err := h.problems.List(context.Background(), store.ProblemFilter{})
	return problemsLoadedMsg{problems: list, err: err}
}

func (h *HomeScreen) Title() string {
	return "Problems"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case problemsLoadedMsg:
		h.loaded = true
		h.loadErr = msg.err
		h.list = msg.problems
		h.rebuildMenu()
		return h, nil
	case router.ScreenRevealedMsg:
		// Progress may have changed while practicing.
		h.rebuildMenu()
		return h, nil
	}

	if !h.loaded {
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) rebuildMenu() {
	selected := h.menu.Selected

	items := make([]components.MenuItem, 0, len(h.list)+1)
	for _, p := range h.list {
		items = append(items, components.MenuItem{
			Label:  h.label(p),
			Detail: fmt.Sprintf("%s · %s · %s", p.Topic, p.Kind, difficulty(p.Difficulty)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: practice.New(p, h.deps)}
				}
			},
		})
	}
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})

	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) label(p *problem.Problem) string {
	mark := "  "
	if h.deps.Progress != nil {
		if credit, ok := h.deps.Progress.Best(p.ID); ok {
			mark = "● "
			if credit >= 1 {
				mark = "✓ "
			}
		}
	}
	return mark + p.Title
}

func difficulty(d int) string {
	if d < 1 {
		d = 1
	}
	if d > 5 {
		d = 5
	}
	return strings.Repeat("★", d) + strings.Repeat("☆", 5-d)
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)
	compact := height < 24 || width < 90

	var sections []string
	sections = append(sections, renderTitle(cw, compact))

	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(), cw))
	}

	sections = append(sections, renderStatsBar(h.deps.Progress, len(h.list), cw))

	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	switch {
	case !h.loaded:
		sections = append(sections, center.Render(theme.Hint.Render("Loading problems...")))
	case h.loadErr != nil:
		sections = append(sections, center.Foreground(theme.Error).Render("Could not load problems: "+h.loadErr.Error()))
	case len(h.list) == 0:
		sections = append(sections, center.Render(theme.Hint.Render("No problems yet. Import a bank with `tutorly problems import`.")))
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))
	default:
		sections = append(sections, lipgloss.NewStyle().Width(cw).Render(h.menu.View()))
	}

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) mascot() MascotVariant {
	switch {
	case h.loaded && len(h.list) == 0:
		return MascotEmpty
	case h.deps.Progress != nil && h.deps.Progress.Solved > 0:
		return MascotCelebrating
	}
	return MascotIdle
}
