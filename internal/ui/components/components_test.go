package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func TestNewSpinner_Defaults(t *testing.T) {
	tests := []struct {
		size      SpinnerSize
		color     SpinnerColor
		wantSize  SpinnerSize
		wantColor SpinnerColor
	}{
		{"", "", SpinnerMedium, SpinnerPurple},
		{SpinnerSmall, SpinnerBlue, SpinnerSmall, SpinnerBlue},
		{SpinnerLarge, SpinnerGray, SpinnerLarge, SpinnerGray},
		{"xl", "red", SpinnerMedium, SpinnerPurple},
	}
	for _, tt := range tests {
		s := NewSpinner(tt.size, tt.color, "")
		if s.Size != tt.wantSize {
			t.Errorf("NewSpinner(%q, %q).Size = %q, want %q", tt.size, tt.color, s.Size, tt.wantSize)
		}
		if s.Color != tt.wantColor {
			t.Errorf("NewSpinner(%q, %q).Color = %q, want %q", tt.size, tt.color, s.Color, tt.wantColor)
		}
	}
}

func TestSpinner_ViewIncludesLabel(t *testing.T) {
	s := NewSpinner(SpinnerMedium, SpinnerPurple, "Thinking...")
	if !strings.Contains(s.View(), "Thinking...") {
		t.Errorf("View() = %q, want label", s.View())
	}
	if s.Init() == nil {
		t.Error("Init() should start the animation")
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	var chosen string
	pick := func(label string) func() tea.Cmd {
		return func() tea.Cmd {
			chosen = label
			return nil
		}
	}
	m := NewMenu([]MenuItem{
		{Label: "a", Disabled: true},
		{Label: "b", Action: pick("b")},
		{Label: "c", Disabled: true},
		{Label: "d", Action: pick("d")},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Fatalf("after down Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if chosen != "d" {
		t.Errorf("chosen = %q, want d", chosen)
	}
}

func TestTextInput_NumericOnly(t *testing.T) {
	ti := NewTextInput("", true, 10)
	for _, r := range "4x2.5" {
		ti, _ = ti.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if ti.Value() != "42.5" {
		t.Errorf("Value() = %q, want %q", ti.Value(), "42.5")
	}
}

func TestProgressBar_Width(t *testing.T) {
	for _, pct := range []float64{0, 0.5, 1, 1.5, -1} {
		bar := NewProgressBar("", pct, false, 20)
		if w := lipgloss.Width(bar.View()); w != 20 {
			t.Errorf("percent %v: width = %d, want 20", pct, w)
		}
	}
}
