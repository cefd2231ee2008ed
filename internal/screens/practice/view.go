package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/tutorly/internal/session"
	"github.com/abhisek/tutorly/internal/ui/components"
	"github.com/abhisek/tutorly/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	st := s.holder.State()
	p := st.CurrentProblem
	inner := max(width-4, 20)

	var b strings.Builder

	// Info line.
	elapsed := s.holder.Elapsed()
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Topic: %s", p.Topic))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Attempts %d  Hints %d/%d  %d:%02d",
			st.Attempts, len(st.HintsRevealed), len(p.Hints),
			int(elapsed.Minutes()), int(elapsed.Seconds())%60))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", inner)))
	b.WriteString("\n\n")

	// Prompt.
	b.WriteString(lipgloss.NewStyle().
		Width(inner).
		Padding(0, 2).
		Foreground(theme.Text).
		Bold(true).
		Render(p.Prompt))
	b.WriteString("\n\n")

	// Answer input.
	answerBox := theme.Blurred
	if s.focus == focusAnswer {
		answerBox = theme.Focused
	}
	b.WriteString("  " + answerBox.Render("Answer: "+s.answer.View()))
	b.WriteString("\n")
	if s.inputErr != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  " + s.inputErr))
		b.WriteString("\n")
	}

	// Feedback and credit.
	if s.result != nil {
		b.WriteString("\n")
		b.WriteString(s.renderResult(inner))
		b.WriteString("\n")
	}

	// Hints.
	for _, h := range p.Hints {
		if !st.HintsRevealed[h.ID] {
			continue
		}
		b.WriteString(theme.Hint.Render("  Hint: " + h.Text))
		b.WriteString("\n")
	}

	// Solution.
	if st.ShowSolution {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("  Solution"))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(inner).
			Padding(0, 2).
			Foreground(theme.Text).
			Render(p.Solution))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.renderTutor(inner))

	return b.String()
}

func (s *PracticeScreen) renderResult(width int) string {
	r := s.result
	var b strings.Builder

	if r.IsCorrect {
		b.WriteString(theme.Correct.Render("  Correct! "))
	} else {
		b.WriteString(theme.Incorrect.Render("  Not quite. "))
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(r.Feedback))

	if r.PartialCredit != nil && !r.IsCorrect {
		b.WriteString("\n  ")
		bar := components.NewProgressBar("Credit", *r.PartialCredit, true, min(width-4, 50))
		b.WriteString(bar.View())
	}

	if s.holder.State().IsCorrect == session.OutcomeCorrect {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Press Enter to see your summary."))
	}
	return b.String()
}

func (s *PracticeScreen) renderTutor(width int) string {
	var b strings.Builder

	box := theme.Blurred
	if s.focus == focusTutor {
		box = theme.Focused
	}
	b.WriteString("  " + box.Render("Ask: "+s.question.View()))
	b.WriteString("\n")

	switch {
	case s.asking:
		b.WriteString("  " + s.spinner.View())
	case s.askErr != "":
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Render("  Tutor unavailable: " + s.askErr))
	case s.reply != nil:
		reply := theme.TutorBubble.Width(min(width-4, 72)).Render(s.reply.Content)
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(reply))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("  Try: " + strings.Join(s.reply.Suggestions, " · ")))
	}
	return b.String()
}
