package practice

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/router"
	"github.com/abhisek/tutorly/internal/screen"
	"github.com/abhisek/tutorly/internal/screens/summary"
	"github.com/abhisek/tutorly/internal/session"
	"github.com/abhisek/tutorly/internal/store"
	"github.com/abhisek/tutorly/internal/tutor"
	"github.com/abhisek/tutorly/internal/ui/components"
	"github.com/abhisek/tutorly/internal/ui/layout"
)

type focusArea int

const (
	focusAnswer focusArea = iota
	focusTutor
)

// Deps are the collaborators of the practice screen.
type Deps struct {
	Tutor tutor.Responder

	// Events records attempts and hint reveals. Optional.
	Events store.EventRepo

	// Progress accumulates results across problems. Optional.
	Progress *session.Progress
}

// PracticeScreen lets the learner work on one problem: type an answer,
// reveal hints or the solution, and ask the tutor.
type PracticeScreen struct {
	holder    *session.Holder
	deps      Deps
	sessionID string

	answer   components.TextInput
	question components.TextInput
	focus    focusArea

	spinner components.Spinner
	asking  bool
	reply   *tutor.Response
	askErr  string

	result   *problem.Result
	inputErr string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)

// New creates a practice screen for p.
func New(p *problem.Problem, deps Deps) *PracticeScreen {
	h := session.NewHolder()
	h.StartProblem(p)

	question := components.NewTextInput("Ask the tutor...", false, 200)
	question.Blur()

	return &PracticeScreen{
		holder:    h,
		deps:      deps,
		sessionID: uuid.New().String(),
		answer:    newAnswerInput(p.Kind),
		question:  question,
		spinner:   components.NewSpinner(components.SpinnerSmall, components.SpinnerBlue, "Tutor is thinking..."),
	}
}

func newAnswerInput(kind problem.Kind) components.TextInput {
	switch kind {
	case problem.KindNumber:
		return components.NewTextInput("Type a number...", true, 32)
	case problem.KindList:
		return components.NewTextInput("Separate parts with commas...", false, 200)
	default:
		return components.NewTextInput("Type your answer...", false, 200)
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	if s.deps.Events != nil {
		p := s.holder.Problem()
		_ = s.deps.Events.AppendSession(context.Background(), store.SessionEventData{
			SessionID: s.sessionID,
			ProblemID: p.ID,
			Action:    store.ActionStarted,
		})
	}
	return tea.Batch(s.answer.Init(), tickCmd())
}

func (s *PracticeScreen) Title() string {
	return s.holder.Problem().Title
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.solved() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Summary"},
			{Key: "Esc", Description: "Back"},
		}
	}
	submit := layout.KeyHint{Key: "Enter", Description: "Submit"}
	if s.focus == focusTutor {
		submit.Description = "Ask"
	}
	return []layout.KeyHint{
		submit,
		{Key: "Tab", Description: "Answer/Tutor"},
		{Key: "Ctrl+T", Description: "Hint"},
		{Key: "Ctrl+S", Description: "Solution"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tutorReplyMsg:
		return s.handleReply(msg)

	case timerTickMsg:
		return s, tickCmd()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	// Spinner ticks and cursor blinks.
	var cmds []tea.Cmd
	if s.asking {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	cmds = append(cmds, s.updateFocused(msg))
	return s, tea.Batch(cmds...)
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return s, s.toggleFocus()
	case "ctrl+t":
		s.revealNextHint()
		return s, nil
	case "ctrl+s":
		s.revealSolution()
		return s, nil
	case "enter":
		if s.solved() {
			sum := session.BuildSummary(s.holder)
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: summary.New(sum)}
			}
		}
		if s.focus == focusTutor {
			return s, s.ask()
		}
		s.submit()
		return s, nil
	}

	return s, s.updateFocused(msg)
}

func (s *PracticeScreen) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if s.focus == focusTutor {
		s.question, cmd = s.question.Update(msg)
	} else {
		s.answer, cmd = s.answer.Update(msg)
	}
	return cmd
}

func (s *PracticeScreen) toggleFocus() tea.Cmd {
	if s.focus == focusAnswer {
		s.focus = focusTutor
		s.answer.Blur()
		return s.question.Focus()
	}
	s.focus = focusAnswer
	s.question.Blur()
	return s.answer.Focus()
}

// submit parses the typed answer, grades it and records the attempt.
func (s *PracticeScreen) submit() {
	p := s.holder.Problem()
	s.inputErr = ""

	a, err := problem.ParseAnswer(p.Kind, s.answer.Value())
	if err != nil {
		s.inputErr = err.Error()
		return
	}
	s.holder.SetAnswer(a)

	result, err := problem.Validate(p, a)
	if err != nil {
		s.inputErr = err.Error()
		return
	}
	s.holder.RecordAttempt(result)
	s.result = &result
	s.answer.Submit(result.IsCorrect)

	if s.deps.Progress != nil {
		s.deps.Progress.Record(p.ID, result.IsCorrect, result.Credit())
	}
	if s.deps.Events != nil {
		_ = s.deps.Events.AppendAttempt(context.Background(), store.AttemptEventData{
			SessionID:     s.sessionID,
			ProblemID:     p.ID,
			Answer:        a,
			Correct:       result.IsCorrect,
			PartialCredit: result.PartialCredit,
			Feedback:      result.Feedback,
			Attempt:       s.holder.State().Attempts,
			ElapsedMs:     s.holder.Elapsed().Milliseconds(),
		})
	}
}

// revealNextHint reveals the first hint, in problem order, not yet shown.
func (s *PracticeScreen) revealNextHint() {
	p := s.holder.Problem()
	revealed := s.holder.State().HintsRevealed
	for _, h := range p.Hints {
		if revealed[h.ID] {
			continue
		}
		s.holder.RevealHint(h.ID)
		if s.deps.Events != nil {
			_ = s.deps.Events.AppendHint(context.Background(), store.HintEventData{
				SessionID: s.sessionID,
				ProblemID: p.ID,
				HintID:    h.ID,
			})
		}
		return
	}
}

func (s *PracticeScreen) revealSolution() {
	if s.holder.State().ShowSolution {
		return
	}
	s.holder.RevealSolution()
	if s.deps.Events != nil {
		_ = s.deps.Events.AppendSession(context.Background(), store.SessionEventData{
			SessionID: s.sessionID,
			ProblemID: s.holder.Problem().ID,
			Action:    store.ActionSolutionRevealed,
		})
	}
}

// ask sends the typed question to the tutor in the background.
func (s *PracticeScreen) ask() tea.Cmd {
	q := s.question.Value()
	if s.asking || q == "" || s.deps.Tutor == nil {
		return nil
	}
	s.asking = true
	s.askErr = ""

	st := s.holder.State()
	c := tutor.Context{
		Topic:         st.CurrentProblem.Topic,
		ProblemID:     st.CurrentProblem.ID,
		Attempts:      st.Attempts,
		HintsRevealed: s.holder.HintsRevealed(),
	}
	responder := s.deps.Tutor

	askCmd := func() tea.Msg {
		resp, err := responder.Ask(context.Background(), q, c)
		return tutorReplyMsg{Response: resp, Err: err}
	}
	return tea.Batch(askCmd, s.spinner.Init())
}

func (s *PracticeScreen) handleReply(msg tutorReplyMsg) (screen.Screen, tea.Cmd) {
	s.asking = false
	if msg.Err != nil {
		s.askErr = msg.Err.Error()
		return s, nil
	}
	s.reply = msg.Response
	s.question.SetValue("")
	return s, nil
}

func (s *PracticeScreen) solved() bool {
	return s.holder.State().IsCorrect == session.OutcomeCorrect
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
