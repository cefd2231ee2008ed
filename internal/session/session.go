package session

import (
	"fmt"
	"slices"
	"time"

	"github.com/abhisek/tutorly/internal/problem"
)

// Holder owns the ProblemState for a single learner. It is not safe for
// concurrent use; callers that share a Holder must serialize access.
type Holder struct {
	state ProblemState
	now   func() time.Time
}

// Option configures a Holder.
type Option func(*Holder)

// WithClock overrides the time source used for StartTime and Elapsed.
func WithClock(now func() time.Time) Option {
	return func(h *Holder) {
		h.now = now
	}
}

// NewHolder returns a Holder with no active problem.
func NewHolder(opts ...Option) *Holder {
	h := &Holder{now: time.Now}
	for _, o := range opts {
		o(h)
	}
	h.state.HintsRevealed = make(map[string]bool)
	return h
}

// State returns a copy of the current state.
func (h *Holder) State() ProblemState {
	return h.state.clone()
}

// Problem returns the active problem, or nil.
func (h *Holder) Problem() *problem.Problem {
	return h.state.CurrentProblem
}

// StartProblem makes p the active problem and resets all per-problem state.
func (h *Holder) StartProblem(p *problem.Problem) {
	h.state = ProblemState{
		CurrentProblem: p,
		HintsRevealed:  make(map[string]bool),
		StartTime:      h.now(),
		IsCorrect:      OutcomeUnknown,
	}
}

// SetAnswer replaces the in-progress answer. A nil answer clears it.
//
// The answer must have the shape of the active problem. Calling SetAnswer
// with a mismatched shape, or with no active problem, is a programming
// error and panics; use Problem.CheckShape to test input first.
func (h *Holder) SetAnswer(a *problem.Answer) {
	p := h.mustProblem("SetAnswer")
	if err := p.CheckShape(a); err != nil {
		panic(fmt.Sprintf("session: SetAnswer: %v", err))
	}
	h.state.UserAnswer = a.Clone()
}

// RevealHint marks the hint as revealed. Revealing twice has no further
// effect.
func (h *Holder) RevealHint(id string) {
	h.mustProblem("RevealHint")
	h.state.HintsRevealed[id] = true
}

// RevealSolution marks the solution as shown for the rest of the session.
func (h *Holder) RevealSolution() {
	h.mustProblem("RevealSolution")
	h.state.ShowSolution = true
}

// RecordAttempt counts a submission and stores its outcome.
func (h *Holder) RecordAttempt(r problem.Result) {
	h.mustProblem("RecordAttempt")
	h.state.Attempts++
	h.state.IsCorrect = OutcomeOf(r)
}

// mustProblem returns the active problem and panics when there is none.
func (h *Holder) mustProblem(op string) *problem.Problem {
	p := h.state.CurrentProblem
	if p == nil {
		panic("session: " + op + " called with no active problem")
	}
	return p
}

// Elapsed returns the time since the active problem was started.
func (h *Holder) Elapsed() time.Duration {
	if h.state.StartTime.IsZero() {
		return 0
	}
	return h.now().Sub(h.state.StartTime)
}

// HintsRevealed returns the revealed hint ids in sorted order.
func (h *Holder) HintsRevealed() []string {
	return sortedKeys(h.state.HintsRevealed)
}

func sortedKeys(m map[string]bool) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
