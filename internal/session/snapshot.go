package session

import (
	"fmt"
	"time"

	"github.com/abhisek/tutorly/internal/problem"
)

// Snapshot is the persisted form of a ProblemState.
type Snapshot struct {
	ProblemID     string          `json:"problemId"`
	Answer        *problem.Answer `json:"answer"`
	HintsRevealed []string        `json:"hintsRevealed"`
	ShowSolution  bool            `json:"showSolution"`
	Attempts      int             `json:"attempts"`
	StartTime     time.Time       `json:"startTime"`

	// IsCorrect is null until the first submission.
	IsCorrect *bool `json:"isCorrect"`
}

// Snapshot captures the current state. It returns an error when no problem
// is active.
func (h *Holder) Snapshot() (*Snapshot, error) {
	s := h.state
	if s.CurrentProblem == nil {
		return nil, fmt.Errorf("snapshot: no active problem")
	}

	snap := &Snapshot{
		ProblemID:     s.CurrentProblem.ID,
		Answer:        s.UserAnswer.Clone(),
		HintsRevealed: sortedKeys(s.HintsRevealed),
		ShowSolution:  s.ShowSolution,
		Attempts:      s.Attempts,
		StartTime:     s.StartTime,
	}
	if s.IsCorrect != OutcomeUnknown {
		correct := s.IsCorrect == OutcomeCorrect
		snap.IsCorrect = &correct
	}
	return snap, nil
}

// Resume rebuilds a Holder from a snapshot of p.
func Resume(p *problem.Problem, snap *Snapshot, opts ...Option) (*Holder, error) {
	if p == nil || snap == nil {
		return nil, fmt.Errorf("resume: problem and snapshot are required")
	}
	if p.ID != snap.ProblemID {
		return nil, fmt.Errorf("resume: snapshot is for problem %q, not %q", snap.ProblemID, p.ID)
	}
	if err := p.CheckShape(snap.Answer); err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	if snap.Attempts < 0 {
		return nil, fmt.Errorf("resume: negative attempt count %d", snap.Attempts)
	}

	h := NewHolder(opts...)
	h.state.CurrentProblem = p
	h.state.UserAnswer = snap.Answer.Clone()
	for _, id := range snap.HintsRevealed {
		h.state.HintsRevealed[id] = true
	}
	h.state.ShowSolution = snap.ShowSolution
	h.state.Attempts = snap.Attempts
	h.state.StartTime = snap.StartTime
	if snap.IsCorrect != nil {
		if *snap.IsCorrect {
			h.state.IsCorrect = OutcomeCorrect
		} else {
			h.state.IsCorrect = OutcomeIncorrect
		}
	}
	return h, nil
}
