package session

import (
	"time"

	"github.com/abhisek/tutorly/internal/problem"
)

// Outcome is the result of the most recent submission on a problem.
type Outcome int

const (
	OutcomeUnknown   Outcome = iota // nothing submitted yet
	OutcomeCorrect                  // last submission was correct
	OutcomeIncorrect                // last submission was wrong
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeIncorrect:
		return "incorrect"
	}
	return "unknown"
}

// OutcomeOf maps a validation result to an Outcome.
func OutcomeOf(r problem.Result) Outcome {
	if r.IsCorrect {
		return OutcomeCorrect
	}
	return OutcomeIncorrect
}

// ProblemState is the learner's progress on the active problem.
type ProblemState struct {
	// CurrentProblem is the problem being worked on (nil before StartProblem).
	CurrentProblem *problem.Problem

	// UserAnswer is the in-progress answer, nil when nothing was entered.
	UserAnswer *problem.Answer

	// HintsRevealed is the set of hint ids shown to the learner.
	HintsRevealed map[string]bool

	// ShowSolution stays true once the solution has been revealed.
	ShowSolution bool

	// Attempts is the number of submissions so far.
	Attempts int

	// StartTime is when the problem was opened.
	StartTime time.Time

	// IsCorrect reflects the most recent submission.
	IsCorrect Outcome
}

// clone returns a copy that shares no mutable data with s. The problem
// definition itself is treated as immutable and shared.
func (s ProblemState) clone() ProblemState {
	c := s
	c.UserAnswer = s.UserAnswer.Clone()
	c.HintsRevealed = make(map[string]bool, len(s.HintsRevealed))
	for id := range s.HintsRevealed {
		c.HintsRevealed[id] = true
	}
	return c
}
