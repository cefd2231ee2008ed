package session

import "time"

// Summary holds the data displayed after a problem is finished.
type Summary struct {
	ProblemID   string
	Title       string
	Duration    time.Duration
	Attempts    int
	HintsUsed   int
	HintsTotal  int
	SawSolution bool
	Outcome     Outcome
}

// BuildSummary creates a Summary from the holder's current state.
func BuildSummary(h *Holder) *Summary {
	s := h.state
	sum := &Summary{
		Duration:    h.Elapsed(),
		Attempts:    s.Attempts,
		HintsUsed:   len(s.HintsRevealed),
		SawSolution: s.ShowSolution,
		Outcome:     s.IsCorrect,
	}
	if p := s.CurrentProblem; p != nil {
		sum.ProblemID = p.ID
		sum.Title = p.Title
		sum.HintsTotal = len(p.Hints)
	}
	return sum
}
