package practice

import (
	"time"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/session"
)

// View is the client-facing form of a session. The expected answer is
// never included; the solution only once it has been revealed.
type View struct {
	ID             string          `json:"id"`
	ProblemID      string          `json:"problemId"`
	Answer         *problem.Answer `json:"answer"`
	HintsRevealed  []problem.Hint  `json:"hintsRevealed"`
	ShowSolution   bool            `json:"showSolution"`
	Solution       string          `json:"solution,omitempty"`
	Attempts       int             `json:"attempts"`
	StartTime      time.Time       `json:"startTime"`
	ElapsedSeconds float64         `json:"elapsedSeconds"`

	// IsCorrect is null until the first submission.
	IsCorrect *bool `json:"isCorrect"`
}

func newView(id string, h *session.Holder) *View {
	st := h.State()
	p := st.CurrentProblem

	v := &View{
		ID:             id,
		ProblemID:      p.ID,
		Answer:         st.UserAnswer,
		HintsRevealed:  []problem.Hint{},
		ShowSolution:   st.ShowSolution,
		Attempts:       st.Attempts,
		StartTime:      st.StartTime,
		ElapsedSeconds: h.Elapsed().Seconds(),
	}

	// Hints are listed in problem order.
	for _, hint := range p.Hints {
		if st.HintsRevealed[hint.ID] {
			v.HintsRevealed = append(v.HintsRevealed, hint)
		}
	}
	if st.ShowSolution {
		v.Solution = p.Solution
	}
	if st.IsCorrect != session.OutcomeUnknown {
		correct := st.IsCorrect == session.OutcomeCorrect
		v.IsCorrect = &correct
	}
	return v
}
