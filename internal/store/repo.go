package store

import (
	"context"
	"time"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/session"
)

// now is the clock used for timestamps. Times are stored in UTC.
var now = func() time.Time { return time.Now().UTC() }

// ProblemFilter narrows a problem listing.
type ProblemFilter struct {
	Topic string // exact topic match when set
	Limit int    // max results (0 = unlimited)
}

// ProblemRepo stores problem definitions.
type ProblemRepo interface {
	// Create inserts a new problem, assigning an id and creation time when
	// missing. Returns ErrAlreadyExists if the id is taken.
	Create(ctx context.Context, p *problem.Problem) error

	// Upsert inserts each problem or replaces the stored one with the same
	// id. The batch is applied in one transaction.
	Upsert(ctx context.Context, ps ...*problem.Problem) error

	// Get returns the problem with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*problem.Problem, error)

	// List returns problems ordered by creation time.
	List(ctx context.Context, f ProblemFilter) ([]*problem.Problem, error)

	// Count returns the number of stored problems.
	Count(ctx context.Context) (int, error)
}

// SessionRecord is a persisted practice session.
type SessionRecord struct {
	ID        string
	Snapshot  session.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepo stores practice session snapshots.
type SessionRepo interface {
	// Create stores a new session and returns it with a generated id.
	Create(ctx context.Context, snap *session.Snapshot) (*SessionRecord, error)

	// Get returns the session with the given id, or ErrNotFound.
	Get(ctx context.Context, id string) (*SessionRecord, error)

	// Update replaces the snapshot of an existing session.
	Update(ctx context.Context, id string, snap *session.Snapshot) error
}

// AttemptEventData captures one graded submission.
type AttemptEventData struct {
	SessionID     string
	ProblemID     string
	Answer        *problem.Answer
	Correct       bool
	PartialCredit *float64
	Feedback      string
	Attempt       int
	ElapsedMs     int64
}

// HintEventData captures a hint reveal.
type HintEventData struct {
	SessionID string
	ProblemID string
	HintID    string
}

// Session event actions.
const (
	ActionStarted          = "started"
	ActionSolutionRevealed = "solution_revealed"
)

// SessionEventData captures a session lifecycle change.
type SessionEventData struct {
	SessionID string
	ProblemID string
	Action    string
}

// TutorEventData captures a single tutor question.
type TutorEventData struct {
	Topic        string
	ProblemID    string
	Question     string
	MatchedRule  string
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// ProblemStats aggregates submissions on one problem.
type ProblemStats struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendAttempt records a graded submission.
	AppendAttempt(ctx context.Context, data AttemptEventData) error

	// AppendHint records a hint reveal.
	AppendHint(ctx context.Context, data HintEventData) error

	// AppendSession records a session lifecycle event.
	AppendSession(ctx context.Context, data SessionEventData) error

	// AppendTutor records a tutor question.
	AppendTutor(ctx context.Context, data TutorEventData) error

	// ProblemStats returns submission counts for a problem.
	ProblemStats(ctx context.Context, problemID string) (ProblemStats, error)
}
