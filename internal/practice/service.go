package practice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/session"
	"github.com/abhisek/tutorly/internal/store"
)

// ErrUnknownHint is returned when revealing a hint the problem doesn't have.
var ErrUnknownHint = errors.New("unknown hint")

// Service runs practice sessions whose state is persisted between requests.
// Each operation loads the session, applies one Holder operation and saves
// it back. Read-modify-write cycles are serialized so concurrent requests
// on the same session don't lose updates.
type Service struct {
	problems store.ProblemRepo
	sessions store.SessionRepo
	events   store.EventRepo
	log      zerolog.Logger
	now      func() time.Time

	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source passed to session holders.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService returns a Service backed by st.
func NewService(st *store.Store, opts ...Option) *Service {
	return NewServiceWithRepos(st.ProblemRepo(), st.SessionRepo(), st.EventRepo(), opts...)
}

// NewServiceWithRepos returns a Service using the given repositories.
func NewServiceWithRepos(problems store.ProblemRepo, sessions store.SessionRepo, events store.EventRepo, opts ...Option) *Service {
	s := &Service{
		problems: problems,
		sessions: sessions,
		events:   events,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SubmitResult is the outcome of a submission.
type SubmitResult struct {
	Result  problem.Result `json:"result"`
	Session *View          `json:"session"`
}

// Start opens a new session on the given problem.
func (s *Service) Start(ctx context.Context, problemID string) (*View, error) {
	p, err := s.problems.Get(ctx, problemID)
	if err != nil {
		return nil, err
	}

	h := session.NewHolder(session.WithClock(s.now))
	h.StartProblem(p)

	snap, err := h.Snapshot()
	if err != nil {
		return nil, err
	}
	rec, err := s.sessions.Create(ctx, snap)
	if err != nil {
		return nil, err
	}

	s.record("session", s.events.AppendSession(ctx, store.SessionEventData{
		SessionID: rec.ID,
		ProblemID: p.ID,
		Action:    store.ActionStarted,
	}))

	s.log.Info().Str("session_id", rec.ID).Str("problem_id", p.ID).Msg("session started")
	return newView(rec.ID, h), nil
}

// Get returns the current state of a session.
func (s *Service) Get(ctx context.Context, id string) (*View, error) {
	_, h, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return newView(id, h), nil
}

// SaveAnswer replaces the in-progress answer. A nil answer clears it.
// An answer of the wrong shape returns a *problem.ShapeError.
func (s *Service) SaveAnswer(ctx context.Context, id string, a *problem.Answer) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, h, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := h.Problem().CheckShape(a); err != nil {
		return nil, err
	}

	h.SetAnswer(a)
	if err := s.save(ctx, rec.ID, h); err != nil {
		return nil, err
	}
	return newView(id, h), nil
}

// RevealHint marks a hint as revealed and returns it.
func (s *Service) RevealHint(ctx context.Context, id, hintID string) (*View, problem.Hint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, h, err := s.load(ctx, id)
	if err != nil {
		return nil, problem.Hint{}, err
	}
	hint, ok := h.Problem().Hint(hintID)
	if !ok {
		return nil, problem.Hint{}, fmt.Errorf("hint %q: %w", hintID, ErrUnknownHint)
	}

	revealed := h.State().HintsRevealed[hintID]
	h.RevealHint(hintID)
	if err := s.save(ctx, rec.ID, h); err != nil {
		return nil, problem.Hint{}, err
	}

	if !revealed {
		s.record("hint", s.events.AppendHint(ctx, store.HintEventData{
			SessionID: id,
			ProblemID: h.Problem().ID,
			HintID:    hintID,
		}))
	}
	return newView(id, h), hint, nil
}

// RevealSolution shows the worked solution for the rest of the session.
func (s *Service) RevealSolution(ctx context.Context, id string) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, h, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	shown := h.State().ShowSolution
	h.RevealSolution()
	if err := s.save(ctx, rec.ID, h); err != nil {
		return nil, err
	}

	if !shown {
		s.record("session", s.events.AppendSession(ctx, store.SessionEventData{
			SessionID: id,
			ProblemID: h.Problem().ID,
			Action:    store.ActionSolutionRevealed,
		}))
	}
	return newView(id, h), nil
}

// Submit grades an answer and counts the attempt. When a is nil the saved
// in-progress answer is graded.
func (s *Service) Submit(ctx context.Context, id string, a *problem.Answer) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, h, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p := h.Problem()

	if a != nil {
		if err := p.CheckShape(a); err != nil {
			return nil, err
		}
		h.SetAnswer(a)
	}
	answer := h.State().UserAnswer

	result, err := problem.Validate(p, answer)
	if err != nil {
		return nil, err
	}
	h.RecordAttempt(result)

	if err := s.save(ctx, rec.ID, h); err != nil {
		return nil, err
	}

	st := h.State()
	s.record("attempt", s.events.AppendAttempt(ctx, store.AttemptEventData{
		SessionID:     id,
		ProblemID:     p.ID,
		Answer:        answer,
		Correct:       result.IsCorrect,
		PartialCredit: result.PartialCredit,
		Feedback:      result.Feedback,
		Attempt:       st.Attempts,
		ElapsedMs:     h.Elapsed().Milliseconds(),
	}))

	s.log.Info().
		Str("session_id", id).
		Str("problem_id", p.ID).
		Bool("correct", result.IsCorrect).
		Int("attempt", st.Attempts).
		Msg("answer submitted")

	return &SubmitResult{Result: result, Session: newView(id, h)}, nil
}

// load fetches a session and its problem and rebuilds the holder.
func (s *Service) load(ctx context.Context, id string) (*store.SessionRecord, *session.Holder, error) {
	rec, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.problems.Get(ctx, rec.Snapshot.ProblemID)
	if err != nil {
		return nil, nil, fmt.Errorf("load problem of session %q: %w", id, err)
	}
	// A re-imported problem may have changed kind under an open session.
	if err := p.CheckShape(rec.Snapshot.Answer); err != nil {
		s.log.Warn().Err(err).Str("session", id).Str("problem", p.ID).
			Msg("dropping saved answer of changed problem")
		rec.Snapshot.Answer = nil
	}
	h, err := session.Resume(p, &rec.Snapshot, session.WithClock(s.now))
	if err != nil {
		return nil, nil, fmt.Errorf("load session %q: %w", id, err)
	}
	return rec, h, nil
}

func (s *Service) save(ctx context.Context, id string, h *session.Holder) error {
	snap, err := h.Snapshot()
	if err != nil {
		return err
	}
	return s.sessions.Update(ctx, id, snap)
}

// record logs a failed event append. Events are an audit trail, so a
// failure never fails the request.
func (s *Service) record(kind string, err error) {
	if err != nil {
		s.log.Warn().Err(err).Str("event", kind).Msg("failed to record event")
	}
}
