package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSession(ctx context.Context, data SessionEventData) error {
	err := r.appendEvent(ctx, sessionEventsTable.Name,
		[]string{"session_id", "problem_id", "action"},
		[]any{data.SessionID, data.ProblemID, data.Action},
	)
	if err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendAttempt(ctx context.Context, data AttemptEventData) error {
	var answer sql.NullString
	if data.Answer != nil {
		b, err := json.Marshal(data.Answer)
		if err != nil {
			return fmt.Errorf("marshal answer: %w", err)
		}
		answer = sql.NullString{String: string(b), Valid: true}
	}

	var credit sql.NullFloat64
	if data.PartialCredit != nil {
		credit = sql.NullFloat64{Float64: *data.PartialCredit, Valid: true}
	}

	err := r.appendEvent(ctx, attemptEventsTable.Name,
		[]string{"session_id", "problem_id", "answer", "correct", "partial_credit", "feedback", "attempt", "elapsed_ms"},
		[]any{data.SessionID, data.ProblemID, answer, data.Correct, credit, data.Feedback, data.Attempt, data.ElapsedMs},
	)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) ProblemStats(ctx context.Context, problemID string) (ProblemStats, error) {
	var stats ProblemStats

	count := func(p *entsql.Predicate) (int, error) {
		q, args := r.store.builder().
			Select(entsql.Count("*")).
			From(r.store.builder().Table(attemptEventsTable.Name)).
			Where(p).
			Query()
		var n int
		if err := r.store.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
			return 0, err
		}
		return n, nil
	}

	var err error
	stats.Attempts, err = count(entsql.EQ("problem_id", problemID))
	if err != nil {
		return stats, fmt.Errorf("count attempts: %w", err)
	}
	if stats.Attempts == 0 {
		return stats, nil
	}

	stats.Correct, err = count(entsql.And(
		entsql.EQ("problem_id", problemID),
		entsql.EQ("correct", true),
	))
	if err != nil {
		return stats, fmt.Errorf("count correct attempts: %w", err)
	}
	return stats, nil
}
