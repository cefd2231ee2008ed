package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendTutor(ctx context.Context, data TutorEventData) error {
	err := r.appendEvent(ctx, tutorEventsTable.Name,
		[]string{"topic", "problem_id", "question", "matched_rule", "latency_ms", "success", "error_message"},
		[]any{data.Topic, data.ProblemID, data.Question, data.MatchedRule, data.LatencyMs, data.Success, data.ErrorMessage},
	)
	if err != nil {
		return fmt.Errorf("save tutor event: %w", err)
	}
	return nil
}
