package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendHint(ctx context.Context, data HintEventData) error {
	err := r.appendEvent(ctx, hintEventsTable.Name,
		[]string{"session_id", "problem_id", "hint_id"},
		[]any{data.SessionID, data.ProblemID, data.HintID},
	)
	if err != nil {
		return fmt.Errorf("save hint event: %w", err)
	}
	return nil
}
