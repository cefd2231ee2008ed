package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/tutorly/internal/session"
)

// sessionRepo implements SessionRepo. The session state is stored as a
// JSON snapshot.
type sessionRepo struct {
	store *Store
}

func (r *sessionRepo) Create(ctx context.Context, snap *session.Snapshot) (*SessionRecord, error) {
	state, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal session state: %w", err)
	}

	rec := &SessionRecord{
		ID:        uuid.NewString(),
		Snapshot:  *snap,
		CreatedAt: now(),
	}
	rec.UpdatedAt = rec.CreatedAt

	insert := r.store.builder().Insert(sessionsTable.Name).
		Columns("id", "problem_id", "state", "created_at", "updated_at").
		Values(rec.ID, snap.ProblemID, string(state), rec.CreatedAt, rec.UpdatedAt)
	if _, err := r.store.exec(ctx, insert); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return rec, nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	b := r.store.builder()
	q, args := b.Select("id", "state", "created_at", "updated_at").
		From(b.Table(sessionsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		rec              SessionRecord
		state            string
		created, updated time.Time
	)
	err := r.store.db.QueryRowContext(ctx, q, args...).Scan(&rec.ID, &state, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}

	if err := json.Unmarshal([]byte(state), &rec.Snapshot); err != nil {
		return nil, fmt.Errorf("decode session %q: %w", id, err)
	}
	rec.CreatedAt = created.UTC()
	rec.UpdatedAt = updated.UTC()
	return &rec, nil
}

func (r *sessionRepo) Update(ctx context.Context, id string, snap *session.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session state: %w", err)
	}

	update := r.store.builder().Update(sessionsTable.Name).
		Set("state", string(state)).
		Set("problem_id", snap.ProblemID).
		Set("updated_at", now()).
		Where(entsql.EQ("id", id))
	n, err := r.store.exec(ctx, update)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return nil
}
