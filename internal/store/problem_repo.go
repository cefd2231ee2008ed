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

	"github.com/abhisek/tutorly/internal/problem"
)

var problemColumns = []string{
	"id", "title", "prompt", "topic", "kind", "expected",
	"tolerance", "hints", "solution", "difficulty", "created_at",
}

// problemRepo implements ProblemRepo.
type problemRepo struct {
	store *Store
}

func (r *problemRepo) Create(ctx context.Context, p *problem.Problem) error {
	prepare(p)

	if _, err := r.Get(ctx, p.ID); err == nil {
		return fmt.Errorf("problem %q: %w", p.ID, ErrAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	insert, err := r.insert(p)
	if err != nil {
		return err
	}
	if _, err := r.store.exec(ctx, insert); err != nil {
		return fmt.Errorf("save problem: %w", err)
	}
	return nil
}

func (r *problemRepo) Upsert(ctx context.Context, ps ...*problem.Problem) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	for _, p := range ps {
		prepare(p)
		insert, err := r.insert(p)
		if err != nil {
			return err
		}
		insert.OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		)
		q, args := insert.Query()
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("upsert problem %q: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func (r *problemRepo) Get(ctx context.Context, id string) (*problem.Problem, error) {
	q, args := r.selector().Where(entsql.EQ("id", id)).Query()
	p, err := scanProblem(r.store.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("problem %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query problem: %w", err)
	}
	return p, nil
}

func (r *problemRepo) List(ctx context.Context, f ProblemFilter) ([]*problem.Problem, error) {
	sel := r.selector().OrderBy("created_at", "id")
	if f.Topic != "" {
		sel = sel.Where(entsql.EQ("topic", f.Topic))
	}
	if f.Limit > 0 {
		sel = sel.Limit(f.Limit)
	}

	q, args := sel.Query()
	rows, err := r.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query problems: %w", err)
	}
	defer rows.Close()

	var out []*problem.Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan problem: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *problemRepo) Count(ctx context.Context) (int, error) {
	q, args := r.store.builder().
		Select(entsql.Count("*")).
		From(r.store.builder().Table(problemsTable.Name)).
		Query()
	var n int
	if err := r.store.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count problems: %w", err)
	}
	return n, nil
}

func (r *problemRepo) selector() *entsql.Selector {
	b := r.store.builder()
	return b.Select(problemColumns...).From(b.Table(problemsTable.Name))
}

func (r *problemRepo) insert(p *problem.Problem) (*entsql.InsertBuilder, error) {
	expected, err := json.Marshal(p.Expected)
	if err != nil {
		return nil, fmt.Errorf("marshal expected answer: %w", err)
	}
	hints := p.Hints
	if hints == nil {
		hints = []problem.Hint{}
	}
	hintsJSON, err := json.Marshal(hints)
	if err != nil {
		return nil, fmt.Errorf("marshal hints: %w", err)
	}

	return r.store.builder().Insert(problemsTable.Name).
		Columns(problemColumns...).
		Values(
			p.ID, p.Title, p.Prompt, p.Topic, string(p.Kind), string(expected),
			p.Tolerance, string(hintsJSON), p.Solution, p.Difficulty, p.CreatedAt,
		), nil
}

// prepare fills in the id and creation time.
func prepare(p *problem.Problem) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProblem(row rowScanner) (*problem.Problem, error) {
	var (
		p         problem.Problem
		kind      string
		expected  string
		hints     string
		createdAt time.Time
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Prompt, &p.Topic, &kind, &expected,
		&p.Tolerance, &hints, &p.Solution, &p.Difficulty, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = problem.Kind(kind)
	p.CreatedAt = createdAt.UTC()
	if err := json.Unmarshal([]byte(expected), &p.Expected); err != nil {
		return nil, fmt.Errorf("decode expected answer of %q: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(hints), &p.Hints); err != nil {
		return nil, fmt.Errorf("decode hints of %q: %w", p.ID, err)
	}
	if len(p.Hints) == 0 {
		p.Hints = nil
	}
	return &p, nil
}
