package practice

import (
	"context"
	"fmt"
	"io"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/store"
)

// ProblemSummary is a problem together with its submission statistics.
type ProblemSummary struct {
	Problem *problem.Problem
	Stats   store.ProblemStats
}

// ListProblems returns problems, optionally filtered by topic, with stats.
func (s *Service) ListProblems(ctx context.Context, topic string) ([]ProblemSummary, error) {
	problems, err := s.problems.List(ctx, store.ProblemFilter{Topic: topic})
	if err != nil {
		return nil, err
	}

	out := make([]ProblemSummary, 0, len(problems))
	for _, p := range problems {
		stats, err := s.events.ProblemStats(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ProblemSummary{Problem: p, Stats: stats})
	}
	return out, nil
}

// GetProblem returns a single problem.
func (s *Service) GetProblem(ctx context.Context, id string) (*problem.Problem, error) {
	return s.problems.Get(ctx, id)
}

// CreateProblem checks a new problem definition and stores it.
func (s *Service) CreateProblem(ctx context.Context, p *problem.Problem) error {
	if err := problem.Check(p); err != nil {
		return err
	}
	return s.problems.Create(ctx, p)
}

// ValidateAnswer grades an answer without touching any session.
func (s *Service) ValidateAnswer(ctx context.Context, problemID string, a *problem.Answer) (problem.Result, error) {
	p, err := s.problems.Get(ctx, problemID)
	if err != nil {
		return problem.Result{}, err
	}
	return problem.Validate(p, a)
}

// Import loads a problem bank and stores every problem, replacing problems
// with the same id. Nothing is stored if the bank is invalid or any write
// fails.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	problems, err := problem.LoadBank(r)
	if err != nil {
		return 0, err
	}
	return s.upsertAll(ctx, problems)
}

// SeedDefaults stores the built-in problem bank when no problems exist.
// It returns the number of problems added.
func (s *Service) SeedDefaults(ctx context.Context) (int, error) {
	n, err := s.problems.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	problems, err := problem.DefaultBank()
	if err != nil {
		return 0, fmt.Errorf("load default bank: %w", err)
	}
	added, err := s.upsertAll(ctx, problems)
	if err != nil {
		return added, err
	}
	s.log.Info().Int("problems", added).Msg("seeded default problem bank")
	return added, nil
}

func (s *Service) upsertAll(ctx context.Context, problems []*problem.Problem) (int, error) {
	if err := s.problems.Upsert(ctx, problems...); err != nil {
		return 0, fmt.Errorf("store problems: %w", err)
	}
	return len(problems), nil
}
