package practice

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	svc := NewService(st)
	n, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	require.Equal(t, 5, n)
	return svc, st
}

func TestSeedDefaults_OnlyWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	n, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestStart(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	v, err := svc.Start(ctx, "sum-of-loop")
	require.NoError(t, err)

	assert.NotEmpty(t, v.ID)
	assert.Equal(t, "sum-of-loop", v.ProblemID)
	assert.Nil(t, v.Answer)
	assert.Empty(t, v.HintsRevealed)
	assert.False(t, v.ShowSolution)
	assert.Empty(t, v.Solution)
	assert.Equal(t, 0, v.Attempts)
	assert.Nil(t, v.IsCorrect)

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
}

func TestStart_UnknownProblem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Start(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGet_UnknownSession(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveAnswer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "linear-system")
	require.NoError(t, err)

	v, err = svc.SaveAnswer(ctx, v.ID, problem.ListAnswer("2", ""))
	require.NoError(t, err)
	require.NotNil(t, v.Answer)
	assert.Equal(t, []string{"2", ""}, v.Answer.Parts)

	// Persisted across loads.
	v, err = svc.Get(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, v.Answer)
	assert.Equal(t, []string{"2", ""}, v.Answer.Parts)

	// Nil clears.
	v, err = svc.SaveAnswer(ctx, v.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, v.Answer)
}

func TestSaveAnswer_ShapeMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "linear-system")
	require.NoError(t, err)

	_, err = svc.SaveAnswer(ctx, v.ID, problem.TextAnswer("2, 5"))
	var shapeErr *problem.ShapeError
	require.True(t, errors.As(err, &shapeErr))

	v, err = svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, v.Answer, "rejected answer must not be stored")
}

func TestRevealHint(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "linear-system")
	require.NoError(t, err)

	v, hint, err := svc.RevealHint(ctx, v.ID, "h2")
	require.NoError(t, err)
	assert.Equal(t, "h2", hint.ID)
	require.Len(t, v.HintsRevealed, 1)

	// Revealing again is a no-op; order follows the problem.
	_, _, err = svc.RevealHint(ctx, v.ID, "h2")
	require.NoError(t, err)
	v, _, err = svc.RevealHint(ctx, v.ID, "h1")
	require.NoError(t, err)
	require.Len(t, v.HintsRevealed, 2)
	assert.Equal(t, "h1", v.HintsRevealed[0].ID)
	assert.Equal(t, "h2", v.HintsRevealed[1].ID)

	var n int
	require.NoError(t, st.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM hint_events").Scan(&n))
	assert.Equal(t, 2, n, "duplicate reveal is not recorded")
}

func TestRevealHint_Unknown(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "plant-energy")
	require.NoError(t, err)

	_, _, err = svc.RevealHint(ctx, v.ID, "h9")
	assert.ErrorIs(t, err, ErrUnknownHint)
}

func TestRevealSolution(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "plant-energy")
	require.NoError(t, err)

	v, err = svc.RevealSolution(ctx, v.ID)
	require.NoError(t, err)
	assert.True(t, v.ShowSolution)
	assert.NotEmpty(t, v.Solution)

	// Stays revealed after a submission.
	res, err := svc.Submit(ctx, v.ID, problem.TextAnswer("respiration"))
	require.NoError(t, err)
	assert.True(t, res.Session.ShowSolution)
}

func TestSubmit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "linear-system")
	require.NoError(t, err)

	res, err := svc.Submit(ctx, v.ID, problem.ListAnswer("2", "4"))
	require.NoError(t, err)
	assert.False(t, res.Result.IsCorrect)
	require.NotNil(t, res.Result.PartialCredit)
	assert.InDelta(t, 0.5, *res.Result.PartialCredit, 1e-9)
	assert.Equal(t, 1, res.Session.Attempts)
	require.NotNil(t, res.Session.IsCorrect)
	assert.False(t, *res.Session.IsCorrect)

	res, err = svc.Submit(ctx, v.ID, problem.ListAnswer(" 2 ", "5"))
	require.NoError(t, err)
	assert.True(t, res.Result.IsCorrect)
	assert.Equal(t, 2, res.Session.Attempts)
	require.NotNil(t, res.Session.IsCorrect)
	assert.True(t, *res.Session.IsCorrect)
}

func TestElapsed(t *testing.T) {
	st, err := store.Open(context.Background(), "")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var mu sync.Mutex
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	svc := NewService(st, WithClock(clock))
	ctx := context.Background()
	_, err = svc.SeedDefaults(ctx)
	require.NoError(t, err)

	v, err := svc.Start(ctx, "sum-of-loop")
	require.NoError(t, err)
	assert.Zero(t, v.ElapsedSeconds)

	mu.Lock()
	now = now.Add(90 * time.Second)
	mu.Unlock()

	v, err = svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.InDelta(t, 90, v.ElapsedSeconds, 1e-9)
}

func TestSubmit_SavedAnswer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "sum-of-loop")
	require.NoError(t, err)

	// Nothing saved yet.
	res, err := svc.Submit(ctx, v.ID, nil)
	require.NoError(t, err)
	assert.False(t, res.Result.IsCorrect)
	assert.Equal(t, problem.FeedbackNoAnswer, res.Result.Feedback)

	_, err = svc.SaveAnswer(ctx, v.ID, problem.NumberAnswer(42))
	require.NoError(t, err)
	res, err = svc.Submit(ctx, v.ID, nil)
	require.NoError(t, err)
	assert.True(t, res.Result.IsCorrect)
	assert.Equal(t, 2, res.Session.Attempts)
}

func TestSubmit_ShapeMismatch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "sum-of-loop")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, v.ID, problem.TextAnswer("forty-two"))
	var shapeErr *problem.ShapeError
	require.True(t, errors.As(err, &shapeErr))

	v, err = svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Attempts, "rejected submission is not counted")
}

func TestSubmit_Concurrent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "sum-of-loop")
	require.NoError(t, err)

	const n = 8
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, v.ID, problem.NumberAnswer(41))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err = svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, n, v.Attempts)
}

func TestListProblems_Stats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "plant-energy")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, v.ID, problem.TextAnswer("respiration"))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, v.ID, problem.TextAnswer("Photosynthesis"))
	require.NoError(t, err)

	all, err := svc.ListProblems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	bio, err := svc.ListProblems(ctx, "biology")
	require.NoError(t, err)
	require.Len(t, bio, 1)
	assert.Equal(t, store.ProblemStats{Attempts: 2, Correct: 1}, bio[0].Stats)
}

func TestValidateAnswer(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ValidateAnswer(context.Background(), "circle-area", problem.NumberAnswer(28.274))
	require.NoError(t, err)
	assert.True(t, res.IsCorrect)
}

func TestCreateProblem(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bad := &problem.Problem{Title: "No prompt", Kind: problem.KindText}
	var checkErr *problem.CheckError
	require.True(t, errors.As(svc.CreateProblem(ctx, bad), &checkErr))

	p := &problem.Problem{
		Title:      "Capital",
		Prompt:     "What is the capital of France?",
		Topic:      "geography",
		Kind:       problem.KindText,
		Expected:   *problem.TextAnswer("Paris"),
		Solution:   "Paris.",
		Difficulty: 1,
	}
	require.NoError(t, svc.CreateProblem(ctx, p))
	assert.NotEmpty(t, p.ID)

	got, err := svc.GetProblem(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Capital", got.Title)
}

func TestImport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bank := `{"version": 1, "problems": [{
		"id": "plant-energy",
		"title": "Renamed",
		"prompt": "What process do plants use to make food?",
		"topic": "biology",
		"kind": "text",
		"expected": "photosynthesis",
		"solution": "Photosynthesis.",
		"difficulty": 1
	}]}`
	n, err := svc.Import(ctx, strings.NewReader(bank))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := svc.GetProblem(ctx, "plant-energy")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	_, err = svc.Import(ctx, strings.NewReader(`{"problems": [{"id": "x"}]}`))
	assert.Error(t, err)
}

func TestGet_ProblemKindChangedByImport(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	v, err := svc.Start(ctx, "plant-energy")
	require.NoError(t, err)
	_, err = svc.SaveAnswer(ctx, v.ID, problem.TextAnswer("photosynthesis"))
	require.NoError(t, err)

	bank := `{"version": 1, "problems": [{
		"id": "plant-energy",
		"title": "Leaf count",
		"prompt": "How many leaves?",
		"topic": "biology",
		"kind": "number",
		"expected": 3,
		"solution": "Three.",
		"difficulty": 1
	}]}`
	_, err = svc.Import(ctx, strings.NewReader(bank))
	require.NoError(t, err)

	got, err := svc.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Answer, "stale answer is dropped")

	res, err := svc.Submit(ctx, v.ID, problem.NumberAnswer(3))
	require.NoError(t, err)
	assert.True(t, res.Result.IsCorrect)
}
