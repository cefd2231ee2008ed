package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tutorly/internal/problem"
	"github.com/abhisek/tutorly/internal/session"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func testProblem(id string) *problem.Problem {
	return &problem.Problem{
		ID:         id,
		Title:      "Loop sum",
		Prompt:     "What does the loop print?",
		Topic:      "loops",
		Kind:       problem.KindNumber,
		Expected:   *problem.NumberAnswer(42),
		Tolerance:  0.5,
		Hints:      []problem.Hint{{ID: "h1", Text: "Trace it."}},
		Solution:   "It prints 42.",
		Difficulty: 2,
	}
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	assert.Equal(t, "memory", s.Host())
	assert.NoError(t, s.Ping(context.Background()))
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := openTestStore(t)
	b := openTestStore(t)

	require.NoError(t, a.ProblemRepo().Create(ctx, testProblem("p1")))

	n, err := b.ProblemRepo().Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a fresh in-memory store must start empty")
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here. It is tested with file-based DBs.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "tutorly.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.ProblemRepo().Create(ctx, testProblem("p1")))
	require.NoError(t, s.Close())

	var mode string
	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Equal(t, path, s.Host())

	got, err := s.ProblemRepo().Get(ctx, "p1")
	require.NoError(t, err, "problem should survive reopening")
	assert.Equal(t, "Loop sum", got.Title)
}

func TestProblemRepo_CreateGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProblemRepo()
	ctx := context.Background()

	p := testProblem("p1")
	require.NoError(t, repo.Create(ctx, p))
	assert.False(t, p.CreatedAt.IsZero(), "Create should stamp CreatedAt")

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p.Title, got.Title)
	assert.Equal(t, problem.KindNumber, got.Kind)
	assert.Equal(t, 42.0, got.Expected.Number)
	assert.Equal(t, problem.KindNumber, got.Expected.Kind)
	assert.Equal(t, 0.5, got.Tolerance)
	assert.Equal(t, p.Hints, got.Hints)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, time.Second)

	err = repo.Create(ctx, testProblem("p1"))
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProblemRepo_CreateAssignsID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p := testProblem("")
	p.Kind = problem.KindList
	p.Expected = *problem.ListAnswer("a", "b")
	p.Tolerance = 0
	p.Hints = nil
	require.NoError(t, s.ProblemRepo().Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := s.ProblemRepo().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Expected.Parts)
	assert.Nil(t, got.Hints)
}

func TestProblemRepo_Upsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProblemRepo()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testProblem("p1")))

	changed := testProblem("p1")
	changed.Title = "Renamed"
	require.NoError(t, repo.Upsert(ctx, changed))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProblemRepo_UpsertBatchIsAtomic(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProblemRepo()
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx, `CREATE TRIGGER reject_bad BEFORE INSERT ON problems
		WHEN NEW.title = 'bad' BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
	require.NoError(t, err)

	bad := testProblem("p2")
	bad.Title = "bad"
	err = repo.Upsert(ctx, testProblem("p1"), bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"p2"`)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "a failed batch stores nothing")

	require.NoError(t, repo.Upsert(ctx, testProblem("p1"), testProblem("p3")))
	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestProblemRepo_List(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProblemRepo()
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, topic := range []string{"loops", "fractions", "loops"} {
		p := testProblem("")
		p.ID = string(rune('a' + i))
		p.Topic = topic
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, p))
	}

	all, err := repo.List(ctx, ProblemFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "c", all[2].ID)

	loops, err := repo.List(ctx, ProblemFilter{Topic: "loops"})
	require.NoError(t, err)
	require.Len(t, loops, 2)
	assert.Equal(t, "a", loops[0].ID)
	assert.Equal(t, "c", loops[1].ID)

	limited, err := repo.List(ctx, ProblemFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSessionRepo_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	correct := false
	snap := &session.Snapshot{
		ProblemID:     "p1",
		Answer:        problem.NumberAnswer(41),
		HintsRevealed: []string{"h1"},
		Attempts:      1,
		StartTime:     time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		IsCorrect:     &correct,
	}

	rec, err := repo.Create(ctx, snap)
	require.NoError(t, err)
	require.NotEmpty(t, rec.ID)

	got, err := repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "p1", got.Snapshot.ProblemID)
	assert.Equal(t, 41.0, got.Snapshot.Answer.Number)
	assert.Equal(t, []string{"h1"}, got.Snapshot.HintsRevealed)
	require.NotNil(t, got.Snapshot.IsCorrect)
	assert.False(t, *got.Snapshot.IsCorrect)
	assert.True(t, snap.StartTime.Equal(got.Snapshot.StartTime))

	snap.Attempts = 2
	snap.ShowSolution = true
	require.NoError(t, repo.Update(ctx, rec.ID, snap))

	got, err = repo.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Snapshot.Attempts)
	assert.True(t, got.Snapshot.ShowSolution)

	assert.ErrorIs(t, repo.Update(ctx, "missing", snap), ErrNotFound)
	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepo_SequenceIsShared(t *testing.T) {
	s := openTestStore(t)
	events := s.EventRepo()
	ctx := context.Background()

	require.NoError(t, events.AppendSession(ctx, SessionEventData{SessionID: "s1", ProblemID: "p1", Action: ActionStarted}))
	require.NoError(t, events.AppendHint(ctx, HintEventData{SessionID: "s1", ProblemID: "p1", HintID: "h1"}))
	require.NoError(t, events.AppendAttempt(ctx, AttemptEventData{SessionID: "s1", ProblemID: "p1", Answer: problem.NumberAnswer(1), Attempt: 1}))
	require.NoError(t, events.AppendTutor(ctx, TutorEventData{Topic: "loops", Question: "hint?", MatchedRule: "hint", Success: true}))

	var seqs []int64
	for _, table := range []string{"session_events", "hint_events", "attempt_events", "tutor_events"} {
		var seq int64
		require.NoError(t, s.DB().QueryRow("SELECT sequence FROM "+table).Scan(&seq))
		seqs = append(seqs, seq)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, seqs)
}

func TestEventRepo_ProblemStats(t *testing.T) {
	s := openTestStore(t)
	events := s.EventRepo()
	ctx := context.Background()

	stats, err := events.ProblemStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, ProblemStats{}, stats)

	half := 0.5
	attempts := []AttemptEventData{
		{SessionID: "s1", ProblemID: "p1", Correct: false, PartialCredit: &half, Attempt: 1},
		{SessionID: "s1", ProblemID: "p1", Correct: true, Attempt: 2},
		{SessionID: "s2", ProblemID: "p1", Correct: false, Attempt: 1},
		{SessionID: "s3", ProblemID: "p2", Correct: true, Attempt: 1},
	}
	for _, a := range attempts {
		require.NoError(t, events.AppendAttempt(ctx, a))
	}

	stats, err = events.ProblemStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, ProblemStats{Attempts: 3, Correct: 1}, stats)
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.ProblemRepo().Create(ctx, testProblem("p1")))
	_, err := s.SessionRepo().Create(ctx, &session.Snapshot{ProblemID: "p1"})
	require.NoError(t, err)
	require.NoError(t, s.EventRepo().AppendSession(ctx, SessionEventData{SessionID: "s1", ProblemID: "p1", Action: ActionStarted}))
	require.NoError(t, s.EventRepo().AppendHint(ctx, HintEventData{SessionID: "s1", ProblemID: "p1", HintID: "h1"}))

	res, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Sessions)
	assert.Equal(t, int64(2), res.Events)

	n, err := s.ProblemRepo().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "reset keeps problems")

	// The sequence keeps counting after a reset.
	require.NoError(t, s.EventRepo().AppendHint(ctx, HintEventData{SessionID: "s2", ProblemID: "p1", HintID: "h1"}))
	var seq int64
	require.NoError(t, s.DB().QueryRow("SELECT sequence FROM hint_events").Scan(&seq))
	assert.Equal(t, int64(3), seq)
}

func TestSQLiteDSN(t *testing.T) {
	dsn, host, err := sqliteDSN("file:test.db?cache=shared")
	require.NoError(t, err)
	assert.Equal(t, "test.db", host)
	assert.Contains(t, dsn, "cache=shared&_pragma=foreign_keys(1)")

	assert.True(t, isPostgresURL("postgres://u:p@localhost:5432/tutorly"))
	assert.True(t, isPostgresURL("postgresql://localhost/tutorly"))
	assert.False(t, isPostgresURL("tutorly.db"))
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "tutorly", "tutorly.db"), p)
	assert.DirExists(t, filepath.Dir(p))
}
