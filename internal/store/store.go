package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists is returned when creating a row whose id is taken.
var ErrAlreadyExists = errors.New("already exists")

// Store owns the database handle and provides access to repositories.
type Store struct {
	db      *sql.DB
	drv     *entsql.Driver
	dialect string
	host    string
	seq     *sequenceCounter
}

// Connect opens the database named by databaseURL, verifies the connection,
// creates the schema and logs the connected host.
//
// An empty URL selects an ephemeral in-memory SQLite database. URLs with a
// postgres:// or postgresql:// scheme use PostgreSQL. Anything else is a
// SQLite file path or DSN.
func Connect(ctx context.Context, databaseURL string, log zerolog.Logger) (*Store, error) {
	var (
		s   *Store
		err error
	)
	switch {
	case isPostgresURL(databaseURL):
		s, err = openPostgres(databaseURL)
	default:
		s, err = openSQLite(databaseURL)
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.PingContext(ctx); err != nil {
		s.db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := s.migrate(ctx); err != nil {
		s.db.Close()
		return nil, err
	}

	log.Info().
		Str("dialect", s.dialect).
		Str("host", s.host).
		Msg("database connected")

	return s, nil
}

// Open is Connect without logging.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	return Connect(ctx, databaseURL, zerolog.Nop())
}

func isPostgresURL(u string) bool {
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

func openPostgres(databaseURL string) (*Store, error) {
	cfg, err := pgx.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	db := stdlib.OpenDB(*cfg)
	return &Store{
		db:      db,
		drv:     entsql.OpenDB(dialect.Postgres, db),
		dialect: dialect.Postgres,
		host:    fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database),
	}, nil
}

func openSQLite(databaseURL string) (*Store, error) {
	dsn, host, err := sqliteDSN(databaseURL)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite allows a single writer, and an in-memory database lives only
	// as long as its connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	return &Store{
		db:      db,
		drv:     entsql.OpenDB(dialect.SQLite, db),
		dialect: dialect.SQLite,
		host:    host,
	}, nil
}

// sqliteDSN turns a path, file: DSN or empty string into a modernc DSN with
// foreign keys enabled on every connection.
func sqliteDSN(databaseURL string) (dsn, host string, err error) {
	const fk = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	if databaseURL == "" {
		name := "tutorly-" + uuid.NewString()
		return "file:" + name + "?mode=memory&cache=shared&" + fk, "memory", nil
	}

	path := strings.TrimPrefix(databaseURL, "sqlite://")
	host = path
	if strings.HasPrefix(path, "file:") {
		if u, perr := url.Parse(path); perr == nil && u.Opaque != "" {
			host = u.Opaque
		}
	} else if err := ensureDir(path); err != nil {
		return "", "", fmt.Errorf("create database directory: %w", err)
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + fk, host, nil
}

// Host describes where the store is connected, without credentials.
func (s *Store) Host() string {
	return s.host
}

// Dialect returns the SQL dialect name (sqlite3 or postgres).
func (s *Store) Dialect() string {
	return s.dialect
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// ProblemRepo returns a ProblemRepo backed by this store.
func (s *Store) ProblemRepo() ProblemRepo {
	return &problemRepo{store: s}
}

// SessionRepo returns a SessionRepo backed by this store.
func (s *Store) SessionRepo() SessionRepo {
	return &sessionRepo{store: s}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{store: s, seq: s.seq}
}

// ResetResult reports how many rows Reset removed.
type ResetResult struct {
	Sessions int64
	Events   int64
}

// Reset deletes all sessions and events. Problems are kept.
func (s *Store) Reset(ctx context.Context) (ResetResult, error) {
	var res ResetResult

	n, err := s.exec(ctx, s.builder().Delete(sessionsTable.Name))
	if err != nil {
		return res, fmt.Errorf("delete sessions: %w", err)
	}
	res.Sessions = n

	for _, t := range eventTables {
		n, err := s.exec(ctx, s.builder().Delete(t.Name))
		if err != nil {
			return res, fmt.Errorf("delete %s: %w", t.Name, err)
		}
		res.Events += n
	}
	return res, nil
}

// migrate creates missing tables and seeds the sequence counter.
func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequenceCounter(ctx, s)
	if err != nil {
		return err
	}
	s.seq = seq
	return nil
}

func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// exec runs a statement built with the ent SQL builder and returns the
// number of affected rows.
func (s *Store) exec(ctx context.Context, q entsql.Querier) (int64, error) {
	query, args := q.Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath returns the database file used by the terminal commands
// when no database URL is configured: $XDG_DATA_HOME/tutorly/tutorly.db,
// falling back to ~/.local/share.
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "tutorly", "tutorly.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
