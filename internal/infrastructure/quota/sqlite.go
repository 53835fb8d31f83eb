package quota

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ultrascore/backend/internal/domain"
)

// openDB is a package-level var to allow test injection
var openDB = sql.Open

// SQLiteStore persists quota counters in a SQLite database so usage
// survives restarts
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path, applies the
// schema and drops counters that expired while the process was down
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("quota: create data dir: %w", err)
		}
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("quota: open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("quota: pragma %q: %w", p, err)
		}
	}

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := store.PurgeExpired(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS quota_usage (
			key        TEXT PRIMARY KEY,
			count      INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_quota_usage_expires ON quota_usage(expires_at);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("quota: migrate: %w", err)
	}
	return nil
}

// Count returns the live usage for key
func (s *SQLiteStore) Count(ctx context.Context, key string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT count FROM quota_usage WHERE key = ? AND expires_at > ?`,
		key, s.now().UnixMilli(),
	).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrQuotaMiss
	}
	if err != nil {
		return 0, fmt.Errorf("quota: count %q: %w", key, err)
	}
	return count, nil
}

// Increment adds one use for key and pushes its expiry out to now+window.
// A counter that already expired restarts at one.
func (s *SQLiteStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	now := s.now()
	var count int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO quota_usage (key, count, expires_at) VALUES (?, 1, ?)
		ON CONFLICT(key) DO UPDATE SET
			count = CASE WHEN quota_usage.expires_at <= ? THEN 1 ELSE quota_usage.count + 1 END,
			expires_at = excluded.expires_at
		RETURNING count`,
		key, now.Add(window).UnixMilli(), now.UnixMilli(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("quota: increment %q: %w", key, err)
	}
	return count, nil
}

// PurgeExpired deletes expired counters and returns how many were removed
func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quota_usage WHERE expires_at <= ?`, s.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("quota: purge: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
