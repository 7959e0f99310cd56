package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gympulse/member-portal/internal/core/domain"
)

// SQLiteStore keeps token slots in SQLite for single-node deployments
// where running Redis is not worth it.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Migrate creates the token slot table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS session_token (
			sid        TEXT PRIMARY KEY,
			token      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("migrate session_token: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, sessionID string) (string, error) {
	row := s.db.QueryRowContext(ctx, "SELECT token FROM session_token WHERE sid = ?", sessionID)
	var token string
	if err := row.Scan(&token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNoToken
		}
		return "", fmt.Errorf("token get: %w", err)
	}
	return token, nil
}

func (s *SQLiteStore) Put(ctx context.Context, sessionID, token string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO session_token (sid, token, updated_at) VALUES (?, ?, ?) ON CONFLICT(sid) DO UPDATE SET token=excluded.token, updated_at=excluded.updated_at",
		sessionID, token, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("token put: %w", err)
	}
	return nil
}

// Delete is idempotent; removing an absent slot is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM session_token WHERE sid = ?", sessionID); err != nil {
		return fmt.Errorf("token delete: %w", err)
	}
	return nil
}

// Ping reports backend connectivity for the readiness probe.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
