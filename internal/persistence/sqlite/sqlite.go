package sqlite

import (
	"context"
	"fmt"
)

// Store bundles the connection pool with the repositories both services build
// on. Each service opens its own store against its own DSN.
type Store struct {
	pool *ConnectionPool
}

// Open creates a Store for the given SQLite DSN.
func Open(dsn string) (*Store, error) {
	pool, err := NewConnectionPool(dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the underlying connection pool.
func (s *Store) Pool() *ConnectionPool {
	return s.pool
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.pool.Close()
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'USER',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS venues (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		location TEXT NOT NULL,
		capacity INTEGER NOT NULL CHECK (capacity > 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		venue_id TEXT NOT NULL REFERENCES venues(id) ON DELETE CASCADE,
		day TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('ACTIVE', 'CANCELLED')),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_reservations_venue_day ON reservations (venue_id, day)`,
	`CREATE INDEX IF NOT EXISTS ix_reservations_subject ON reservations (subject)`,
}

// Migrate applies the schema. Statements are idempotent so repeated startup
// runs are safe.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
