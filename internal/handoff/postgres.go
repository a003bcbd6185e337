package handoff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL-backed [Service]. All operations are safe for
// concurrent use; the pool handles connection management.
type Store struct {
	pool *pgxpool.Pool
}

var _ Service = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS admin_requests (
    id         UUID PRIMARY KEY,
    user_id    UUID NOT NULL,
    message    TEXT NOT NULL,
    status     TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS admin_requests_user_status
    ON admin_requests (user_id) WHERE status = 'AWAITING';
`

// NewStore connects to the database at dsn, verifies the connection and
// ensures the admin_requests table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("handoff store: parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("handoff store: create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("handoff store: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("handoff store: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// CreateAwaiting implements [Service]: a pending request for the user is
// refreshed in place, otherwise a new AWAITING row is inserted.
func (s *Store) CreateAwaiting(ctx context.Context, userID uuid.UUID, message string) (*Request, error) {
	r := &Request{UserID: userID, Message: message, Status: StatusAwaiting}

	err := s.pool.QueryRow(ctx, `
		UPDATE admin_requests
		   SET message = $2, updated_at = now()
		 WHERE user_id = $1 AND status = 'AWAITING'
		RETURNING id, created_at, updated_at`,
		userID, message,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)

	switch {
	case err == nil:
		return r, nil
	case errors.Is(err, pgx.ErrNoRows):
		// No pending request; insert a fresh one.
	default:
		return nil, fmt.Errorf("handoff store: refresh pending: %w", err)
	}

	r.ID = uuid.New()
	err = s.pool.QueryRow(ctx, `
		INSERT INTO admin_requests (id, user_id, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at`,
		r.ID, userID, message, StatusAwaiting,
	).Scan(&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("handoff store: insert: %w", err)
	}
	return r, nil
}

// Ping reports whether the database connection is healthy. Wired into the
// readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
