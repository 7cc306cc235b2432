package marker

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists markers for deployments that run without Redis.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewPostgresStore(pool *pgxpool.Pool, ttl time.Duration) *PostgresStore {
	return &PostgresStore{pool: pool, ttl: ttl}
}

func (s *PostgresStore) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS role_markers (
			external_id TEXT PRIMARY KEY,
			email       TEXT NOT NULL,
			role        TEXT NOT NULL,
			expires_at  TIMESTAMPTZ
		)`)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, externalID string) (*Marker, error) {
	var m Marker
	var expiresAt *time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT external_id, email, role, expires_at
		FROM role_markers
		WHERE external_id = $1`, externalID).
		Scan(&m.ExternalID, &m.Email, &m.Role, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if expiresAt != nil && time.Now().After(*expiresAt) {
		_ = s.Clear(ctx, externalID)
		return nil, nil
	}
	return &m, nil
}

func (s *PostgresStore) Set(ctx context.Context, m Marker) error {
	var expiresAt *time.Time
	if s.ttl > 0 {
		t := time.Now().Add(s.ttl)
		expiresAt = &t
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO role_markers (external_id, email, role, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (external_id)
		DO UPDATE SET email = $2, role = $3, expires_at = $4`,
		m.ExternalID, m.Email, m.Role, expiresAt)
	return err
}

func (s *PostgresStore) Clear(ctx context.Context, externalID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM role_markers WHERE external_id = $1`, externalID)
	return err
}
