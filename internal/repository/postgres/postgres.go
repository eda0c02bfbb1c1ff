package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/smartcity/energy/internal/domain"
)

// Schema creates the model registry table
const Schema = `
	CREATE TABLE IF NOT EXISTS model_artifacts (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT        NOT NULL,
		version    TEXT        NOT NULL,
		artifact   JSONB       NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (name, version)
	)
`

// DB is the subset of *pgxpool.Pool the registry needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresSource implements domain.ModelSource on top of a model registry table
type PostgresSource struct {
	pool DB
}

// NewPostgresSource creates a new PostgreSQL model source
func NewPostgresSource(pool DB) *PostgresSource {
	return &PostgresSource{pool: pool}
}

// Name returns the source kind
func (r *PostgresSource) Name() string {
	return "postgres"
}

// Migrate creates the registry table if it does not exist
func (r *PostgresSource) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("postgres: failed to migrate: %w", err)
	}
	return nil
}

// Fetch retrieves the latest artifact registered under name
func (r *PostgresSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	query := `
		SELECT artifact
		FROM model_artifacts
		WHERE name = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, name).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("postgres: %s: %w", name, domain.ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("postgres: failed to query model artifact: %w", err)
	}

	return payload, nil
}

// Save registers an artifact version, replacing an existing one with the same version
func (r *PostgresSource) Save(ctx context.Context, name, version string, payload []byte) error {
	if !json.Valid(payload) {
		return errors.New("postgres: artifact is not valid JSON")
	}

	query := `
		INSERT INTO model_artifacts (name, version, artifact)
		VALUES ($1, $2, $3)
		ON CONFLICT (name, version)
		DO UPDATE SET artifact = EXCLUDED.artifact, created_at = now()
	`

	if _, err := r.pool.Exec(ctx, query, name, version, payload); err != nil {
		return fmt.Errorf("postgres: failed to save model artifact: %w", err)
	}

	return nil
}

// Health checks database connectivity
func (r *PostgresSource) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
