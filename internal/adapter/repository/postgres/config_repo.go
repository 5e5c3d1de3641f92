package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// configRepository implements domain.ConfigRepository
type configRepository struct {
	db *DB
}

// NewConfigRepository creates a new config repository
func NewConfigRepository(db *DB) domain.ConfigRepository {
	return &configRepository{db: db}
}

// Get retrieves the value for a key, or ErrNotFound
func (r *configRepository) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := r.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("failed to get config %q: %w", key, err)
	}

	return value, nil
}

// Set upserts the value for a key
func (r *configRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO config (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to set config %q: %w", key, err)
	}

	return nil
}
