package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// snapshotRepository implements domain.SnapshotRepository
type snapshotRepository struct {
	db *DB
}

// NewSnapshotRepository creates a new net-worth snapshot repository
func NewSnapshotRepository(db *DB) domain.SnapshotRepository {
	return &snapshotRepository{db: db}
}

// UpsertByDate inserts or overwrites the total for the given calendar date.
// The UNIQUE constraint on fecha plus ON CONFLICT makes the write a single
// atomic upsert: concurrent writers for the same date resolve to last-wins
// without explicit locking.
func (r *snapshotRepository) UpsertByDate(ctx context.Context, date time.Time, total decimal.Decimal) error {
	query := `
		INSERT INTO activos_historial (fecha, total)
		VALUES ($1, $2)
		ON CONFLICT (fecha) DO UPDATE SET total = EXCLUDED.total
	`

	if _, err := r.db.ExecContext(ctx, query, domain.DateOnly(date), total.String()); err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}

	return nil
}

// GetByDate retrieves the snapshot for a calendar date, or ErrNotFound
func (r *snapshotRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	query := `
		SELECT id, fecha, total
		FROM activos_historial
		WHERE fecha = $1
	`

	snapshot, err := scanSnapshot(r.db.QueryRowContext(ctx, query, domain.DateOnly(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot by date: %w", err)
	}

	return snapshot, nil
}

// History retrieves up to limit snapshots, most recent first
func (r *snapshotRepository) History(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	query := `
		SELECT id, fecha, total
		FROM activos_historial
		ORDER BY fecha DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot history: %w", err)
	}
	defer rows.Close()

	snapshots := make([]*domain.Snapshot, 0, limit)
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

func scanSnapshot(row rowScanner) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	var totalStr string

	if err := row.Scan(&snapshot.ID, &snapshot.Date, &totalStr); err != nil {
		return nil, err
	}

	total, err := decimal.NewFromString(totalStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot total: %w", err)
	}
	snapshot.Total = total

	return &snapshot, nil
}
