package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// dollarRepository implements domain.DollarRepository
type dollarRepository struct {
	db *DB
}

// NewDollarRepository creates a new dollar holding repository
func NewDollarRepository(db *DB) domain.DollarRepository {
	return &dollarRepository{db: db}
}

// List retrieves all dollar holdings ordered by location
func (r *dollarRepository) List(ctx context.Context) ([]*domain.DollarHolding, error) {
	query := `
		SELECT id, ubicacion, COALESCE(detalle, ''), monto
		FROM dolares
		ORDER BY ubicacion, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list dollar holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.DollarHolding, 0)
	for rows.Next() {
		var holding domain.DollarHolding
		var amountStr string

		if err := rows.Scan(&holding.ID, &holding.Location, &holding.Detail, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan dollar holding: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse dollar monto: %w", err)
		}
		holding.AmountUSD = amount

		holdings = append(holdings, &holding)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dollar holdings: %w", err)
	}

	return holdings, nil
}

// Create inserts a new holding and sets its generated ID
func (r *dollarRepository) Create(ctx context.Context, holding *domain.DollarHolding) error {
	query := `
		INSERT INTO dolares (ubicacion, detalle, monto)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		holding.Location,
		holding.Detail,
		holding.AmountUSD.String(),
	).Scan(&holding.ID)
	if err != nil {
		return fmt.Errorf("failed to insert dollar holding: %w", err)
	}

	return nil
}

// Update persists changes to an existing holding
func (r *dollarRepository) Update(ctx context.Context, holding *domain.DollarHolding) error {
	query := `
		UPDATE dolares
		SET ubicacion = $1, detalle = $2, monto = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		holding.Location,
		holding.Detail,
		holding.AmountUSD.String(),
		holding.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dollar holding: %w", err)
	}

	return requireRowAffected(result)
}

// Delete removes a holding by ID
func (r *dollarRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM dolares WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dollar holding: %w", err)
	}

	return requireRowAffected(result)
}
