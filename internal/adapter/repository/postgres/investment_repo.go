package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

// List retrieves all investment records ordered by (date DESC, id DESC)
func (r *investmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	query := `
		SELECT id, tipo, COALESCE(descripcion, ''), monto, fecha
		FROM inversiones_cocos
		ORDER BY fecha DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	investments := make([]*domain.Investment, 0)
	for rows.Next() {
		var inv domain.Investment
		var amountStr string

		if err := rows.Scan(&inv.ID, &inv.Type, &inv.Description, &amountStr, &inv.Date); err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse investment monto: %w", err)
		}
		inv.Amount = amount

		investments = append(investments, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}

	return investments, nil
}

// Create inserts a new investment and sets its generated ID
func (r *investmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	query := `
		INSERT INTO inversiones_cocos (tipo, descripcion, monto, fecha)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		inv.Type,
		inv.Description,
		inv.Amount.String(),
		inv.Date,
	).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}

	return nil
}

// Update persists changes to an existing investment
func (r *investmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	query := `
		UPDATE inversiones_cocos
		SET tipo = $1, descripcion = $2, monto = $3, fecha = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		inv.Type,
		inv.Description,
		inv.Amount.String(),
		inv.Date,
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	return requireRowAffected(result)
}

// Delete removes an investment by ID
func (r *investmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inversiones_cocos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	return requireRowAffected(result)
}
