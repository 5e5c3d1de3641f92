package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// incomeRepository implements domain.IncomeRepository
type incomeRepository struct {
	db *DB
}

// NewIncomeRepository creates a new income ledger repository
func NewIncomeRepository(db *DB) domain.IncomeRepository {
	return &incomeRepository{db: db}
}

// ListByYear retrieves all income rows for a calendar year
func (r *incomeRepository) ListByYear(ctx context.Context, year int) ([]*domain.IncomeRow, error) {
	query := `
		SELECT id, anio, mes, categoria, monto, updated_at
		FROM ingresos
		WHERE anio = $1
		ORDER BY mes, categoria
	`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list income rows: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.IncomeRow, 0)
	for rows.Next() {
		var row domain.IncomeRow
		var amountStr string

		if err := rows.Scan(&row.ID, &row.Year, &row.Month, &row.Category, &amountStr, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan income row: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse income monto: %w", err)
		}
		row.Amount = amount

		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate income rows: %w", err)
	}

	return out, nil
}

// MonthlyTotals returns income totals for a year grouped by month (1-12)
func (r *incomeRepository) MonthlyTotals(ctx context.Context, year int) (map[int]decimal.Decimal, error) {
	query := `
		SELECT mes, COALESCE(SUM(monto), 0)
		FROM ingresos
		WHERE anio = $1
		GROUP BY mes
		ORDER BY mes
	`

	rows, err := r.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to read income totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[int]decimal.Decimal)
	for rows.Next() {
		var month int
		var totalStr string

		if err := rows.Scan(&month, &totalStr); err != nil {
			return nil, fmt.Errorf("failed to scan income total: %w", err)
		}

		total, err := decimal.NewFromString(totalStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse income total: %w", err)
		}
		totals[month] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate income totals: %w", err)
	}

	return totals, nil
}

// Upsert inserts or updates the row for (year, month, category)
func (r *incomeRepository) Upsert(ctx context.Context, row *domain.IncomeRow) error {
	query := `
		INSERT INTO ingresos (anio, mes, categoria, monto)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (anio, mes, categoria)
		DO UPDATE SET monto = EXCLUDED.monto, updated_at = NOW()
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		row.Year,
		row.Month,
		row.Category,
		row.Amount.String(),
	).Scan(&row.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert income row: %w", err)
	}

	return nil
}

// Delete removes an income row by ID
func (r *incomeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ingresos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete income row: %w", err)
	}

	return requireRowAffected(result)
}
