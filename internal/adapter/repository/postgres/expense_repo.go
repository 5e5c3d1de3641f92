package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// expenseRepository implements domain.ExpenseRepository
type expenseRepository struct {
	db *DB
}

// NewExpenseRepository creates a new expense ledger repository
func NewExpenseRepository(db *DB) domain.ExpenseRepository {
	return &expenseRepository{db: db}
}

// ListByYear retrieves all expense rows for a calendar year
func (r *expenseRepository) ListByYear(ctx context.Context, year int) ([]*domain.ExpenseRow, error) {
	return r.ListByYears(ctx, []int{year})
}

// ListByYears retrieves all expense rows for the given calendar years
func (r *expenseRepository) ListByYears(ctx context.Context, years []int) ([]*domain.ExpenseRow, error) {
	query := `
		SELECT id, anio, mes, categoria, subcategoria, monto, updated_at
		FROM egresos
		WHERE anio = ANY($1)
		ORDER BY anio, mes, categoria, subcategoria
	`

	yearsParam := make([]int64, len(years))
	for i, y := range years {
		yearsParam[i] = int64(y)
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(yearsParam))
	if err != nil {
		return nil, fmt.Errorf("failed to list expense rows: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.ExpenseRow, 0)
	for rows.Next() {
		var row domain.ExpenseRow
		var amountStr string

		if err := rows.Scan(&row.ID, &row.Year, &row.Month, &row.Category, &row.Subcategory, &amountStr, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}

		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse expense monto: %w", err)
		}
		row.Amount = amount

		out = append(out, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense rows: %w", err)
	}

	return out, nil
}

// Upsert inserts or updates the row for (year, month, category, subcategory)
func (r *expenseRepository) Upsert(ctx context.Context, row *domain.ExpenseRow) error {
	query := `
		INSERT INTO egresos (anio, mes, categoria, subcategoria, monto)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (anio, mes, categoria, subcategoria)
		DO UPDATE SET monto = EXCLUDED.monto, updated_at = NOW()
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		row.Year,
		row.Month,
		row.Category,
		row.Subcategory,
		row.Amount.String(),
	).Scan(&row.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert expense row: %w", err)
	}

	return nil
}

// Delete removes an expense row by ID
func (r *expenseRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM egresos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense row: %w", err)
	}

	return requireRowAffected(result)
}
