package summary

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/normalizer"
)

// MonthSummary represents one calendar month's income/expense totals
type MonthSummary struct {
	Month         int
	IncomeARS     decimal.Decimal
	ExpenseARS    decimal.Decimal
	DifferenceARS decimal.Decimal
}

// Service computes the yearly month-by-month income/expense summary
type Service struct {
	IncomeRepo  domain.IncomeRepository
	ExpenseRepo domain.ExpenseRepository
}

// NewService creates a new summary Service instance
func NewService(incomeRepo domain.IncomeRepository, expenseRepo domain.ExpenseRepository) *Service {
	return &Service{
		IncomeRepo:  incomeRepo,
		ExpenseRepo: expenseRepo,
	}
}

// YearSummary returns twelve rows, one per calendar month, with income,
// expense and their difference. Expense rows are deduplicated before summing
// so near-duplicate ledger rows never inflate a month.
func (s *Service) YearSummary(ctx context.Context, year int) ([]MonthSummary, error) {
	incomeTotals, err := s.IncomeRepo.MonthlyTotals(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to read income totals: %w", err)
	}

	expenseRows, err := s.ExpenseRepo.ListByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to read expense rows: %w", err)
	}

	expenseTotals := make(map[int]decimal.Decimal, 12)
	for _, row := range normalizer.Dedupe(expenseRows) {
		expenseTotals[row.Month] = expenseTotals[row.Month].Add(row.Amount)
	}

	out := make([]MonthSummary, 0, 12)
	for month := 1; month <= 12; month++ {
		income := incomeTotals[month]
		expense := expenseTotals[month]
		out = append(out, MonthSummary{
			Month:         month,
			IncomeARS:     income,
			ExpenseARS:    expense,
			DifferenceARS: income.Sub(expense),
		})
	}
	return out, nil
}
