package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/metrics"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/normalizer"
)

// NetWorthProvider is the slice of the net-worth service the dashboard needs
type NetWorthProvider interface {
	Breakdown(ctx context.Context) (networth.Breakdown, error)
	CompareToYesterday(ctx context.Context) (networth.Comparison, error)
	History(ctx context.Context, limit int) ([]*domain.Snapshot, error)
}

// Report aggregates everything the dashboard renders in one payload
type Report struct {
	Breakdown     networth.Breakdown
	Comparison    networth.Comparison
	History       []*domain.Snapshot
	Metrics       metrics.Metrics
	Concentration metrics.Concentration
}

// Service assembles the dashboard report from the net-worth engine and the
// monthly income/expense aggregates
type Service struct {
	NetWorth    NetWorthProvider
	IncomeRepo  domain.IncomeRepository
	ExpenseRepo domain.ExpenseRepository

	// Now determines the current month for the metrics window; overridable in tests
	Now func() time.Time
}

// NewService creates a new dashboard Service instance
func NewService(netWorth NetWorthProvider, incomeRepo domain.IncomeRepository, expenseRepo domain.ExpenseRepository) *Service {
	return &Service{
		NetWorth:    netWorth,
		IncomeRepo:  incomeRepo,
		ExpenseRepo: expenseRepo,
		Now:         time.Now,
	}
}

// Report computes the full dashboard payload.
// Logic:
//  1. Current breakdown, day-over-day comparison (which also syncs today's
//     snapshot) and the charting history
//  2. This month's income total from the income aggregates
//  3. Expense rows for every year in the trailing window, deduplicated through
//     the normalizer, bucketed into "YYYY-MM" period totals
//  4. Metrics/scoring over breakdown + aggregates
func (s *Service) Report(ctx context.Context) (*Report, error) {
	breakdown, err := s.NetWorth.Breakdown(ctx)
	if err != nil {
		return nil, err
	}

	comparison, err := s.NetWorth.CompareToYesterday(ctx)
	if err != nil {
		return nil, err
	}

	history, err := s.NetWorth.History(ctx, networth.DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	now := s.Now()

	incomeThisMonth, err := s.incomeThisMonth(ctx, now)
	if err != nil {
		return nil, err
	}

	expenseByPeriod, err := s.expensePeriodTotals(ctx, now)
	if err != nil {
		return nil, err
	}

	m, concentration := metrics.Compute(breakdown, incomeThisMonth, expenseByPeriod, now, metrics.DefaultMonthsWindow)

	return &Report{
		Breakdown:     breakdown,
		Comparison:    comparison,
		History:       history,
		Metrics:       m,
		Concentration: concentration,
	}, nil
}

func (s *Service) incomeThisMonth(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	totals, err := s.IncomeRepo.MonthlyTotals(ctx, now.Year())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read income totals: %w", err)
	}

	total, ok := totals[int(now.Month())]
	if !ok {
		return decimal.Zero, nil
	}
	return total, nil
}

// expensePeriodTotals sums deduplicated expense rows into "YYYY-MM" buckets
// for every year touched by the metrics window.
func (s *Service) expensePeriodTotals(ctx context.Context, now time.Time) (map[string]decimal.Decimal, error) {
	window := metrics.LastMonths(now, metrics.DefaultMonthsWindow)

	seen := make(map[int]bool, 2)
	years := make([]int, 0, 2)
	for _, ym := range window {
		if !seen[ym.Year] {
			seen[ym.Year] = true
			years = append(years, ym.Year)
		}
	}

	rows, err := s.ExpenseRepo.ListByYears(ctx, years)
	if err != nil {
		return nil, fmt.Errorf("failed to read expense rows: %w", err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, row := range normalizer.Dedupe(rows) {
		key := metrics.PeriodKey(row.Year, row.Month)
		totals[key] = totals[key].Add(row.Amount)
	}
	return totals, nil
}
