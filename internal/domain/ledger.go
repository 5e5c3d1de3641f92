package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseRow represents a monthly expense line item in the ledger.
// The storage layer enforces UNIQUE(year, month, category, subcategory) on the
// raw text, but near-duplicates can still collide after label normalization;
// the normalizer usecase filters those out of aggregation views.
type ExpenseRow struct {
	ID          int64
	Year        int
	Month       int
	Category    string
	Subcategory string
	Amount      decimal.Decimal
	UpdatedAt   time.Time
}

// IncomeRow represents a monthly income line item.
type IncomeRow struct {
	ID        int64
	Year      int
	Month     int
	Category  string
	Amount    decimal.Decimal
	UpdatedAt time.Time
}
