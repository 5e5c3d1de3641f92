package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// List retrieves all asset records ordered by (entity, kind, description)
	List(ctx context.Context) ([]*Asset, error)

	// GetByID retrieves an asset by its ID
	GetByID(ctx context.Context, id int64) (*Asset, error)

	// Create inserts a new asset and sets its generated ID
	Create(ctx context.Context, asset *Asset) error

	// Update persists changes to an existing asset
	Update(ctx context.Context, asset *Asset) error

	// Delete removes an asset by ID
	Delete(ctx context.Context, id int64) error
}

// InvestmentRepository defines the interface for brokerage position persistence
type InvestmentRepository interface {
	// List retrieves all investment records ordered by (date DESC, id DESC)
	List(ctx context.Context) ([]*Investment, error)

	// Create inserts a new investment and sets its generated ID
	Create(ctx context.Context, inv *Investment) error

	// Update persists changes to an existing investment
	Update(ctx context.Context, inv *Investment) error

	// Delete removes an investment by ID
	Delete(ctx context.Context, id int64) error
}

// DollarRepository defines the interface for USD holding persistence
type DollarRepository interface {
	// List retrieves all dollar holdings ordered by location
	List(ctx context.Context) ([]*DollarHolding, error)

	// Create inserts a new holding and sets its generated ID
	Create(ctx context.Context, holding *DollarHolding) error

	// Update persists changes to an existing holding
	Update(ctx context.Context, holding *DollarHolding) error

	// Delete removes a holding by ID
	Delete(ctx context.Context, id int64) error
}

// ConfigRepository defines the interface for the key-value config store
type ConfigRepository interface {
	// Get retrieves the value for a key, or ErrNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set upserts the value for a key
	Set(ctx context.Context, key, value string) error
}

// SnapshotRepository defines the interface for net-worth snapshot persistence.
// Rows are keyed by calendar date; UpsertByDate is the only write path, so at
// most one row ever exists per date.
type SnapshotRepository interface {
	// UpsertByDate inserts or overwrites the total for the given calendar date
	UpsertByDate(ctx context.Context, date time.Time, total decimal.Decimal) error

	// GetByDate retrieves the snapshot for a calendar date, or ErrNotFound
	GetByDate(ctx context.Context, date time.Time) (*Snapshot, error)

	// History retrieves up to limit snapshots, most recent first
	History(ctx context.Context, limit int) ([]*Snapshot, error)
}

// ExpenseRepository defines the interface for expense ledger persistence
type ExpenseRepository interface {
	// ListByYear retrieves all expense rows for a calendar year
	ListByYear(ctx context.Context, year int) ([]*ExpenseRow, error)

	// ListByYears retrieves all expense rows for the given calendar years
	ListByYears(ctx context.Context, years []int) ([]*ExpenseRow, error)

	// Upsert inserts or updates the row for (year, month, category, subcategory)
	Upsert(ctx context.Context, row *ExpenseRow) error

	// Delete removes an expense row by ID
	Delete(ctx context.Context, id int64) error
}

// IncomeRepository defines the interface for income ledger persistence
type IncomeRepository interface {
	// ListByYear retrieves all income rows for a calendar year
	ListByYear(ctx context.Context, year int) ([]*IncomeRow, error)

	// MonthlyTotals returns income totals for a year grouped by month (1-12).
	// Months with no rows are absent from the map.
	MonthlyTotals(ctx context.Context, year int) (map[int]decimal.Decimal, error)

	// Upsert inserts or updates the row for (year, month, category)
	Upsert(ctx context.Context, row *IncomeRow) error

	// Delete removes an income row by ID
	Delete(ctx context.Context, id int64) error
}
