package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot represents the net-worth total persisted for one calendar date.
// At most one row exists per date; writing twice for the same date overwrites.
type Snapshot struct {
	ID    int64
	Date  time.Time
	Total decimal.Decimal
}

// DateOnly truncates a timestamp to its calendar date, preserving the location.
// Snapshot rows are keyed by calendar date, so every date that reaches the
// snapshot repository goes through this first.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
