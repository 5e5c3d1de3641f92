package domain

import "github.com/shopspring/decimal"

// DollarHolding represents physical or deposited USD held at some location.
// Location is free text (a growing set, not a fixed enum).
type DollarHolding struct {
	ID        int64
	Location  string
	Detail    string
	AmountUSD decimal.Decimal
}
