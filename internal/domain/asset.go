package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind represents the kind of a tracked asset record
type AssetKind string

const (
	AssetKindAsset      AssetKind = "ACTIVO"
	AssetKindInvestment AssetKind = "INVERSION"
)

// Asset represents a tracked financial asset (bank account, brokerage
// position, cash) in the domain layer. Both kinds count toward net worth.
type Asset struct {
	ID          int64
	Entity      string
	Kind        AssetKind
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// Validate ensures the asset adheres to domain rules
// Returns an error if validation fails
func (a *Asset) Validate() error {
	if a.Entity == "" {
		return errors.New("asset entity cannot be empty")
	}

	if a.Kind != AssetKindAsset && a.Kind != AssetKindInvestment {
		return errors.New("asset kind must be ACTIVO or INVERSION")
	}

	return nil
}
