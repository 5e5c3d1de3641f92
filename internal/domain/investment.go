package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Known investment types as entered in the brokerage account.
// The type column is free text, so these form a lookup set, not a closed enum:
// user-defined types pass through aggregation as regular investments.
const (
	InvestmentTypeCauciones  = "CAUCIONES"
	InvestmentTypeAcciones   = "ACCIONES"
	InvestmentTypeLetras     = "LETRAS"
	InvestmentTypeObligNegoc = "Obligaciones Negociables"
	InvestmentTypeBonos      = "BONOS"
	InvestmentTypeOtros      = "Otros"
)

// Investment represents a brokerage (Cocos) position snapshot in the domain layer.
// CAUCIONES rows are point-in-time snapshots of a rolling position: only the most
// recent one counts toward current net worth, older rows are historical-only.
type Investment struct {
	ID          int64
	Type        string
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// IsCaucion reports whether the record is a caución snapshot.
// The type column is free text, so the check folds case and surrounding whitespace.
func (i *Investment) IsCaucion() bool {
	return strings.ToUpper(strings.TrimSpace(i.Type)) == InvestmentTypeCauciones
}
