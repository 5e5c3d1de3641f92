package metrics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
)

// DefaultMonthsWindow is the trailing window used for the average expense
const DefaultMonthsWindow = 3

// Weights and constants of the composite financial health score.
// The formula is a fixed heuristic; the only requirement is reproducing
// its arithmetic exactly.
const (
	savingsWeight         = 0.4
	runwayWeight          = 0.35
	diversificationWeight = 0.25
	runwayTargetMonths    = 24.0
)

// Metrics represents the derived financial indicators for the dashboard
type Metrics struct {
	SavingsRatePct      *float64 // nil when the month has no income
	RunwayMonths        *float64 // nil when the average expense is zero
	IncomeThisMonthARS  decimal.Decimal
	ExpenseThisMonthARS decimal.Decimal
	AvgExpenseARS       decimal.Decimal
	Score               float64 // composite 0-100 financial health score
}

// Concentration represents each bucket's share of total net worth in percent.
// Under non-negative inputs the four ratios sum to exactly 100.
type Concentration struct {
	AssetsPct               float64
	InvestmentsExCaucionPct float64
	LatestCaucionPct        float64
	DollarsPct              float64
}

// Max returns the largest of the four ratios
func (c Concentration) Max() float64 {
	max := c.AssetsPct
	for _, pct := range []float64{c.InvestmentsExCaucionPct, c.LatestCaucionPct, c.DollarsPct} {
		if pct > max {
			max = pct
		}
	}
	return max
}

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int
	Month int
}

// PeriodKey formats a calendar month as "YYYY-MM", the key of expense period maps
func PeriodKey(year, month int) string {
	return fmt.Sprintf("%d-%02d", year, month)
}

// LastMonths returns the last count calendar months walking backward from
// base (inclusive), wrapping year boundaries.
func LastMonths(base time.Time, count int) []YearMonth {
	out := make([]YearMonth, 0, count)
	for i := 0; i < count; i++ {
		m := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location()).AddDate(0, -i, 0)
		out = append(out, YearMonth{Year: m.Year(), Month: int(m.Month())})
	}
	return out
}

// Compute derives the dashboard metrics from a net-worth breakdown and the
// monthly income/expense aggregates. expenseByPeriod maps "YYYY-MM" to that
// month's deduplicated expense total; missing months count as zero. Pure
// function over its inputs.
func Compute(
	breakdown networth.Breakdown,
	incomeThisMonth decimal.Decimal,
	expenseByPeriod map[string]decimal.Decimal,
	now time.Time,
	monthsWindow int,
) (Metrics, Concentration) {
	if monthsWindow <= 0 {
		monthsWindow = DefaultMonthsWindow
	}

	expenseThisMonth := expenseByPeriod[PeriodKey(now.Year(), int(now.Month()))]

	var savingsRatePct *float64
	if incomeThisMonth.IsPositive() {
		pct := incomeThisMonth.Sub(expenseThisMonth).Div(incomeThisMonth).Mul(decimal.NewFromInt(100)).InexactFloat64()
		savingsRatePct = &pct
	}

	window := LastMonths(now, monthsWindow)
	windowTotal := decimal.Zero
	for _, ym := range window {
		windowTotal = windowTotal.Add(expenseByPeriod[PeriodKey(ym.Year, ym.Month)])
	}
	avgExpense := windowTotal.Div(decimal.NewFromInt(int64(monthsWindow)))

	var runwayMonths *float64
	if avgExpense.IsPositive() {
		months := breakdown.TotalARS.Div(avgExpense).InexactFloat64()
		runwayMonths = &months
	}

	concentration := computeConcentration(breakdown)

	savingsScore := clamp((orZero(savingsRatePct)+20)*2.5, 0, 100)
	runwayScore := clamp(orZero(runwayMonths)/runwayTargetMonths*100, 0, 100)
	diversificationScore := clamp(100-(concentration.Max()-25)*1.6, 0, 100)
	score := savingsScore*savingsWeight + runwayScore*runwayWeight + diversificationScore*diversificationWeight

	return Metrics{
		SavingsRatePct:      savingsRatePct,
		RunwayMonths:        runwayMonths,
		IncomeThisMonthARS:  incomeThisMonth,
		ExpenseThisMonthARS: expenseThisMonth,
		AvgExpenseARS:       avgExpense,
		Score:               score,
	}, concentration
}

// computeConcentration derives each bucket's share of total net worth.
// A non-positive total yields all zeros rather than dividing by zero.
func computeConcentration(breakdown networth.Breakdown) Concentration {
	if !breakdown.TotalARS.IsPositive() {
		return Concentration{}
	}

	return Concentration{
		AssetsPct:               bucketPct(breakdown.AssetsARS, breakdown.TotalARS),
		InvestmentsExCaucionPct: bucketPct(breakdown.InvestmentsExCaucionARS, breakdown.TotalARS),
		LatestCaucionPct:        bucketPct(breakdown.LatestCaucionARS, breakdown.TotalARS),
		DollarsPct:              bucketPct(breakdown.DollarsARS, breakdown.TotalARS),
	}
}

func bucketPct(bucket, total decimal.Decimal) float64 {
	return bucket.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
