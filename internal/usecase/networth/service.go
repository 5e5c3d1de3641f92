package networth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// ConfigKeyExchangeRate is the config entry holding the ARS-per-USD rate
const ConfigKeyExchangeRate = "cotizacion_dolar"

// DefaultExchangeRate is used whenever the configured rate is missing,
// non-numeric or zero. Negative values pass through unchanged.
var DefaultExchangeRate = decimal.NewFromInt(1000)

// DefaultHistoryLimit caps the snapshot series returned for charting
const DefaultHistoryLimit = 120

// Breakdown represents the structured net-worth valuation in ARS
type Breakdown struct {
	AssetsARS               decimal.Decimal
	InvestmentsExCaucionARS decimal.Decimal
	LatestCaucionARS        decimal.Decimal
	LatestCaucionDate       *time.Time // nil when no caución snapshot exists
	DollarsUSD              decimal.Decimal
	ExchangeRate            decimal.Decimal
	DollarsARS              decimal.Decimal
	TotalARS                decimal.Decimal
}

// Comparison represents today's total against yesterday's snapshot
type Comparison struct {
	TodayDate         time.Time
	YesterdayDate     time.Time
	TodayTotalARS     decimal.Decimal
	YesterdayTotalARS decimal.Decimal
	VariationARS      decimal.Decimal
	VariationPct      *float64 // nil when yesterday has no data or a zero total
	HasYesterdayData  bool
}

// Service computes net-worth breakdowns and maintains the daily snapshot
// series. All reads happen per invocation; the service holds no state beyond
// its repositories.
type Service struct {
	AssetRepo      domain.AssetRepository
	InvestmentRepo domain.InvestmentRepository
	DollarRepo     domain.DollarRepository
	ConfigRepo     domain.ConfigRepository
	SnapshotRepo   domain.SnapshotRepository

	// Now is the clock used to key snapshot rows; overridable in tests
	Now func() time.Time
}

// NewService creates a new net-worth Service instance
func NewService(
	assetRepo domain.AssetRepository,
	investmentRepo domain.InvestmentRepository,
	dollarRepo domain.DollarRepository,
	configRepo domain.ConfigRepository,
	snapshotRepo domain.SnapshotRepository,
) *Service {
	return &Service{
		AssetRepo:      assetRepo,
		InvestmentRepo: investmentRepo,
		DollarRepo:     dollarRepo,
		ConfigRepo:     configRepo,
		SnapshotRepo:   snapshotRepo,
		Now:            time.Now,
	}
}

// ComputeBreakdown computes the net-worth breakdown from a read snapshot of
// the current-state records. Pure: no side effects, safe to call repeatedly.
// Logic:
//   - AssetsARS: sum of all asset amounts, both kinds
//   - InvestmentsExCaucionARS: sum of non-caución investment amounts
//   - LatestCaucionARS: the caución snapshot with the latest date (ties go to
//     the highest id); zero with a nil date when none exists
//   - DollarsARS: DollarsUSD * exchange rate
//   - TotalARS: sum of the four ARS buckets
func ComputeBreakdown(
	assets []*domain.Asset,
	investments []*domain.Investment,
	dollars []*domain.DollarHolding,
	exchangeRate decimal.Decimal,
) Breakdown {
	assetsTotal := decimal.Zero
	for _, asset := range assets {
		assetsTotal = assetsTotal.Add(asset.Amount)
	}

	investmentsExCaucion := decimal.Zero
	var latestCaucion *domain.Investment
	for _, inv := range investments {
		if !inv.IsCaucion() {
			investmentsExCaucion = investmentsExCaucion.Add(inv.Amount)
			continue
		}
		if latestCaucion == nil || domain.MoreRecent(inv.Date, inv.ID, latestCaucion.Date, latestCaucion.ID) {
			latestCaucion = inv
		}
	}

	latestCaucionAmount := decimal.Zero
	var latestCaucionDate *time.Time
	if latestCaucion != nil {
		latestCaucionAmount = latestCaucion.Amount
		date := domain.DateOnly(latestCaucion.Date)
		latestCaucionDate = &date
	}

	dollarsUSD := decimal.Zero
	for _, holding := range dollars {
		dollarsUSD = dollarsUSD.Add(holding.AmountUSD)
	}
	dollarsARS := dollarsUSD.Mul(exchangeRate)

	total := assetsTotal.Add(investmentsExCaucion).Add(latestCaucionAmount).Add(dollarsARS)

	return Breakdown{
		AssetsARS:               assetsTotal,
		InvestmentsExCaucionARS: investmentsExCaucion,
		LatestCaucionARS:        latestCaucionAmount,
		LatestCaucionDate:       latestCaucionDate,
		DollarsUSD:              dollarsUSD,
		ExchangeRate:            exchangeRate,
		DollarsARS:              dollarsARS,
		TotalARS:                total,
	}
}

// Breakdown reads the current-state records and computes the breakdown using
// the configured exchange rate.
func (s *Service) Breakdown(ctx context.Context) (Breakdown, error) {
	assets, err := s.AssetRepo.List(ctx)
	if err != nil {
		return Breakdown{}, fmt.Errorf("failed to list assets: %w", err)
	}

	investments, err := s.InvestmentRepo.List(ctx)
	if err != nil {
		return Breakdown{}, fmt.Errorf("failed to list investments: %w", err)
	}

	dollars, err := s.DollarRepo.List(ctx)
	if err != nil {
		return Breakdown{}, fmt.Errorf("failed to list dollar holdings: %w", err)
	}

	rate, err := s.exchangeRate(ctx)
	if err != nil {
		return Breakdown{}, err
	}

	return ComputeBreakdown(assets, investments, dollars, rate), nil
}

// exchangeRate resolves the configured ARS-per-USD rate. A missing key,
// unparseable value or zero falls back to DefaultExchangeRate; only a storage
// failure propagates as an error.
func (s *Service) exchangeRate(ctx context.Context) (decimal.Decimal, error) {
	value, err := s.ConfigRepo.Get(ctx, ConfigKeyExchangeRate)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DefaultExchangeRate, nil
		}
		return decimal.Zero, fmt.Errorf("failed to read exchange rate config: %w", err)
	}

	rate, err := decimal.NewFromString(value)
	if err != nil || rate.IsZero() {
		return DefaultExchangeRate, nil
	}
	return rate, nil
}

// SyncSnapshot computes today's breakdown and upserts the snapshot row for the
// current calendar date. Idempotent: repeated calls on the same day overwrite
// the same row. Mutation paths (asset, investment, dollar and exchange-rate
// writes) call this synchronously after every write.
func (s *Service) SyncSnapshot(ctx context.Context) (Breakdown, error) {
	breakdown, err := s.Breakdown(ctx)
	if err != nil {
		return Breakdown{}, err
	}

	today := domain.DateOnly(s.Now())
	if err := s.SnapshotRepo.UpsertByDate(ctx, today, breakdown.TotalARS); err != nil {
		return Breakdown{}, fmt.Errorf("failed to upsert snapshot for %s: %w", today.Format("2006-01-02"), err)
	}

	return breakdown, nil
}

// CompareToYesterday syncs today's snapshot and compares it against
// yesterday's row. A missing yesterday row degrades to a zero total with
// HasYesterdayData=false; a yesterday row holding exactly zero keeps the flag
// set but yields a nil percentage. Neither case is an error.
func (s *Service) CompareToYesterday(ctx context.Context) (Comparison, error) {
	breakdown, err := s.SyncSnapshot(ctx)
	if err != nil {
		return Comparison{}, err
	}

	today := domain.DateOnly(s.Now())
	yesterday := today.AddDate(0, 0, -1)

	yesterdayTotal := decimal.Zero
	hasYesterdayData := false

	snapshot, err := s.SnapshotRepo.GetByDate(ctx, yesterday)
	switch {
	case err == nil:
		yesterdayTotal = snapshot.Total
		hasYesterdayData = true
	case errors.Is(err, domain.ErrNotFound):
		// degrade: no data for yesterday
	default:
		return Comparison{}, fmt.Errorf("failed to read yesterday snapshot: %w", err)
	}

	variation := breakdown.TotalARS.Sub(yesterdayTotal)

	var variationPct *float64
	if hasYesterdayData && yesterdayTotal.IsPositive() {
		pct := variation.Div(yesterdayTotal).Mul(decimal.NewFromInt(100)).InexactFloat64()
		variationPct = &pct
	}

	return Comparison{
		TodayDate:         today,
		YesterdayDate:     yesterday,
		TodayTotalARS:     breakdown.TotalARS,
		YesterdayTotalARS: yesterdayTotal,
		VariationARS:      variation,
		VariationPct:      variationPct,
		HasYesterdayData:  hasYesterdayData,
	}, nil
}

// History returns up to limit snapshots, most recent first. A non-positive or
// oversized limit is clamped to DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	if limit <= 0 || limit > DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}

	snapshots, err := s.SnapshotRepo.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot history: %w", err)
	}
	return snapshots, nil
}
