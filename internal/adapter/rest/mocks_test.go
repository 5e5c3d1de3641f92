package rest

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockAssetRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) List(ctx context.Context) ([]*domain.Investment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Investment), args.Error(1)
}

func (m *MockInvestmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) Update(ctx context.Context, inv *domain.Investment) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvestmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDollarRepository struct {
	mock.Mock
}

func (m *MockDollarRepository) List(ctx context.Context) ([]*domain.DollarHolding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DollarHolding), args.Error(1)
}

func (m *MockDollarRepository) Create(ctx context.Context, holding *domain.DollarHolding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockDollarRepository) Update(ctx context.Context, holding *domain.DollarHolding) error {
	args := m.Called(ctx, holding)
	return args.Error(0)
}

func (m *MockDollarRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockConfigRepository) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) UpsertByDate(ctx context.Context, date time.Time, total decimal.Decimal) error {
	args := m.Called(ctx, date, total)
	return args.Error(0)
}

func (m *MockSnapshotRepository) GetByDate(ctx context.Context, date time.Time) (*domain.Snapshot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func (m *MockSnapshotRepository) History(ctx context.Context, limit int) ([]*domain.Snapshot, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Snapshot), args.Error(1)
}

type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) ListByYear(ctx context.Context, year int) ([]*domain.ExpenseRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExpenseRow), args.Error(1)
}

func (m *MockExpenseRepository) ListByYears(ctx context.Context, years []int) ([]*domain.ExpenseRow, error) {
	args := m.Called(ctx, years)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExpenseRow), args.Error(1)
}

func (m *MockExpenseRepository) Upsert(ctx context.Context, row *domain.ExpenseRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockIncomeRepository struct {
	mock.Mock
}

func (m *MockIncomeRepository) ListByYear(ctx context.Context, year int) ([]*domain.IncomeRow, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.IncomeRow), args.Error(1)
}

func (m *MockIncomeRepository) MonthlyTotals(ctx context.Context, year int) (map[int]decimal.Decimal, error) {
	args := m.Called(ctx, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]decimal.Decimal), args.Error(1)
}

func (m *MockIncomeRepository) Upsert(ctx context.Context, row *domain.IncomeRow) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockIncomeRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
