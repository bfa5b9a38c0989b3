package commission

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"mindpay/internal/packages"
	"mindpay/internal/session"
)

type MockSessionRepo struct{ mock.Mock }

func (m *MockSessionRepo) GetByID(ctx context.Context, id int64) (*session.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionRepo) ListPaidByProvider(ctx context.Context, providerID int64) ([]session.Session, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]session.Session), args.Error(1)
}

func (m *MockSessionRepo) ListScheduledBetween(ctx context.Context, providerID *int64, from, to time.Time) ([]session.Session, error) {
	args := m.Called(ctx, providerID, from, to)
	return args.Get(0).([]session.Session), args.Error(1)
}

func (m *MockSessionRepo) ListForPackage(ctx context.Context, packageID, providerID, clientID int64) ([]session.Session, error) {
	args := m.Called(ctx, packageID, providerID, clientID)
	return args.Get(0).([]session.Session), args.Error(1)
}

func (m *MockSessionRepo) CountCompletedForPackage(ctx context.Context, packageID, providerID, clientID int64) (int, error) {
	args := m.Called(ctx, packageID, providerID, clientID)
	return args.Int(0), args.Error(1)
}

func (m *MockSessionRepo) FirstSessionIDs(ctx context.Context, clientIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, clientIDs)
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *MockSessionRepo) ListProviderIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

type MockPackageRepo struct{ mock.Mock }

func (m *MockPackageRepo) GetByID(ctx context.Context, id int64) (*packages.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*packages.Package), args.Error(1)
}

func (m *MockPackageRepo) ListByIDs(ctx context.Context, ids []int64) (map[int64]packages.Package, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[int64]packages.Package), args.Error(1)
}

func (m *MockPackageRepo) ListTypes(ctx context.Context) ([]packages.Type, error) {
	args := m.Called(ctx)
	return args.Get(0).([]packages.Type), args.Error(1)
}

type MockScheduleRepo struct{ mock.Mock }

func (m *MockScheduleRepo) Activate(ctx context.Context, s *Schedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockScheduleRepo) Current(ctx context.Context, providerID int64, at time.Time) (*Schedule, error) {
	args := m.Called(ctx, providerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Schedule), args.Error(1)
}

func (m *MockScheduleRepo) Versions(ctx context.Context, providerID int64) (Versions, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(Versions), args.Error(1)
}

func (m *MockScheduleRepo) ListInForce(ctx context.Context, at time.Time) ([]Schedule, error) {
	args := m.Called(ctx, at)
	return args.Get(0).([]Schedule), args.Error(1)
}

type MockHistoryRepo struct{ mock.Mock }

func (m *MockHistoryRepo) Insert(ctx context.Context, e *HistoryEntry) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockHistoryRepo) GetByUnitKey(ctx context.Context, unitKey string) (*HistoryEntry, error) {
	args := m.Called(ctx, unitKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepo) ListByProvider(ctx context.Context, providerID int64) ([]HistoryEntry, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepo) ListCompletedBetween(ctx context.Context, providerID *int64, from, to time.Time) ([]HistoryEntry, error) {
	args := m.Called(ctx, providerID, from, to)
	return args.Get(0).([]HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepo) ListByPayout(ctx context.Context, payoutID int64) ([]HistoryEntry, error) {
	args := m.Called(ctx, payoutID)
	return args.Get(0).([]HistoryEntry), args.Error(1)
}

func (m *MockHistoryRepo) SumCommission(ctx context.Context, providerID *int64) (int64, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryRepo) Totals(ctx context.Context, providerID *int64) ([]ProviderTotals, error) {
	args := m.Called(ctx, providerID)
	return args.Get(0).([]ProviderTotals), args.Error(1)
}
