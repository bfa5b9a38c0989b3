package commission

import (
	"context"
	"time"
)

type ScheduleRepository interface {
	Activate(ctx context.Context, s *Schedule) error
	Current(ctx context.Context, providerID int64, at time.Time) (*Schedule, error)
	Versions(ctx context.Context, providerID int64) (Versions, error)
	ListInForce(ctx context.Context, at time.Time) ([]Schedule, error)
}

type HistoryRepository interface {
	Insert(ctx context.Context, e *HistoryEntry) (bool, error)
	GetByUnitKey(ctx context.Context, unitKey string) (*HistoryEntry, error)
	ListByProvider(ctx context.Context, providerID int64) ([]HistoryEntry, error)
	ListCompletedBetween(ctx context.Context, providerID *int64, from, to time.Time) ([]HistoryEntry, error)
	ListByPayout(ctx context.Context, payoutID int64) ([]HistoryEntry, error)
	SumCommission(ctx context.Context, providerID *int64) (int64, error)
	Totals(ctx context.Context, providerID *int64) ([]ProviderTotals, error)
}
