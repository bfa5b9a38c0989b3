package dashboard

import (
	"context"
	"fmt"

	"mindpay/internal/payout"
	"mindpay/internal/period"
)

// payoutReader is the part of payout.Aggregator the dashboard reads.
type payoutReader interface {
	Pending(ctx context.Context, providerID int64, p period.Period) (*payout.Summary, error)
	PendingByProvider(ctx context.Context, p period.Period) ([]payout.Summary, error)
	Completed(ctx context.Context, providerID *int64, p period.Period) (*payout.Summary, error)
	Revenue(ctx context.Context, providerID *int64, p period.Period) (*payout.RevenueSummary, error)
}

type commissionReader interface {
	SumCommission(ctx context.Context, providerID *int64) (int64, error)
}

type Service interface {
	Stats(ctx context.Context, providerID *int64, p period.Period) (*Stats, error)
}

type service struct {
	payouts     payoutReader
	commissions commissionReader
}

func NewService(payouts payoutReader, commissions commissionReader) Service {
	return &service{payouts: payouts, commissions: commissions}
}

// Stats collects the overview. Company commission counts finalized history
// only: an unfinalized session has earned the company nothing yet. The period
// figure follows completion dates like completed payouts; the lifetime figure
// ignores the period.
func (s *service) Stats(ctx context.Context, providerID *int64, p period.Period) (*Stats, error) {
	revenue, err := s.payouts.Revenue(ctx, providerID, p)
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}

	completed, err := s.payouts.Completed(ctx, providerID, p)
	if err != nil {
		return nil, fmt.Errorf("completed payouts: %w", err)
	}

	lifetime, err := s.commissions.SumCommission(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("lifetime company commission: %w", err)
	}

	stats := &Stats{
		ProviderID:                     providerID,
		From:                           p.From,
		To:                             p.To,
		TotalRevenueCents:              revenue.TotalRevenueCents,
		TotalCompanyCommissionCents:    completed.TotalCommissionCents,
		LifetimeCompanyCommissionCents: lifetime,
		CompletedPayoutCents:           completed.TotalProviderCents,
		SessionCount:                   revenue.SessionCount,
		SessionCounts:                  revenue.SessionCounts,
	}

	if providerID != nil {
		pending, err := s.payouts.Pending(ctx, *providerID, p)
		if err != nil {
			return nil, fmt.Errorf("pending payouts: %w", err)
		}
		stats.PendingPayoutCents = pending.TotalProviderCents
		stats.Approximate = pending.Approximate
		return stats, nil
	}

	pending, err := s.payouts.PendingByProvider(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("pending payouts: %w", err)
	}
	for _, summary := range pending {
		stats.PendingPayoutCents += summary.TotalProviderCents
		if summary.Approximate {
			stats.Approximate = true
		}
	}
	return stats, nil
}
