package payout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"mindpay/internal/api"
	"mindpay/internal/commission"
	"mindpay/internal/logger"
	"mindpay/internal/metrics"
	"mindpay/internal/period"
)

var validate = validator.New()

type SettleInput struct {
	ProviderID    int64          `validate:"gt=0"`
	Period        *period.Period `validate:"-"`
	PaymentMethod string         `validate:"required,max=32"`
	BankDetails   BankDetails    `validate:"-"`
	Reference     *uuid.UUID     `validate:"-"`
	ProcessedBy   *int64         `validate:"-"`
	Expected      *Totals        `validate:"-"`
}

type providerSyncer interface {
	SyncProvider(ctx context.Context, providerID int64) (commission.SyncResult, error)
}

// Notifier is told about payouts after they commit.
type Notifier interface {
	PayoutSettled(ctx context.Context, p Payout) error
}

type Service interface {
	Settle(ctx context.Context, in SettleInput) (*Payout, error)
	MarkAsPaid(ctx context.Context, providerID int64, p *period.Period, processedBy *int64) (*Payout, error)
	Pending(ctx context.Context, p period.Period) ([]Summary, error)
	List(ctx context.Context, providerID *int64) ([]Payout, error)
	Get(ctx context.Context, id int64) (*Detail, error)
}

type service struct {
	repo       Repository
	history    commission.HistoryRepository
	aggregator *Aggregator
	finalizer  providerSyncer
	notifier   Notifier
	now        func() time.Time
}

func NewService(repo Repository, history commission.HistoryRepository, aggregator *Aggregator, finalizer providerSyncer, notifier Notifier) Service {
	return &service{
		repo:       repo,
		history:    history,
		aggregator: aggregator,
		finalizer:  finalizer,
		notifier:   notifier,
		now:        time.Now,
	}
}

// Settle finalizes whatever completed since the last pass and pays out every
// pending finalized amount of the provider, optionally limited to payments
// captured in the period. Estimates are never paid.
func (s *service) Settle(ctx context.Context, in SettleInput) (*Payout, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSettlement, api.DescribeValidation(err))
	}

	if _, err := s.finalizer.SyncProvider(ctx, in.ProviderID); err != nil {
		return nil, fmt.Errorf("finalize provider %d: %w", in.ProviderID, err)
	}

	req := SettleParams{
		ProviderID:    in.ProviderID,
		PaymentMethod: in.PaymentMethod,
		BankDetails:   in.BankDetails,
		Reference:     uuid.New(),
		ProcessedBy:   in.ProcessedBy,
		Expected:      in.Expected,
		PayoutDate:    s.now().UTC(),
	}
	if in.Reference != nil {
		req.Reference = *in.Reference
	}
	if in.Period != nil {
		from, to := in.Period.From, in.Period.To
		req.From, req.To = &from, &to
	}

	p, entries, err := s.repo.Settle(ctx, req)
	if err != nil {
		metrics.RecordSettlement(in.PaymentMethod, settlementOutcome(err), 0)
		if errors.Is(err, ErrConcurrentSettlementConflict) {
			logger.Warn("settlement conflict", "provider_id", in.ProviderID, "error", err.Error())
		}
		return nil, err
	}

	metrics.RecordSettlement(p.PaymentMethod, "settled", p.NetPayoutCents)
	logger.Info("payout settled",
		"payout_id", p.ID,
		"reference", p.Reference.String(),
		"provider_id", p.ProviderID,
		"net_payout_cents", p.NetPayoutCents,
		"entries", len(entries),
	)

	if s.notifier != nil {
		if err := s.notifier.PayoutSettled(ctx, *p); err != nil {
			logger.WithError(err).Error("failed to enqueue payout notification", "payout_id", p.ID)
		}
	}

	return p, nil
}

// MarkAsPaid settles with totals inferred from the pending rows.
func (s *service) MarkAsPaid(ctx context.Context, providerID int64, p *period.Period, processedBy *int64) (*Payout, error) {
	return s.Settle(ctx, SettleInput{
		ProviderID:    providerID,
		Period:        p,
		PaymentMethod: MethodManual,
		ProcessedBy:   processedBy,
	})
}

func (s *service) Pending(ctx context.Context, p period.Period) ([]Summary, error) {
	return s.aggregator.PendingByProvider(ctx, p)
}

func (s *service) List(ctx context.Context, providerID *int64) ([]Payout, error) {
	return s.repo.List(ctx, providerID)
}

func (s *service) Get(ctx context.Context, id int64) (*Detail, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entries, err := s.history.ListByPayout(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Payout: *p, Entries: entries}, nil
}

func settlementOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNothingPendingToSettle):
		return "nothing_pending"
	case errors.Is(err, ErrConcurrentSettlementConflict):
		return "conflict"
	case errors.Is(err, ErrDuplicateReference):
		return "duplicate_reference"
	default:
		return "error"
	}
}
