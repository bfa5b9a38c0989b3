package payout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindpay/internal/commission"
	"mindpay/internal/period"
	"mindpay/internal/session"
)

type recordingNotifier struct {
	mu      sync.Mutex
	payouts []Payout
	err     error
}

func (n *recordingNotifier) PayoutSettled(_ context.Context, p Payout) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.payouts = append(n.payouts, p)
	return n.err
}

func (w *world) service(notifier Notifier) *service {
	svc := NewService(memPayouts{w.db}, memHistory{w.db}, w.aggregator, w.finalizer, notifier).(*service)
	svc.now = func() time.Time { return day(2024, 6, 1) }
	return svc
}

func TestEndToEnd_EstimateMatchesFinalizedAmount(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	notifier := &recordingNotifier{}
	svc := w.service(notifier)
	ctx := context.Background()
	march := period.Month(2024, time.March)

	w.addSession(session.Session{ID: 1, ClientID: 7, PriceCents: 1000, Status: session.StatusBooked,
		ScheduledAt: day(2024, 3, 25), PaymentCapturedAt: ptr(day(2024, 3, 1))})

	// No schedule yet: the default rate gives an approximate 700 for the provider.
	pending, err := w.aggregator.Pending(ctx, providerID, march)
	require.NoError(t, err)
	assert.True(t, pending.Approximate)
	assert.Equal(t, int64(700), pending.TotalProviderCents)

	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})

	pending, err = w.aggregator.Pending(ctx, providerID, march)
	require.NoError(t, err)
	assert.False(t, pending.Approximate)
	assert.Equal(t, int64(700), pending.TotalProviderCents)

	// Estimates are never settled.
	_, err = svc.Settle(ctx, SettleInput{ProviderID: providerID, PaymentMethod: "bank_transfer"})
	assert.ErrorIs(t, err, ErrNothingPendingToSettle)

	w.complete(1, day(2024, 3, 25))

	p, err := svc.Settle(ctx, SettleInput{ProviderID: providerID, PaymentMethod: "bank_transfer", BankDetails: BankDetails(`{"iban":"DE00"}`)})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), p.GrossCents)
	assert.Equal(t, int64(300), p.TotalCommissionCents)
	assert.Equal(t, int64(700), p.NetPayoutCents)
	assert.Equal(t, StatusPaid, p.Status)
	assert.NotEqual(t, uuid.Nil, p.Reference)

	require.Len(t, w.db.history, 1)
	entry := w.db.history[0]
	assert.Equal(t, int64(300), entry.CommissionCents)
	assert.Equal(t, int64(700), entry.ProviderCents)
	assert.Equal(t, commission.PaymentPaid, entry.PaymentStatus)
	assert.Equal(t, p.ID, *entry.PayoutID)

	require.Len(t, notifier.payouts, 1)
	assert.Equal(t, p.ID, notifier.payouts[0].ID)

	pending, err = w.aggregator.Pending(ctx, providerID, march)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.TotalProviderCents)
}

func TestSettle_Idempotent(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(nil)
	ctx := context.Background()
	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})
	w.addSession(session.Session{ID: 1, ClientID: 7, PriceCents: 1000, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 3, 5), PaymentCapturedAt: ptr(day(2024, 3, 1)), CompletedAt: ptr(day(2024, 3, 5))})
	w.addSession(session.Session{ID: 2, ClientID: 7, PriceCents: 1500, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 3, 12), PaymentCapturedAt: ptr(day(2024, 3, 2)), CompletedAt: ptr(day(2024, 3, 12))})

	march := period.Month(2024, time.March)
	first, err := svc.Settle(ctx, SettleInput{ProviderID: providerID, Period: &march, PaymentMethod: "upi"})
	require.NoError(t, err)
	assert.Equal(t, int64(1900), first.NetPayoutCents)
	assert.Equal(t, 2, first.EntryCount)

	_, err = svc.Settle(ctx, SettleInput{ProviderID: providerID, Period: &march, PaymentMethod: "upi"})
	assert.ErrorIs(t, err, ErrNothingPendingToSettle)

	_, err = svc.MarkAsPaid(ctx, providerID, nil, nil)
	assert.ErrorIs(t, err, ErrNothingPendingToSettle)

	assert.Len(t, w.db.payouts, 1)
}

func TestSettle_ScopedByPaymentDate(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(nil)
	ctx := context.Background()
	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})

	// Paid in January, completed in February: not part of a February payment scope.
	w.addSession(session.Session{ID: 1, ClientID: 7, PriceCents: 1000, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 2, 5), PaymentCapturedAt: ptr(day(2024, 1, 20)), CompletedAt: ptr(day(2024, 2, 5))})
	w.addSession(session.Session{ID: 2, ClientID: 8, PriceCents: 2000, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 2, 6), PaymentCapturedAt: ptr(day(2024, 2, 1)), CompletedAt: ptr(day(2024, 2, 6))})

	feb := period.Month(2024, time.February)
	p, err := svc.Settle(ctx, SettleInput{ProviderID: providerID, Period: &feb, PaymentMethod: "cheque"})
	require.NoError(t, err)
	assert.Equal(t, 1, p.EntryCount)
	assert.Equal(t, int64(1700), p.NetPayoutCents)

	rest, err := svc.MarkAsPaid(ctx, providerID, nil, int64Ptr(42))
	require.NoError(t, err)
	assert.Equal(t, int64(700), rest.NetPayoutCents)
	assert.Equal(t, MethodManual, rest.PaymentMethod)
}

func TestSettle_StaleExpectedTotals(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(nil)
	ctx := context.Background()
	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})
	w.addSession(session.Session{ID: 1, ClientID: 7, PriceCents: 1000, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 3, 5), PaymentCapturedAt: ptr(day(2024, 3, 1)), CompletedAt: ptr(day(2024, 3, 5))})

	_, err := svc.Settle(ctx, SettleInput{
		ProviderID:    providerID,
		PaymentMethod: "bank_transfer",
		Expected:      &Totals{ProviderCents: 500, CommissionCents: 300},
	})
	assert.ErrorIs(t, err, ErrConcurrentSettlementConflict)
	assert.Empty(t, w.db.payouts)
	assert.Equal(t, commission.PaymentPending, w.db.history[0].PaymentStatus)

	p, err := svc.Settle(ctx, SettleInput{
		ProviderID:    providerID,
		PaymentMethod: "bank_transfer",
		Expected:      &Totals{ProviderCents: 700, CommissionCents: 300},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(700), p.NetPayoutCents)
}

func TestSettle_ConcurrentCallsPayOnce(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(nil)
	ctx := context.Background()
	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})
	for i := int64(1); i <= 5; i++ {
		w.addSession(session.Session{ID: i, ClientID: 7, PriceCents: 1000, Status: session.StatusCompleted,
			ScheduledAt: day(2024, 3, 5), PaymentCapturedAt: ptr(day(2024, 3, 1)), CompletedAt: ptr(day(2024, 3, 5))})
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		settled int
		noop    int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Settle(ctx, SettleInput{ProviderID: providerID, PaymentMethod: "bank_transfer"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				settled++
			case errors.Is(err, ErrNothingPendingToSettle):
				noop++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, settled)
	assert.Equal(t, 9, noop)
	require.Len(t, w.db.payouts, 1)
	assert.Equal(t, int64(3500), w.db.payouts[0].NetPayoutCents)
}

func TestSettle_NotifierFailureDoesNotFailSettlement(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(&recordingNotifier{err: errors.New("redis down")})
	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})
	w.addSession(session.Session{ID: 1, ClientID: 7, PriceCents: 1000, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 3, 5), PaymentCapturedAt: ptr(day(2024, 3, 1)), CompletedAt: ptr(day(2024, 3, 5))})

	p, err := svc.Settle(context.Background(), SettleInput{ProviderID: providerID, PaymentMethod: "bank_transfer"})
	require.NoError(t, err)
	assert.Equal(t, int64(700), p.NetPayoutCents)
}

func TestSettle_Validation(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(nil)

	_, err := svc.Settle(context.Background(), SettleInput{ProviderID: providerID})
	assert.ErrorIs(t, err, ErrInvalidSettlement)

	_, err = svc.Settle(context.Background(), SettleInput{PaymentMethod: "upi"})
	assert.ErrorIs(t, err, ErrInvalidSettlement)
}

func TestSettle_ScheduleChangeKeepsFinalizedAmount(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(nil)
	ctx := context.Background()
	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})
	w.addSession(session.Session{ID: 1, ClientID: 7, PriceCents: 1000, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 3, 5), PaymentCapturedAt: ptr(day(2024, 3, 1)), CompletedAt: ptr(day(2024, 3, 5))})

	_, err := w.finalizer.SyncProvider(ctx, providerID)
	require.NoError(t, err)

	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 600})

	p, err := svc.Settle(ctx, SettleInput{ProviderID: providerID, PaymentMethod: "bank_transfer"})
	require.NoError(t, err)
	assert.Equal(t, int64(300), p.TotalCommissionCents)
	assert.Equal(t, int64(700), p.NetPayoutCents)
}

func TestGet_IncludesSettledEntries(t *testing.T) {
	w := newWorld(day(2024, 3, 20))
	svc := w.service(nil)
	ctx := context.Background()
	w.activate(t, commission.Schedule{EffectiveFrom: day(2024, 1, 1), IndividualCents: 300})
	w.addSession(session.Session{ID: 1, ClientID: 7, PriceCents: 1000, Status: session.StatusCompleted,
		ScheduledAt: day(2024, 3, 5), PaymentCapturedAt: ptr(day(2024, 3, 1)), CompletedAt: ptr(day(2024, 3, 5))})

	p, err := svc.Settle(ctx, SettleInput{ProviderID: providerID, PaymentMethod: "bank_transfer"})
	require.NoError(t, err)

	detail, err := svc.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.Entries, 1)
	assert.Equal(t, "session:1", detail.Entries[0].UnitKey)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrPayoutNotFound)
}
