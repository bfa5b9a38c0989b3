package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mindpay/internal/logger"
	"mindpay/internal/metrics"
	"mindpay/internal/packages"
	"mindpay/internal/session"
)

// Outcome describes one finalization. Created is false when the unit had
// already been finalized and Entry is the stored row.
type Outcome struct {
	Entry   *HistoryEntry `json:"entry"`
	Created bool          `json:"created"`
}

type SyncResult struct {
	Finalized  int `json:"finalized"`
	Incomplete int `json:"incomplete"`
	NoSchedule int `json:"no_schedule"`
}

// Finalizer writes commission history for completed units. It never falls
// back to the default rate: a unit without a schedule stays unfinalized.
type Finalizer struct {
	sessions  session.Repository
	tracker   *packages.Tracker
	schedules ScheduleRepository
	history   HistoryRepository
	now       func() time.Time
}

func NewFinalizer(sessions session.Repository, tracker *packages.Tracker, schedules ScheduleRepository, history HistoryRepository) *Finalizer {
	return &Finalizer{
		sessions:  sessions,
		tracker:   tracker,
		schedules: schedules,
		history:   history,
		now:       time.Now,
	}
}

func (f *Finalizer) FinalizeSession(ctx context.Context, sessionID int64) (*Outcome, error) {
	s, err := f.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.IsPaid() || !s.IsCompleted() {
		return nil, fmt.Errorf("%w: session %d is %s, paid=%t", ErrSessionNotFinalizable, s.ID, s.Status, s.IsPaid())
	}

	versions, err := f.schedules.Versions(ctx, s.ProviderID)
	if err != nil {
		return nil, err
	}
	firsts, err := f.sessions.FirstSessionIDs(ctx, []int64{s.ClientID})
	if err != nil {
		return nil, err
	}

	if !s.IsPackage() {
		return f.finalizeIndividual(ctx, *s, versions, firsts)
	}

	key := packages.InstanceKey{PackageID: *s.PackageID, ProviderID: s.ProviderID, ClientID: s.ClientID}
	members, err := f.sessions.ListForPackage(ctx, key.PackageID, key.ProviderID, key.ClientID)
	if err != nil {
		return nil, err
	}
	return f.finalizePackage(ctx, key, members, versions, firsts)
}

// SyncProvider finalizes every completed, not yet finalized unit of the
// provider. Incomplete packages and units without a schedule are counted and
// left for a later pass.
func (f *Finalizer) SyncProvider(ctx context.Context, providerID int64) (SyncResult, error) {
	var result SyncResult

	paid, err := f.sessions.ListPaidByProvider(ctx, providerID)
	if err != nil {
		return result, err
	}
	if len(paid) == 0 {
		return result, nil
	}

	entries, err := f.history.ListByProvider(ctx, providerID)
	if err != nil {
		return result, err
	}
	finalized := make(map[string]bool, len(entries))
	for _, e := range entries {
		finalized[e.UnitKey] = true
	}

	versions, err := f.schedules.Versions(ctx, providerID)
	if err != nil {
		return result, err
	}
	firsts, err := f.sessions.FirstSessionIDs(ctx, clientIDs(paid))
	if err != nil {
		return result, err
	}

	groups := make(map[packages.InstanceKey][]session.Session)
	var order []packages.InstanceKey

	for _, s := range paid {
		if s.IsPackage() {
			key := packages.InstanceKey{PackageID: *s.PackageID, ProviderID: s.ProviderID, ClientID: s.ClientID}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], s)
			continue
		}

		if !s.IsCompleted() || finalized[SessionUnitKey(s.ID)] {
			continue
		}
		_, err := f.finalizeIndividual(ctx, s, versions, firsts)
		if err := result.record(err); err != nil {
			return result, err
		}
	}

	for _, key := range order {
		members := groups[key]
		if finalized[key.String()] || !anyCompleted(members) {
			continue
		}
		_, err := f.finalizePackage(ctx, key, members, versions, firsts)
		if err := result.record(err); err != nil {
			return result, err
		}
	}

	if result.Finalized > 0 || result.NoSchedule > 0 {
		logger.Info("commission sync finished",
			"provider_id", providerID,
			"finalized", result.Finalized,
			"incomplete", result.Incomplete,
			"no_schedule", result.NoSchedule,
		)
	}
	return result, nil
}

func (r *SyncResult) record(err error) error {
	switch {
	case err == nil:
		r.Finalized++
	case errors.Is(err, packages.ErrPackageIncomplete):
		r.Incomplete++
	case errors.Is(err, ErrNoScheduleConfigured):
		r.NoSchedule++
	default:
		return err
	}
	return nil
}

func (f *Finalizer) finalizeIndividual(ctx context.Context, s session.Session, versions Versions, firsts map[int64]int64) (*Outcome, error) {
	completedAt := f.completedAt(s)
	schedule := f.scheduleFor(versions, completedAt)

	split, err := Resolve(Individual(s.PriceCents), schedule, firsts[s.ClientID] == s.ID)
	if err != nil {
		f.logUnresolved(err, UnitIndividual, SessionUnitKey(s.ID), s.ProviderID)
		return nil, err
	}

	sessionID := s.ID
	entry := &HistoryEntry{
		UnitKey:           SessionUnitKey(s.ID),
		SessionID:         &sessionID,
		ClientID:          s.ClientID,
		ProviderID:        s.ProviderID,
		GrossCents:        split.GrossCents,
		CommissionCents:   split.CommissionCents,
		ProviderCents:     split.ProviderCents,
		PaymentStatus:     PaymentPending,
		ScheduleID:        &schedule.ID,
		PaymentCapturedAt: *s.PaymentCapturedAt,
		CompletedAt:       completedAt,
	}
	return f.store(ctx, UnitIndividual, entry)
}

func (f *Finalizer) finalizePackage(ctx context.Context, key packages.InstanceKey, members []session.Session, versions Versions, firsts map[int64]int64) (*Outcome, error) {
	progress, err := f.tracker.Progress(ctx, key)
	if err != nil {
		return nil, err
	}
	if !progress.IsComplete() {
		metrics.RecordFinalization(UnitPackage.String(), "incomplete")
		return nil, fmt.Errorf("%w: %s has %d of %d sessions completed", packages.ErrPackageIncomplete, key, progress.Completed, progress.Total)
	}

	var (
		paidAt      *time.Time
		completedAt time.Time
		isFirst     bool
	)
	for _, m := range members {
		if m.PaymentCapturedAt != nil && (paidAt == nil || m.PaymentCapturedAt.Before(*paidAt)) {
			paidAt = m.PaymentCapturedAt
		}
		if m.IsCompleted() {
			if at := f.completedAt(m); at.After(completedAt) {
				completedAt = at
			}
		}
		if first, ok := firsts[key.ClientID]; ok && first == m.ID {
			isFirst = true
		}
	}
	if paidAt == nil {
		return nil, fmt.Errorf("%w: %s has no captured payment", ErrSessionNotFinalizable, key)
	}

	schedule := f.scheduleFor(versions, completedAt)
	split, err := Resolve(PackageUnit(progress.Package.Type, progress.Package.TotalPriceCents), schedule, isFirst)
	if err != nil {
		f.logUnresolved(err, UnitPackage, key.String(), key.ProviderID)
		return nil, err
	}

	packageID := key.PackageID
	entry := &HistoryEntry{
		UnitKey:           key.String(),
		PackageID:         &packageID,
		ClientID:          key.ClientID,
		ProviderID:        key.ProviderID,
		GrossCents:        split.GrossCents,
		CommissionCents:   split.CommissionCents,
		ProviderCents:     split.ProviderCents,
		PaymentStatus:     PaymentPending,
		ScheduleID:        &schedule.ID,
		PaymentCapturedAt: *paidAt,
		CompletedAt:       completedAt,
	}
	return f.store(ctx, UnitPackage, entry)
}

func (f *Finalizer) store(ctx context.Context, kind UnitKind, entry *HistoryEntry) (*Outcome, error) {
	created, err := f.history.Insert(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("insert history %s: %w", entry.UnitKey, err)
	}
	if !created {
		existing, err := f.history.GetByUnitKey(ctx, entry.UnitKey)
		if err != nil {
			return nil, err
		}
		metrics.RecordFinalization(kind.String(), "already_finalized")
		return &Outcome{Entry: existing}, nil
	}

	metrics.RecordFinalization(kind.String(), "finalized")
	logger.Info("commission finalized",
		"unit_key", entry.UnitKey,
		"provider_id", entry.ProviderID,
		"gross_cents", entry.GrossCents,
		"commission_cents", entry.CommissionCents,
	)
	return &Outcome{Entry: entry, Created: true}, nil
}

// scheduleFor picks the version in force at completion. A provider who had
// no schedule yet at that time is finalized with the one in force now.
func (f *Finalizer) scheduleFor(versions Versions, completedAt time.Time) *Schedule {
	if s := versions.At(completedAt); s != nil {
		return s
	}
	return versions.At(f.now())
}

func (f *Finalizer) completedAt(s session.Session) time.Time {
	if s.CompletedAt != nil {
		return *s.CompletedAt
	}
	return s.ScheduledAt
}

func (f *Finalizer) logUnresolved(err error, kind UnitKind, unitKey string, providerID int64) {
	if errors.Is(err, ErrNoScheduleConfigured) {
		metrics.RecordFinalization(kind.String(), "no_schedule")
		logger.Warn("commission not finalized, no schedule", "unit_key", unitKey, "provider_id", providerID)
		return
	}
	logger.WithError(err).Error("commission resolution failed", "unit_key", unitKey, "provider_id", providerID)
}

func anyCompleted(sessions []session.Session) bool {
	for _, s := range sessions {
		if s.IsCompleted() {
			return true
		}
	}
	return false
}

func clientIDs(sessions []session.Session) []int64 {
	seen := make(map[int64]bool)
	ids := make([]int64, 0)
	for _, s := range sessions {
		if !seen[s.ClientID] {
			seen[s.ClientID] = true
			ids = append(ids, s.ClientID)
		}
	}
	return ids
}
