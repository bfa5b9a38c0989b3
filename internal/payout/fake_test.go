package payout

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"mindpay/internal/commission"
	"mindpay/internal/packages"
	"mindpay/internal/session"
)

// memDB is an in-memory stand-in for the four tables, with the same
// predicates the SQL repositories use.
type memDB struct {
	mu        sync.Mutex
	sessions  []session.Session
	packages  map[int64]packages.Package
	schedules []commission.Schedule
	history   []commission.HistoryEntry
	payouts   []Payout
}

func newMemDB() *memDB {
	return &memDB{packages: map[int64]packages.Package{}}
}

type memSessions struct{ db *memDB }
type memPackages struct{ db *memDB }
type memSchedules struct{ db *memDB }
type memHistory struct{ db *memDB }
type memPayouts struct{ db *memDB }

func (m memSessions) GetByID(_ context.Context, id int64) (*session.Session, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, s := range m.db.sessions {
		if s.ID == id {
			s := s
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m memSessions) ListPaidByProvider(_ context.Context, providerID int64) ([]session.Session, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []session.Session{}
	for _, s := range m.db.sessions {
		if s.ProviderID == providerID && s.IsPaid() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m memSessions) ListScheduledBetween(_ context.Context, providerID *int64, from, to time.Time) ([]session.Session, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []session.Session{}
	for _, s := range m.db.sessions {
		if providerID != nil && s.ProviderID != *providerID {
			continue
		}
		if !s.ScheduledAt.Before(from) && s.ScheduledAt.Before(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m memSessions) ListForPackage(_ context.Context, packageID, providerID, clientID int64) ([]session.Session, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []session.Session{}
	for _, s := range m.db.sessions {
		if s.PackageID != nil && *s.PackageID == packageID && s.ProviderID == providerID && s.ClientID == clientID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m memSessions) CountCompletedForPackage(ctx context.Context, packageID, providerID, clientID int64) (int, error) {
	list, _ := m.ListForPackage(ctx, packageID, providerID, clientID)
	n := 0
	for _, s := range list {
		if s.IsCompleted() {
			n++
		}
	}
	return n, nil
}

func (m memSessions) FirstSessionIDs(_ context.Context, clientIDs []int64) (map[int64]int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	wanted := map[int64]bool{}
	for _, id := range clientIDs {
		wanted[id] = true
	}
	first := map[int64]session.Session{}
	for _, s := range m.db.sessions {
		if !s.IsPaid() || !wanted[s.ClientID] {
			continue
		}
		cur, ok := first[s.ClientID]
		if !ok || s.PaymentCapturedAt.Before(*cur.PaymentCapturedAt) ||
			(s.PaymentCapturedAt.Equal(*cur.PaymentCapturedAt) && (s.CreatedAt.Before(cur.CreatedAt) ||
				(s.CreatedAt.Equal(cur.CreatedAt) && s.ID < cur.ID))) {
			first[s.ClientID] = s
		}
	}
	ids := map[int64]int64{}
	for c, s := range first {
		ids[c] = s.ID
	}
	return ids, nil
}

func (m memSessions) ListProviderIDs(_ context.Context) ([]int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	seen := map[int64]bool{}
	ids := []int64{}
	for _, s := range m.db.sessions {
		if s.IsPaid() && !seen[s.ProviderID] {
			seen[s.ProviderID] = true
			ids = append(ids, s.ProviderID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m memPackages) GetByID(_ context.Context, id int64) (*packages.Package, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.packages[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (m memPackages) ListByIDs(_ context.Context, ids []int64) (map[int64]packages.Package, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := map[int64]packages.Package{}
	for _, id := range ids {
		if p, ok := m.db.packages[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (m memPackages) ListTypes(_ context.Context) ([]packages.Type, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	types := []packages.Type{}
	for _, p := range m.db.packages {
		types = append(types, p.Type)
	}
	return types, nil
}

func (m memSchedules) Activate(_ context.Context, s *commission.Schedule) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for i := range m.db.schedules {
		if m.db.schedules[i].ProviderID == s.ProviderID && s.EffectiveFrom.Before(m.db.schedules[i].EffectiveFrom) {
			return commission.ErrInvalidCommissionAmount
		}
	}
	for i := range m.db.schedules {
		if m.db.schedules[i].ProviderID == s.ProviderID {
			m.db.schedules[i].IsActive = false
		}
	}
	s.ID = int64(len(m.db.schedules) + 1)
	s.IsActive = true
	m.db.schedules = append(m.db.schedules, *s)
	return nil
}

func (m memSchedules) Current(ctx context.Context, providerID int64, at time.Time) (*commission.Schedule, error) {
	versions, _ := m.Versions(ctx, providerID)
	if s := versions.At(at); s != nil {
		return s, nil
	}
	return nil, commission.ErrNoScheduleConfigured
}

func (m memSchedules) Versions(_ context.Context, providerID int64) (commission.Versions, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := commission.Versions{}
	for _, s := range m.db.schedules {
		if s.ProviderID == providerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EffectiveFrom.Equal(out[j].EffectiveFrom) {
			return out[i].EffectiveFrom.After(out[j].EffectiveFrom)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m memSchedules) ListInForce(ctx context.Context, at time.Time) ([]commission.Schedule, error) {
	m.db.mu.Lock()
	seen := map[int64]bool{}
	var providers []int64
	for _, s := range m.db.schedules {
		if !seen[s.ProviderID] {
			seen[s.ProviderID] = true
			providers = append(providers, s.ProviderID)
		}
	}
	m.db.mu.Unlock()

	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	out := []commission.Schedule{}
	for _, id := range providers {
		if s, err := m.Current(ctx, id, at); err == nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m memHistory) Insert(_ context.Context, e *commission.HistoryEntry) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, h := range m.db.history {
		if h.UnitKey == e.UnitKey {
			return false, nil
		}
	}
	e.ID = int64(len(m.db.history) + 1)
	m.db.history = append(m.db.history, *e)
	return true, nil
}

func (m memHistory) GetByUnitKey(_ context.Context, unitKey string) (*commission.HistoryEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, h := range m.db.history {
		if h.UnitKey == unitKey {
			h := h
			return &h, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m memHistory) filter(keep func(commission.HistoryEntry) bool) []commission.HistoryEntry {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	out := []commission.HistoryEntry{}
	for _, h := range m.db.history {
		if keep(h) {
			out = append(out, h)
		}
	}
	return out
}

func (m memHistory) ListByProvider(_ context.Context, providerID int64) ([]commission.HistoryEntry, error) {
	return m.filter(func(h commission.HistoryEntry) bool { return h.ProviderID == providerID }), nil
}

func (m memHistory) ListCompletedBetween(_ context.Context, providerID *int64, from, to time.Time) ([]commission.HistoryEntry, error) {
	return m.filter(func(h commission.HistoryEntry) bool {
		return (providerID == nil || h.ProviderID == *providerID) && !h.CompletedAt.Before(from) && h.CompletedAt.Before(to)
	}), nil
}

func (m memHistory) ListByPayout(_ context.Context, payoutID int64) ([]commission.HistoryEntry, error) {
	return m.filter(func(h commission.HistoryEntry) bool { return h.PayoutID != nil && *h.PayoutID == payoutID }), nil
}

func (m memHistory) SumCommission(_ context.Context, providerID *int64) (int64, error) {
	var total int64
	for _, h := range m.filter(func(h commission.HistoryEntry) bool { return providerID == nil || h.ProviderID == *providerID }) {
		total += h.CommissionCents
	}
	return total, nil
}

func (m memHistory) Totals(_ context.Context, _ *int64) ([]commission.ProviderTotals, error) {
	return []commission.ProviderTotals{}, nil
}

// Settle mirrors the SQL transaction: the whole call holds the lock, so it is
// linearizable like the row locks in Postgres.
func (m memPayouts) Settle(_ context.Context, req SettleParams) (*Payout, []commission.HistoryEntry, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	var idx []int
	var entries []commission.HistoryEntry
	for i, h := range m.db.history {
		if h.ProviderID != req.ProviderID || !h.IsPending() {
			continue
		}
		if req.From != nil && h.PaymentCapturedAt.Before(*req.From) {
			continue
		}
		if req.To != nil && !h.PaymentCapturedAt.Before(*req.To) {
			continue
		}
		idx = append(idx, i)
		entries = append(entries, h)
	}
	if len(entries) == 0 {
		return nil, nil, ErrNothingPendingToSettle
	}

	totals := SumEntries(entries)
	if req.Expected != nil && !matches(*req.Expected, totals) {
		return nil, nil, ErrConcurrentSettlementConflict
	}

	p := Payout{
		ID:                   int64(len(m.db.payouts) + 1),
		Reference:            req.Reference,
		ProviderID:           req.ProviderID,
		PayoutDate:           req.PayoutDate,
		GrossCents:           totals.GrossCents,
		TotalCommissionCents: totals.CommissionCents,
		NetPayoutCents:       totals.ProviderCents,
		EntryCount:           totals.EntryCount,
		Status:               StatusPaid,
		PaymentMethod:        req.PaymentMethod,
	}
	m.db.payouts = append(m.db.payouts, p)
	for _, i := range idx {
		m.db.history[i].PaymentStatus = commission.PaymentPaid
		m.db.history[i].PayoutID = &p.ID
	}
	return &p, entries, nil
}

func (m memPayouts) GetByID(_ context.Context, id int64) (*Payout, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, p := range m.db.payouts {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, ErrPayoutNotFound
}

func (m memPayouts) List(_ context.Context, _ *int64) ([]Payout, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return append([]Payout{}, m.db.payouts...), nil
}
