package payout

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mindpay/internal/commission"
	"mindpay/internal/metrics"
	"mindpay/internal/packages"
	"mindpay/internal/period"
	"mindpay/internal/session"
)

// Aggregator exposes the three date predicates as separate reads:
//
//	Pending   - outstanding balance, independent of the period
//	Completed - finalized units by completion date
//	Revenue   - sessions by scheduled date, any status
type Aggregator struct {
	sessions    session.Repository
	packages    packages.Repository
	schedules   commission.ScheduleRepository
	history     commission.HistoryRepository
	defaultRate decimal.Decimal
	now         func() time.Time
}

func NewAggregator(
	sessions session.Repository,
	pkgs packages.Repository,
	schedules commission.ScheduleRepository,
	history commission.HistoryRepository,
	defaultRate decimal.Decimal,
) *Aggregator {
	return &Aggregator{
		sessions:    sessions,
		packages:    pkgs,
		schedules:   schedules,
		history:     history,
		defaultRate: defaultRate,
		now:         time.Now,
	}
}

// Pending returns the provider's current unpaid balance: finalized rows not
// yet settled, plus estimates for paid units that are not finalized. A package
// instance contributes one estimate no matter how many of its sessions exist.
// The period only selects which sessions feed SessionCounts.
func (a *Aggregator) Pending(ctx context.Context, providerID int64, p period.Period) (*Summary, error) {
	summary := &Summary{Mode: ModePending, ProviderID: &providerID, LineItems: []LineItem{}}

	entries, err := a.history.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	finalized := make(map[string]bool, len(entries))
	for _, e := range entries {
		finalized[e.UnitKey] = true
		if e.IsPending() {
			summary.add(historyLineItem(e))
		}
	}

	paid, err := a.sessions.ListPaidByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("list paid sessions: %w", err)
	}

	estimates, err := a.estimate(ctx, providerID, paid, finalized)
	if err != nil {
		return nil, err
	}
	for _, li := range estimates {
		summary.add(li)
	}

	scheduled, err := a.sessions.ListScheduledBetween(ctx, &providerID, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("list scheduled sessions: %w", err)
	}
	summary.SessionCounts = session.CountByStatus(scheduled)

	return summary, nil
}

func (a *Aggregator) estimate(ctx context.Context, providerID int64, paid []session.Session, finalized map[string]bool) ([]LineItem, error) {
	type packageGroup struct {
		key     packages.InstanceKey
		members []session.Session
	}

	var (
		individual []session.Session
		groups     []*packageGroup
		byKey      = make(map[packages.InstanceKey]*packageGroup)
		pkgIDs     []int64
		clients    []int64
		seenClient = make(map[int64]bool)
		seenPkg    = make(map[int64]bool)
	)

	for _, s := range paid {
		if s.IsPackage() {
			key := packages.InstanceKey{PackageID: *s.PackageID, ProviderID: s.ProviderID, ClientID: s.ClientID}
			if finalized[key.String()] {
				continue
			}
			g, ok := byKey[key]
			if !ok {
				g = &packageGroup{key: key}
				byKey[key] = g
				groups = append(groups, g)
			}
			g.members = append(g.members, s)
			if !seenPkg[key.PackageID] {
				seenPkg[key.PackageID] = true
				pkgIDs = append(pkgIDs, key.PackageID)
			}
		} else {
			if finalized[commission.SessionUnitKey(s.ID)] {
				continue
			}
			individual = append(individual, s)
		}
		if !seenClient[s.ClientID] {
			seenClient[s.ClientID] = true
			clients = append(clients, s.ClientID)
		}
	}

	if len(individual) == 0 && len(groups) == 0 {
		return nil, nil
	}

	versions, err := a.schedules.Versions(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("load schedules: %w", err)
	}
	current := versions.At(a.now())

	firsts, err := a.sessions.FirstSessionIDs(ctx, clients)
	if err != nil {
		return nil, fmt.Errorf("first sessions: %w", err)
	}

	templates, err := a.packages.ListByIDs(ctx, pkgIDs)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	items := make([]LineItem, 0, len(individual)+len(groups))

	for _, s := range individual {
		est, err := commission.EstimateSplit(commission.Individual(s.PriceCents), current, firsts[s.ClientID] == s.ID, a.defaultRate)
		if err != nil {
			return nil, err
		}
		sessionID := s.ID
		items = append(items, a.estimateLineItem(commission.SessionUnitKey(s.ID), commission.UnitIndividual, s.ClientID, est, func(li *LineItem) {
			li.SessionID = &sessionID
			li.SessionStatus = s.Status
			li.PaymentCapturedAt = s.PaymentCapturedAt
			li.CompletedAt = s.CompletedAt
		}))
	}

	for _, g := range groups {
		tpl, ok := templates[g.key.PackageID]
		if !ok {
			return nil, fmt.Errorf("package %d referenced by %s not found", g.key.PackageID, g.key)
		}

		isFirst := false
		var paidAt *time.Time
		for _, m := range g.members {
			if first, ok := firsts[m.ClientID]; ok && first == m.ID {
				isFirst = true
			}
			if m.PaymentCapturedAt != nil && (paidAt == nil || m.PaymentCapturedAt.Before(*paidAt)) {
				paidAt = m.PaymentCapturedAt
			}
		}

		est, err := commission.EstimateSplit(commission.PackageUnit(tpl.Type, tpl.TotalPriceCents), current, isFirst, a.defaultRate)
		if err != nil {
			return nil, err
		}
		packageID := g.key.PackageID
		items = append(items, a.estimateLineItem(g.key.String(), commission.UnitPackage, g.key.ClientID, est, func(li *LineItem) {
			li.PackageID = &packageID
			li.PaymentCapturedAt = paidAt
		}))
	}

	return items, nil
}

func (a *Aggregator) estimateLineItem(unitKey string, kind commission.UnitKind, clientID int64, est commission.Estimate, fill func(*LineItem)) LineItem {
	if est.Approximate {
		metrics.RecordDefaultRateEstimate()
	}
	li := LineItem{
		Source:          SourceEstimate,
		UnitKey:         unitKey,
		Kind:            kind,
		ClientID:        clientID,
		GrossCents:      est.GrossCents,
		CommissionCents: est.CommissionCents,
		ProviderCents:   est.ProviderCents,
		Approximate:     est.Approximate,
	}
	fill(&li)
	return li
}

// Completed returns finalized units whose completion falls in the period,
// whether already settled or not. A nil providerID spans all providers.
func (a *Aggregator) Completed(ctx context.Context, providerID *int64, p period.Period) (*Summary, error) {
	entries, err := a.history.ListCompletedBetween(ctx, providerID, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("list completed history: %w", err)
	}

	summary := &Summary{Mode: ModeCompleted, ProviderID: providerID, LineItems: []LineItem{}}
	for _, e := range entries {
		summary.add(historyLineItem(e))
	}
	return summary, nil
}

// Revenue sums the price of every session scheduled in the period, whatever
// its status or payment state.
func (a *Aggregator) Revenue(ctx context.Context, providerID *int64, p period.Period) (*RevenueSummary, error) {
	scheduled, err := a.sessions.ListScheduledBetween(ctx, providerID, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("list scheduled sessions: %w", err)
	}

	summary := &RevenueSummary{
		ProviderID:    providerID,
		SessionCount:  len(scheduled),
		SessionCounts: session.CountByStatus(scheduled),
	}
	for _, s := range scheduled {
		summary.TotalRevenueCents += s.PriceCents
	}
	return summary, nil
}

// PendingByProvider runs Pending for every provider with paid sessions and
// drops providers with nothing outstanding.
func (a *Aggregator) PendingByProvider(ctx context.Context, p period.Period) ([]Summary, error) {
	providerIDs, err := a.sessions.ListProviderIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	result := make([]Summary, 0, len(providerIDs))
	for _, id := range providerIDs {
		summary, err := a.Pending(ctx, id, p)
		if err != nil {
			return nil, fmt.Errorf("pending for provider %d: %w", id, err)
		}
		if len(summary.LineItems) == 0 {
			continue
		}
		result = append(result, *summary)
	}
	return result, nil
}
