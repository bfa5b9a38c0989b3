package commission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"mindpay/internal/api"
	"mindpay/internal/logger"
	"mindpay/internal/metrics"
	"mindpay/internal/packages"
)

var validate = validator.New()

type UpdateScheduleInput struct {
	ProviderID                  int64     `json:"-" validate:"gt=0"`
	EffectiveFrom               time.Time `json:"effective_from"`
	IndividualCents             int64     `json:"individual_cents" validate:"gte=0"`
	PackageCents                Amounts   `json:"package_cents" validate:"dive,gte=0"`
	FirstSessionIndividualCents *int64    `json:"first_session_individual_cents" validate:"omitempty,gte=0"`
	FollowupIndividualCents     *int64    `json:"followup_individual_cents" validate:"omitempty,gte=0"`
	FirstSessionPackageCents    Amounts   `json:"first_session_package_cents" validate:"dive,gte=0"`
	FollowupPackageCents        Amounts   `json:"followup_package_cents" validate:"dive,gte=0"`
	CreatedBy                   *int64    `json:"-"`
}

// ProviderOverview is what the commissions screen shows per provider.
type ProviderOverview struct {
	ProviderID int64          `json:"provider_id"`
	Schedule   *Schedule      `json:"schedule"`
	Totals     ProviderTotals `json:"totals"`
}

type Service interface {
	Update(ctx context.Context, in UpdateScheduleInput) (*Schedule, error)
	Current(ctx context.Context, providerID int64) (*Schedule, error)
	Versions(ctx context.Context, providerID int64) (Versions, error)
	Overview(ctx context.Context, providerID *int64) ([]ProviderOverview, error)
}

type service struct {
	schedules ScheduleRepository
	history   HistoryRepository
	packages  packages.Repository
	now       func() time.Time
}

func NewService(schedules ScheduleRepository, history HistoryRepository, pkgs packages.Repository) Service {
	return &service{
		schedules: schedules,
		history:   history,
		packages:  pkgs,
		now:       time.Now,
	}
}

// Update validates the new configuration and activates it as a new version.
// Nothing is written when validation fails.
func (s *service) Update(ctx context.Context, in UpdateScheduleInput) (*Schedule, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCommissionAmount, api.DescribeValidation(err))
	}

	if err := s.checkPackageTypes(ctx, in); err != nil {
		return nil, err
	}

	effectiveFrom := in.EffectiveFrom
	if effectiveFrom.IsZero() {
		effectiveFrom = s.now()
	}

	versions, err := s.schedules.Versions(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	if len(versions) > 0 {
		if err := checkNotBackdated(effectiveFrom, versions[0].EffectiveFrom); err != nil {
			return nil, err
		}
	}

	schedule := &Schedule{
		ProviderID:                  in.ProviderID,
		EffectiveFrom:               effectiveFrom.UTC(),
		IndividualCents:             in.IndividualCents,
		PackageCents:                nonNil(in.PackageCents),
		FirstSessionIndividualCents: in.FirstSessionIndividualCents,
		FollowupIndividualCents:     in.FollowupIndividualCents,
		FirstSessionPackageCents:    nonNil(in.FirstSessionPackageCents),
		FollowupPackageCents:        nonNil(in.FollowupPackageCents),
		CreatedBy:                   in.CreatedBy,
	}

	if err := s.schedules.Activate(ctx, schedule); err != nil {
		return nil, fmt.Errorf("activate schedule for provider %d: %w", in.ProviderID, err)
	}

	metrics.RecordScheduleUpdate()
	logger.Info("commission schedule activated",
		"provider_id", schedule.ProviderID,
		"schedule_id", schedule.ID,
		"effective_from", schedule.EffectiveFrom,
	)

	return schedule, nil
}

func (s *service) checkPackageTypes(ctx context.Context, in UpdateScheduleInput) error {
	if len(in.PackageCents)+len(in.FirstSessionPackageCents)+len(in.FollowupPackageCents) == 0 {
		return nil
	}

	types, err := s.packages.ListTypes(ctx)
	if err != nil {
		return err
	}
	known := make(map[packages.Type]bool, len(types))
	for _, t := range types {
		known[t] = true
	}

	for _, m := range []Amounts{in.PackageCents, in.FirstSessionPackageCents, in.FollowupPackageCents} {
		for t := range m {
			if !known[t] {
				return fmt.Errorf("%w: unknown package type %q", ErrInvalidCommissionAmount, t)
			}
		}
	}
	return nil
}

func (s *service) Current(ctx context.Context, providerID int64) (*Schedule, error) {
	return s.schedules.Current(ctx, providerID, s.now())
}

func (s *service) Versions(ctx context.Context, providerID int64) (Versions, error) {
	return s.schedules.Versions(ctx, providerID)
}

// Overview lists every provider with a schedule in force now or finalized
// history, or only providerID when set. Both paths show the version in
// force now, never a future-dated one.
func (s *service) Overview(ctx context.Context, providerID *int64) ([]ProviderOverview, error) {
	totals, err := s.history.Totals(ctx, providerID)
	if err != nil {
		return nil, err
	}

	byProvider := make(map[int64]*ProviderOverview)
	var order []int64
	get := func(id int64) *ProviderOverview {
		if o, ok := byProvider[id]; ok {
			return o
		}
		o := &ProviderOverview{ProviderID: id, Totals: ProviderTotals{ProviderID: id}}
		byProvider[id] = o
		order = append(order, id)
		return o
	}

	if providerID != nil {
		o := get(*providerID)
		current, err := s.Current(ctx, *providerID)
		if err != nil && !errors.Is(err, ErrNoScheduleConfigured) {
			return nil, err
		}
		o.Schedule = current
	} else {
		inForce, err := s.schedules.ListInForce(ctx, s.now())
		if err != nil {
			return nil, err
		}
		for i := range inForce {
			get(inForce[i].ProviderID).Schedule = &inForce[i]
		}
	}

	for _, t := range totals {
		get(t.ProviderID).Totals = t
	}

	result := make([]ProviderOverview, 0, len(order))
	for _, id := range order {
		result = append(result, *byProvider[id])
	}
	return result, nil
}

func nonNil(a Amounts) Amounts {
	if a == nil {
		return Amounts{}
	}
	return a
}
