package commission

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Resolve splits unit.GrossCents between platform and provider using the
// given schedule. For the chosen unit kind a first-session override applies
// when isFirst, otherwise a follow-up override, otherwise the fixed commission.
// The provider amount is clamped to [0, gross] so the split always conserves
// the gross.
func Resolve(unit Unit, s *Schedule, isFirst bool) (Split, error) {
	if s == nil {
		return Split{}, ErrNoScheduleConfigured
	}
	if unit.GrossCents < 0 {
		return Split{}, fmt.Errorf("%w: negative gross %d", ErrInvalidCommissionAmount, unit.GrossCents)
	}

	var provider int64
	switch unit.Kind {
	case UnitIndividual:
		if v, ok := pickOverride(isFirst, s.FirstSessionIndividualCents, s.FollowupIndividualCents); ok {
			provider = v
		} else {
			provider = unit.GrossCents - s.IndividualCents
		}
	case UnitPackage:
		first := s.FirstSessionPackageCents.lookup(unit.PackageType)
		followup := s.FollowupPackageCents.lookup(unit.PackageType)
		if v, ok := pickOverride(isFirst, first, followup); ok {
			provider = v
		} else {
			fixed, ok := s.PackageCents[unit.PackageType]
			if !ok {
				return Split{}, fmt.Errorf("%w: package type %q not priced", ErrNoScheduleConfigured, unit.PackageType)
			}
			provider = unit.GrossCents - fixed
		}
	default:
		return Split{}, fmt.Errorf("unknown unit kind %d", unit.Kind)
	}

	provider = clamp(provider, 0, unit.GrossCents)
	return Split{
		GrossCents:      unit.GrossCents,
		CommissionCents: unit.GrossCents - provider,
		ProviderCents:   provider,
	}, nil
}

// EstimateSplit resolves like Resolve but substitutes the default platform rate
// when no schedule covers the unit. Estimates are for pending figures only.
func EstimateSplit(unit Unit, s *Schedule, isFirst bool, defaultRate decimal.Decimal) (Estimate, error) {
	split, err := Resolve(unit, s, isFirst)
	if err == nil {
		return Estimate{Split: split}, nil
	}
	if !errors.Is(err, ErrNoScheduleConfigured) {
		return Estimate{}, err
	}
	return Estimate{Split: DefaultSplit(unit.GrossCents, defaultRate), Approximate: true}, nil
}

// DefaultSplit applies rate to gross, rounding the commission half away from
// zero to a whole minor unit. The provider receives the remainder.
func DefaultSplit(grossCents int64, rate decimal.Decimal) Split {
	commission := decimal.NewFromInt(grossCents).Mul(rate).Round(0).IntPart()
	commission = clamp(commission, 0, grossCents)
	return Split{
		GrossCents:      grossCents,
		CommissionCents: commission,
		ProviderCents:   grossCents - commission,
	}
}

func pickOverride(isFirst bool, first, followup *int64) (int64, bool) {
	if isFirst && first != nil {
		return *first, true
	}
	if followup != nil {
		return *followup, true
	}
	return 0, false
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
