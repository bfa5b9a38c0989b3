package commission

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mindpay/internal/packages"
)

// Amounts maps a package type to an amount in minor units. Stored as jsonb.
type Amounts map[packages.Type]int64

func (a Amounts) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (a *Amounts) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Amounts{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("commission: cannot scan %T into Amounts", src)
	}

	m := Amounts{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*a = m
	return nil
}

func (a Amounts) lookup(t packages.Type) *int64 {
	v, ok := a[t]
	if !ok {
		return nil
	}
	return &v
}

// Schedule is one immutable version of a provider's commission configuration.
// IndividualCents and PackageCents are platform commission amounts; the
// first-session and follow-up fields are provider amounts.
type Schedule struct {
	ID                          int64     `db:"id" json:"id"`
	ProviderID                  int64     `db:"provider_id" json:"provider_id"`
	EffectiveFrom               time.Time `db:"effective_from" json:"effective_from"`
	IsActive                    bool      `db:"is_active" json:"is_active"`
	IndividualCents             int64     `db:"individual_cents" json:"individual_cents"`
	PackageCents                Amounts   `db:"package_cents" json:"package_cents"`
	FirstSessionIndividualCents *int64    `db:"first_session_individual_cents" json:"first_session_individual_cents,omitempty"`
	FollowupIndividualCents     *int64    `db:"followup_individual_cents" json:"followup_individual_cents,omitempty"`
	FirstSessionPackageCents    Amounts   `db:"first_session_package_cents" json:"first_session_package_cents"`
	FollowupPackageCents        Amounts   `db:"followup_package_cents" json:"followup_package_cents"`
	CreatedBy                   *int64    `db:"created_by" json:"created_by,omitempty"`
	CreatedAt                   time.Time `db:"created_at" json:"created_at"`
}

// Versions holds a provider's schedule versions ordered newest first
// (effective_from desc, id desc).
type Versions []Schedule

// checkNotBackdated rejects a version that would start before the latest one.
// Resolution orders by effective_from, so such a version would be marked
// active yet never be in force.
func checkNotBackdated(effectiveFrom, latest time.Time) error {
	if effectiveFrom.Before(latest) {
		return fmt.Errorf("%w: effective_from %s is before the latest version (%s)",
			ErrInvalidCommissionAmount, effectiveFrom.Format(time.RFC3339), latest.Format(time.RFC3339))
	}
	return nil
}

// At returns the version in force at t, or nil when none was.
func (v Versions) At(t time.Time) *Schedule {
	for i := range v {
		if !v[i].EffectiveFrom.After(t) {
			return &v[i]
		}
	}
	return nil
}

type UnitKind int

const (
	UnitIndividual UnitKind = iota
	UnitPackage
)

func (k UnitKind) String() string {
	switch k {
	case UnitIndividual:
		return "individual"
	case UnitPackage:
		return "package"
	default:
		return "unknown"
	}
}

func (k UnitKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Unit is what a commission is resolved for: one individual session, or one
// package instance priced at its total contract price.
type Unit struct {
	Kind        UnitKind      `json:"kind"`
	PackageType packages.Type `json:"package_type,omitempty"`
	GrossCents  int64         `json:"gross_cents"`
}

func Individual(grossCents int64) Unit {
	return Unit{Kind: UnitIndividual, GrossCents: grossCents}
}

func PackageUnit(t packages.Type, totalCents int64) Unit {
	return Unit{Kind: UnitPackage, PackageType: t, GrossCents: totalCents}
}

type Split struct {
	GrossCents      int64 `json:"gross_cents"`
	CommissionCents int64 `json:"commission_cents"`
	ProviderCents   int64 `json:"provider_cents"`
}

type Estimate struct {
	Split
	// Approximate is set when the default rate stood in for a missing schedule.
	Approximate bool `json:"approximate"`
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// HistoryEntry is the finalized, immutable split for one unit. Only
// PaymentStatus and PayoutID change afterwards, during settlement.
type HistoryEntry struct {
	ID                int64         `db:"id" json:"id"`
	UnitKey           string        `db:"unit_key" json:"unit_key"`
	SessionID         *int64        `db:"session_id" json:"session_id,omitempty"`
	PackageID         *int64        `db:"package_id" json:"package_id,omitempty"`
	ClientID          int64         `db:"client_id" json:"client_id"`
	ProviderID        int64         `db:"provider_id" json:"provider_id"`
	GrossCents        int64         `db:"gross_cents" json:"gross_cents"`
	CommissionCents   int64         `db:"commission_cents" json:"commission_cents"`
	ProviderCents     int64         `db:"provider_cents" json:"provider_cents"`
	PaymentStatus     PaymentStatus `db:"payment_status" json:"payment_status"`
	PayoutID          *int64        `db:"payout_id" json:"payout_id,omitempty"`
	ScheduleID        *int64        `db:"schedule_id" json:"schedule_id,omitempty"`
	PaymentCapturedAt time.Time     `db:"payment_captured_at" json:"payment_captured_at"`
	CompletedAt       time.Time     `db:"completed_at" json:"completed_at"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
}

func (e HistoryEntry) Split() Split {
	return Split{GrossCents: e.GrossCents, CommissionCents: e.CommissionCents, ProviderCents: e.ProviderCents}
}

func (e HistoryEntry) IsPending() bool {
	return e.PaymentStatus == PaymentPending
}

// SessionUnitKey is the history key of an individual session.
func SessionUnitKey(sessionID int64) string {
	return fmt.Sprintf("session:%d", sessionID)
}

// ProviderTotals summarizes finalized history for one provider.
type ProviderTotals struct {
	ProviderID           int64 `db:"provider_id" json:"provider_id"`
	IndividualCount      int   `db:"individual_count" json:"individual_count"`
	PackageCount         int   `db:"package_count" json:"package_count"`
	TotalRevenueCents    int64 `db:"total_revenue_cents" json:"total_revenue_cents"`
	TotalCommissionCents int64 `db:"total_commission_cents" json:"total_commission_cents"`
	TotalWalletCents     int64 `db:"total_wallet_cents" json:"total_wallet_cents"`
}

var (
	ErrNoScheduleConfigured    = errors.New("no commission schedule configured")
	ErrInvalidCommissionAmount = errors.New("invalid commission amount")
	ErrSessionNotFinalizable   = errors.New("session cannot be finalized")
)
