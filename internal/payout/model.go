package payout

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mindpay/internal/commission"
	"mindpay/internal/session"
)

var (
	ErrNothingPendingToSettle       = errors.New("nothing pending to settle")
	ErrConcurrentSettlementConflict = errors.New("concurrent settlement conflict")
	ErrDuplicateReference           = errors.New("payout reference already used")
	ErrPayoutNotFound               = errors.New("payout not found")
	ErrInvalidSettlement            = errors.New("invalid settlement request")
)

const (
	StatusPaid = "paid"

	MethodManual = "manual"
)

// BankDetails is opaque payment metadata (account, UPI id, cheque number)
// stored for audit and never interpreted.
type BankDetails json.RawMessage

func (b BankDetails) Value() (driver.Value, error) {
	if len(b) == 0 {
		return nil, nil
	}
	return string(b), nil
}

func (b *BankDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*b = nil
	case []byte:
		*b = append((*b)[:0], v...)
	case string:
		*b = BankDetails(v)
	default:
		return fmt.Errorf("payout: cannot scan %T into BankDetails", src)
	}
	return nil
}

func (b BankDetails) MarshalJSON() ([]byte, error) {
	if len(b) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(b).MarshalJSON()
}

func (b *BankDetails) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}
	*b = append((*b)[:0], data...)
	return nil
}

// Payout is written once per settlement and never updated.
type Payout struct {
	ID                   int64       `db:"id" json:"id"`
	Reference            uuid.UUID   `db:"reference" json:"reference"`
	ProviderID           int64       `db:"provider_id" json:"provider_id"`
	PayoutDate           time.Time   `db:"payout_date" json:"payout_date"`
	PeriodFrom           *time.Time  `db:"period_from" json:"period_from,omitempty"`
	PeriodTo             *time.Time  `db:"period_to" json:"period_to,omitempty"`
	GrossCents           int64       `db:"gross_cents" json:"gross_cents"`
	TotalCommissionCents int64       `db:"total_commission_cents" json:"total_commission_cents"`
	NetPayoutCents       int64       `db:"net_payout_cents" json:"net_payout_cents"`
	EntryCount           int         `db:"entry_count" json:"entry_count"`
	Status               string      `db:"status" json:"status"`
	PaymentMethod        string      `db:"payment_method" json:"payment_method"`
	BankDetails          BankDetails `db:"bank_details" json:"bank_details,omitempty" swaggertype:"object"`
	ProcessedBy          *int64      `db:"processed_by" json:"processed_by,omitempty"`
	CreatedAt            time.Time   `db:"created_at" json:"created_at"`
}

type Detail struct {
	Payout  Payout                    `json:"payout"`
	Entries []commission.HistoryEntry `json:"entries"`
}

type Totals struct {
	GrossCents      int64 `json:"gross_cents"`
	CommissionCents int64 `json:"commission_cents"`
	ProviderCents   int64 `json:"provider_cents"`
	EntryCount      int   `json:"entry_count"`
}

func (t *Totals) Add(s commission.Split) {
	t.GrossCents += s.GrossCents
	t.CommissionCents += s.CommissionCents
	t.ProviderCents += s.ProviderCents
	t.EntryCount++
}

func SumEntries(entries []commission.HistoryEntry) Totals {
	var t Totals
	for _, e := range entries {
		t.Add(e.Split())
	}
	return t
}

type Source string

const (
	SourceHistory  Source = "history"
	SourceEstimate Source = "estimate"
)

// LineItem is one unit in an aggregation: a finalized history row, or an
// estimate for a paid unit that has not been finalized yet.
type LineItem struct {
	Source            Source                   `json:"source"`
	UnitKey           string                   `json:"unit_key"`
	Kind              commission.UnitKind      `json:"kind" swaggertype:"string"`
	SessionID         *int64                   `json:"session_id,omitempty"`
	PackageID         *int64                   `json:"package_id,omitempty"`
	ClientID          int64                    `json:"client_id"`
	GrossCents        int64                    `json:"gross_cents"`
	CommissionCents   int64                    `json:"commission_cents"`
	ProviderCents     int64                    `json:"provider_cents"`
	Approximate       bool                     `json:"approximate"`
	PaymentStatus     commission.PaymentStatus `json:"payment_status,omitempty"`
	SessionStatus     session.Status           `json:"session_status,omitempty"`
	PaymentCapturedAt *time.Time               `json:"payment_captured_at,omitempty"`
	CompletedAt       *time.Time               `json:"completed_at,omitempty"`
}

func (li LineItem) Split() commission.Split {
	return commission.Split{GrossCents: li.GrossCents, CommissionCents: li.CommissionCents, ProviderCents: li.ProviderCents}
}

func historyLineItem(e commission.HistoryEntry) LineItem {
	kind := commission.UnitIndividual
	if e.PackageID != nil {
		kind = commission.UnitPackage
	}
	paidAt, completedAt := e.PaymentCapturedAt, e.CompletedAt
	return LineItem{
		Source:            SourceHistory,
		UnitKey:           e.UnitKey,
		Kind:              kind,
		SessionID:         e.SessionID,
		PackageID:         e.PackageID,
		ClientID:          e.ClientID,
		GrossCents:        e.GrossCents,
		CommissionCents:   e.CommissionCents,
		ProviderCents:     e.ProviderCents,
		PaymentStatus:     e.PaymentStatus,
		PaymentCapturedAt: &paidAt,
		CompletedAt:       &completedAt,
	}
}

type Mode string

const (
	ModePending   Mode = "pending"
	ModeCompleted Mode = "completed"
)

type Summary struct {
	Mode                 Mode                 `json:"mode"`
	ProviderID           *int64               `json:"provider_id,omitempty"`
	TotalGrossCents      int64                `json:"total_gross_cents"`
	TotalCommissionCents int64                `json:"total_commission_cents"`
	TotalProviderCents   int64                `json:"total_provider_cents"`
	Approximate          bool                 `json:"approximate"`
	LineItems            []LineItem           `json:"line_items"`
	SessionCounts        session.StatusCounts `json:"session_counts,omitempty"`
}

func (s *Summary) add(li LineItem) {
	s.LineItems = append(s.LineItems, li)
	s.TotalGrossCents += li.GrossCents
	s.TotalCommissionCents += li.CommissionCents
	s.TotalProviderCents += li.ProviderCents
	if li.Approximate {
		s.Approximate = true
	}
}

type RevenueSummary struct {
	ProviderID        *int64               `json:"provider_id,omitempty"`
	TotalRevenueCents int64                `json:"total_revenue_cents"`
	SessionCount      int                  `json:"session_count"`
	SessionCounts     session.StatusCounts `json:"session_counts"`
}
