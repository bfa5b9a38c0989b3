package payout

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mindpay/internal/commission"
)

// SettleParams is what the repository needs to settle in one transaction.
// From/To scope the pending rows by payment capture date when set.
type SettleParams struct {
	ProviderID    int64
	From          *time.Time
	To            *time.Time
	PaymentMethod string
	BankDetails   BankDetails
	Reference     uuid.UUID
	ProcessedBy   *int64
	Expected      *Totals
	PayoutDate    time.Time
}

type Repository interface {
	Settle(ctx context.Context, req SettleParams) (*Payout, []commission.HistoryEntry, error)
	GetByID(ctx context.Context, id int64) (*Payout, error)
	List(ctx context.Context, providerID *int64) ([]Payout, error)
}
