package dashboard

import (
	"time"

	"mindpay/internal/session"
)

// Stats is the admin finance overview. Revenue and session counts follow the
// scheduled date. Company commission and completed payout follow the
// completion date. Pending payout and lifetime commission ignore the period.
type Stats struct {
	ProviderID                     *int64               `json:"provider_id,omitempty"`
	From                           time.Time            `json:"from"`
	To                             time.Time            `json:"to"`
	TotalRevenueCents              int64                `json:"total_revenue_cents"`
	TotalCompanyCommissionCents    int64                `json:"total_company_commission_cents"`
	LifetimeCompanyCommissionCents int64                `json:"lifetime_company_commission_cents"`
	PendingPayoutCents             int64                `json:"pending_payout_cents"`
	CompletedPayoutCents           int64                `json:"completed_payout_cents"`
	SessionCount                   int                  `json:"session_count"`
	SessionCounts                  session.StatusCounts `json:"session_counts"`
	Approximate                    bool                 `json:"approximate"`
}
