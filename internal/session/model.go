package session

import "time"

type Status string

const (
	StatusBooked              Status = "booked"
	StatusCompleted           Status = "completed"
	StatusRescheduled         Status = "rescheduled"
	StatusRescheduleRequested Status = "reschedule_requested"
	StatusNoShow              Status = "no_show"
	StatusCancelled           Status = "cancelled"
)

// Statuses lists every session status in display order.
var Statuses = []Status{
	StatusBooked,
	StatusCompleted,
	StatusRescheduled,
	StatusRescheduleRequested,
	StatusNoShow,
	StatusCancelled,
}

type Session struct {
	ID                int64      `db:"id" json:"id"`
	ProviderID        int64      `db:"provider_id" json:"provider_id"`
	ClientID          int64      `db:"client_id" json:"client_id"`
	PackageID         *int64     `db:"package_id" json:"package_id,omitempty"`
	PriceCents        int64      `db:"price_cents" json:"price_cents"`
	Status            Status     `db:"status" json:"status"`
	ScheduledAt       time.Time  `db:"scheduled_at" json:"scheduled_at"`
	PaymentCapturedAt *time.Time `db:"payment_captured_at" json:"payment_captured_at,omitempty"`
	CompletedAt       *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// IsPaid reports whether the booking reached payment capture. Only paid
// sessions take part in commission accounting.
func (s Session) IsPaid() bool {
	return s.PaymentCapturedAt != nil
}

func (s Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

func (s Session) IsPackage() bool {
	return s.PackageID != nil
}

// StatusCounts maps each status to the number of sessions in it.
type StatusCounts map[Status]int

func CountByStatus(sessions []Session) StatusCounts {
	counts := make(StatusCounts, len(Statuses))
	for _, st := range Statuses {
		counts[st] = 0
	}
	for _, s := range sessions {
		counts[s.Status]++
	}
	return counts
}
