package commission

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

const historyColumns = `id, unit_key, session_id, package_id, client_id, provider_id, gross_cents,
	commission_cents, provider_cents, payment_status, payout_id, schedule_id,
	payment_captured_at, completed_at, created_at`

type historyRepository struct {
	db *sqlx.DB
}

func NewHistoryRepository(db *sqlx.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Insert writes e once per unit key. It reports false, leaving e untouched,
// when the unit was already finalized.
func (r *historyRepository) Insert(ctx context.Context, e *HistoryEntry) (bool, error) {
	if e.PaymentStatus == "" {
		e.PaymentStatus = PaymentPending
	}

	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO commission_history (
			unit_key, session_id, package_id, client_id, provider_id, gross_cents,
			commission_cents, provider_cents, payment_status, schedule_id,
			payment_captured_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 ON CONFLICT (unit_key) DO NOTHING
		 RETURNING id, created_at`,
		e.UnitKey, e.SessionID, e.PackageID, e.ClientID, e.ProviderID, e.GrossCents,
		e.CommissionCents, e.ProviderCents, e.PaymentStatus, e.ScheduleID,
		e.PaymentCapturedAt, e.CompletedAt,
	).Scan(&e.ID, &e.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *historyRepository) GetByUnitKey(ctx context.Context, unitKey string) (*HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM commission_history WHERE unit_key = $1`

	var e HistoryEntry
	if err := r.db.GetContext(ctx, &e, query, unitKey); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *historyRepository) ListByProvider(ctx context.Context, providerID int64) ([]HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM commission_history
		WHERE provider_id = $1
		ORDER BY completed_at, id`

	entries := []HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, providerID); err != nil {
		return nil, err
	}
	return entries, nil
}

// ListCompletedBetween returns entries whose completion falls in [from, to),
// paid or not. A nil providerID spans all providers.
func (r *historyRepository) ListCompletedBetween(ctx context.Context, providerID *int64, from, to time.Time) ([]HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM commission_history
		WHERE completed_at >= $1 AND completed_at < $2
		AND ($3::bigint IS NULL OR provider_id = $3)
		ORDER BY completed_at, id`

	entries := []HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, from, to, providerID); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *historyRepository) ListByPayout(ctx context.Context, payoutID int64) ([]HistoryEntry, error) {
	query := `SELECT ` + historyColumns + ` FROM commission_history
		WHERE payout_id = $1
		ORDER BY completed_at, id`

	entries := []HistoryEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, payoutID); err != nil {
		return nil, err
	}
	return entries, nil
}

// SumCommission totals platform commission over finalized history.
func (r *historyRepository) SumCommission(ctx context.Context, providerID *int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(commission_cents), 0)
		FROM commission_history
		WHERE ($1::bigint IS NULL OR provider_id = $1)
	`

	var total int64
	if err := r.db.GetContext(ctx, &total, query, providerID); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *historyRepository) Totals(ctx context.Context, providerID *int64) ([]ProviderTotals, error) {
	query := `
		SELECT provider_id,
			COUNT(*) FILTER (WHERE session_id IS NOT NULL) AS individual_count,
			COUNT(*) FILTER (WHERE package_id IS NOT NULL) AS package_count,
			COALESCE(SUM(gross_cents), 0) AS total_revenue_cents,
			COALESCE(SUM(commission_cents), 0) AS total_commission_cents,
			COALESCE(SUM(provider_cents), 0) AS total_wallet_cents
		FROM commission_history
		WHERE ($1::bigint IS NULL OR provider_id = $1)
		GROUP BY provider_id
		ORDER BY provider_id
	`

	totals := []ProviderTotals{}
	if err := r.db.SelectContext(ctx, &totals, query, providerID); err != nil {
		return nil, err
	}
	return totals, nil
}
