package payout

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"mindpay/internal/commission"
	"mindpay/internal/db"
)

const payoutColumns = `id, reference, provider_id, payout_date, period_from, period_to, gross_cents,
	total_commission_cents, net_payout_cents, entry_count, status, payment_method, bank_details,
	processed_by, created_at`

const pendingHistoryQuery = `
	SELECT id, unit_key, session_id, package_id, client_id, provider_id, gross_cents,
		commission_cents, provider_cents, payment_status, payout_id, schedule_id,
		payment_captured_at, completed_at, created_at
	FROM commission_history
	WHERE provider_id = $1 AND payment_status = 'pending'
	AND ($2::timestamptz IS NULL OR payment_captured_at >= $2)
	AND ($3::timestamptz IS NULL OR payment_captured_at < $3)
	ORDER BY id
	FOR UPDATE`

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func settlementLockKey(providerID int64) string {
	return fmt.Sprintf("payout_settlement:%d", providerID)
}

// Settle consumes the provider's pending history rows into one payout. The
// rows are locked for the duration of the transaction and the final update
// is conditioned on payment_status = 'pending', so two racing settlements
// can never both pay the same row.
func (r *repository) Settle(ctx context.Context, req SettleParams) (*Payout, []commission.HistoryEntry, error) {
	var (
		p       *Payout
		entries []commission.HistoryEntry
	)

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := db.LockKey(ctx, tx, settlementLockKey(req.ProviderID)); err != nil {
			return err
		}

		entries = []commission.HistoryEntry{}
		if err := tx.SelectContext(ctx, &entries, pendingHistoryQuery, req.ProviderID, req.From, req.To); err != nil {
			return fmt.Errorf("select pending history: %w", err)
		}
		if len(entries) == 0 {
			return ErrNothingPendingToSettle
		}

		totals := SumEntries(entries)
		if req.Expected != nil && !matches(*req.Expected, totals) {
			return fmt.Errorf("%w: expected net %d commission %d, found net %d commission %d",
				ErrConcurrentSettlementConflict,
				req.Expected.ProviderCents, req.Expected.CommissionCents,
				totals.ProviderCents, totals.CommissionCents)
		}

		p = &Payout{
			Reference:            req.Reference,
			ProviderID:           req.ProviderID,
			PayoutDate:           req.PayoutDate,
			PeriodFrom:           req.From,
			PeriodTo:             req.To,
			GrossCents:           totals.GrossCents,
			TotalCommissionCents: totals.CommissionCents,
			NetPayoutCents:       totals.ProviderCents,
			EntryCount:           totals.EntryCount,
			Status:               StatusPaid,
			PaymentMethod:        req.PaymentMethod,
			BankDetails:          req.BankDetails,
			ProcessedBy:          req.ProcessedBy,
		}

		err := tx.QueryRowxContext(ctx,
			`INSERT INTO payouts (
				reference, provider_id, payout_date, period_from, period_to, gross_cents,
				total_commission_cents, net_payout_cents, entry_count, status, payment_method,
				bank_details, processed_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			 RETURNING id, created_at`,
			p.Reference, p.ProviderID, p.PayoutDate, p.PeriodFrom, p.PeriodTo, p.GrossCents,
			p.TotalCommissionCents, p.NetPayoutCents, p.EntryCount, p.Status, p.PaymentMethod,
			p.BankDetails, p.ProcessedBy,
		).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
				return ErrDuplicateReference
			}
			return fmt.Errorf("insert payout: %w", err)
		}

		ids := make([]int64, len(entries))
		for i, e := range entries {
			ids[i] = e.ID
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE commission_history
			 SET payment_status = 'paid', payout_id = $1
			 WHERE id = ANY($2) AND payment_status = 'pending'`,
			p.ID, pq.Array(ids),
		)
		if err != nil {
			return fmt.Errorf("mark history paid: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected != int64(len(ids)) {
			return fmt.Errorf("%w: marked %d of %d rows", ErrConcurrentSettlementConflict, affected, len(ids))
		}

		for i := range entries {
			entries[i].PaymentStatus = commission.PaymentPaid
			entries[i].PayoutID = &p.ID
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return p, entries, nil
}

func matches(expected, actual Totals) bool {
	return expected.ProviderCents == actual.ProviderCents && expected.CommissionCents == actual.CommissionCents
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`

	var p Payout
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPayoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) List(ctx context.Context, providerID *int64) ([]Payout, error) {
	query := `SELECT ` + payoutColumns + ` FROM payouts
		WHERE ($1::bigint IS NULL OR provider_id = $1)
		ORDER BY payout_date DESC, id DESC`

	payouts := []Payout{}
	if err := r.db.SelectContext(ctx, &payouts, query, providerID); err != nil {
		return nil, err
	}
	return payouts, nil
}
