package commission

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"mindpay/internal/db"
)

const scheduleColumns = `id, provider_id, effective_from, is_active, individual_cents, package_cents,
	first_session_individual_cents, followup_individual_cents, first_session_package_cents,
	followup_package_cents, created_by, created_at`

type scheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

func scheduleLockKey(providerID int64) string {
	return fmt.Sprintf("commission_schedule:%d", providerID)
}

// Activate appends s as the provider's new active version. The previous
// active row is deactivated in the same transaction, under a per-provider
// advisory lock, so there is never a moment with zero or two active rows.
// A version starting before the latest existing one is rejected.
func (r *scheduleRepository) Activate(ctx context.Context, s *Schedule) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := db.LockKey(ctx, tx, scheduleLockKey(s.ProviderID)); err != nil {
			return err
		}

		var latest sql.NullTime
		err := tx.QueryRowxContext(ctx,
			`SELECT MAX(effective_from) FROM commission_schedules WHERE provider_id = $1`,
			s.ProviderID,
		).Scan(&latest)
		if err != nil {
			return err
		}
		if latest.Valid {
			if err := checkNotBackdated(s.EffectiveFrom, latest.Time); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE commission_schedules SET is_active = FALSE WHERE provider_id = $1 AND is_active`,
			s.ProviderID,
		)
		if err != nil {
			return err
		}

		s.IsActive = true
		return tx.QueryRowxContext(ctx,
			`INSERT INTO commission_schedules (
				provider_id, effective_from, is_active, individual_cents, package_cents,
				first_session_individual_cents, followup_individual_cents,
				first_session_package_cents, followup_package_cents, created_by)
			 VALUES ($1, $2, TRUE, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id, created_at`,
			s.ProviderID, s.EffectiveFrom, s.IndividualCents, s.PackageCents,
			s.FirstSessionIndividualCents, s.FollowupIndividualCents,
			s.FirstSessionPackageCents, s.FollowupPackageCents, s.CreatedBy,
		).Scan(&s.ID, &s.CreatedAt)
	})
}

// Current returns the latest version effective at or before at.
func (r *scheduleRepository) Current(ctx context.Context, providerID int64, at time.Time) (*Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM commission_schedules
		WHERE provider_id = $1 AND effective_from <= $2
		ORDER BY effective_from DESC, id DESC
		LIMIT 1`

	var s Schedule
	err := r.db.GetContext(ctx, &s, query, providerID, at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoScheduleConfigured
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *scheduleRepository) Versions(ctx context.Context, providerID int64) (Versions, error) {
	query := `SELECT ` + scheduleColumns + ` FROM commission_schedules
		WHERE provider_id = $1
		ORDER BY effective_from DESC, id DESC`

	versions := Versions{}
	if err := r.db.SelectContext(ctx, &versions, query, providerID); err != nil {
		return nil, err
	}
	return versions, nil
}

// ListInForce returns, per provider, the version in force at at. It applies
// the same rule as Current so every screen agrees on a provider's schedule.
func (r *scheduleRepository) ListInForce(ctx context.Context, at time.Time) ([]Schedule, error) {
	query := `SELECT DISTINCT ON (provider_id) ` + scheduleColumns + ` FROM commission_schedules
		WHERE effective_from <= $1
		ORDER BY provider_id, effective_from DESC, id DESC`

	list := []Schedule{}
	if err := r.db.SelectContext(ctx, &list, query, at); err != nil {
		return nil, err
	}
	return list, nil
}
