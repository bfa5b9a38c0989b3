package session

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const sessionColumns = `id, provider_id, client_id, package_id, price_cents, status, scheduled_at, payment_captured_at, completed_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	var s Session
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) ListPaidByProvider(ctx context.Context, providerID int64) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE provider_id = $1 AND payment_captured_at IS NOT NULL
		ORDER BY payment_captured_at, created_at, id`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, providerID); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListScheduledBetween returns sessions whose scheduled date falls in [from, to)
// regardless of status. A nil providerID spans all providers.
func (r *repository) ListScheduledBetween(ctx context.Context, providerID *int64, from, to time.Time) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE scheduled_at >= $1 AND scheduled_at < $2
		AND ($3::bigint IS NULL OR provider_id = $3)
		ORDER BY scheduled_at, id`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, from, to, providerID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListForPackage(ctx context.Context, packageID, providerID, clientID int64) ([]Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE package_id = $1 AND provider_id = $2 AND client_id = $3
		ORDER BY payment_captured_at NULLS LAST, created_at, id`

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, packageID, providerID, clientID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) CountCompletedForPackage(ctx context.Context, packageID, providerID, clientID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM sessions
		WHERE package_id = $1 AND provider_id = $2 AND client_id = $3 AND status = 'completed'
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, packageID, providerID, clientID); err != nil {
		return 0, err
	}
	return count, nil
}

type firstSessionRow struct {
	ClientID  int64 `db:"client_id"`
	SessionID int64 `db:"id"`
}

// FirstSessionIDs maps each client to its first paid session across all
// providers: earliest payment capture, then earliest creation, then lowest id.
func (r *repository) FirstSessionIDs(ctx context.Context, clientIDs []int64) (map[int64]int64, error) {
	ids := make(map[int64]int64, len(clientIDs))
	if len(clientIDs) == 0 {
		return ids, nil
	}

	query := `
		SELECT DISTINCT ON (client_id) client_id, id
		FROM sessions
		WHERE client_id = ANY($1) AND payment_captured_at IS NOT NULL
		ORDER BY client_id, payment_captured_at, created_at, id
	`

	var rows []firstSessionRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(clientIDs)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		ids[row.ClientID] = row.SessionID
	}
	return ids, nil
}

func (r *repository) ListProviderIDs(ctx context.Context) ([]int64, error) {
	query := `SELECT DISTINCT provider_id FROM sessions WHERE payment_captured_at IS NOT NULL ORDER BY provider_id`

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, err
	}
	return ids, nil
}
