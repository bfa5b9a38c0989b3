package packages

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Package, error)
	ListByIDs(ctx context.Context, ids []int64) (map[int64]Package, error)
	ListTypes(ctx context.Context) ([]Type, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Package, error) {
	query := `
		SELECT id, name, package_type, session_count, total_price_cents, is_active, created_at
		FROM packages
		WHERE id = $1
	`

	var p Package
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListByIDs(ctx context.Context, ids []int64) (map[int64]Package, error) {
	result := make(map[int64]Package, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT id, name, package_type, session_count, total_price_cents, is_active, created_at
		FROM packages
		WHERE id = ANY($1)
	`

	var list []Package
	if err := r.db.SelectContext(ctx, &list, query, pq.Array(ids)); err != nil {
		return nil, err
	}
	for _, p := range list {
		result[p.ID] = p
	}
	return result, nil
}

func (r *repository) ListTypes(ctx context.Context) ([]Type, error) {
	types := []Type{}
	err := r.db.SelectContext(ctx, &types, `SELECT DISTINCT package_type FROM packages ORDER BY package_type`)
	return types, err
}
