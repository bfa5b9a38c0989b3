package session

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Session, error)
	ListPaidByProvider(ctx context.Context, providerID int64) ([]Session, error)
	ListScheduledBetween(ctx context.Context, providerID *int64, from, to time.Time) ([]Session, error)
	ListForPackage(ctx context.Context, packageID, providerID, clientID int64) ([]Session, error)
	CountCompletedForPackage(ctx context.Context, packageID, providerID, clientID int64) (int, error)
	FirstSessionIDs(ctx context.Context, clientIDs []int64) (map[int64]int64, error)
	ListProviderIDs(ctx context.Context) ([]int64, error)
}
