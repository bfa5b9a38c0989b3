package packages

import (
	"context"
	"errors"
	"fmt"
)

// ErrPackageIncomplete marks a package whose sessions have not all completed.
// It is a state, not a failure: finalization simply waits.
var ErrPackageIncomplete = errors.New("package incomplete")

type completionCounter interface {
	CountCompletedForPackage(ctx context.Context, packageID, providerID, clientID int64) (int, error)
}

type Tracker struct {
	packages Repository
	sessions completionCounter
}

func NewTracker(packages Repository, sessions completionCounter) *Tracker {
	return &Tracker{packages: packages, sessions: sessions}
}

func (t *Tracker) Progress(ctx context.Context, key InstanceKey) (Progress, error) {
	pkg, err := t.packages.GetByID(ctx, key.PackageID)
	if err != nil {
		return Progress{}, fmt.Errorf("load package %d: %w", key.PackageID, err)
	}

	completed, err := t.sessions.CountCompletedForPackage(ctx, key.PackageID, key.ProviderID, key.ClientID)
	if err != nil {
		return Progress{}, fmt.Errorf("count completed sessions for %s: %w", key, err)
	}

	return Progress{Key: key, Package: *pkg, Completed: completed, Total: pkg.SessionCount}, nil
}

// IsComplete reports whether every session of the package instance reached
// completed. Cancelled sessions never count, so an abandoned package stays
// incomplete.
func (t *Tracker) IsComplete(ctx context.Context, key InstanceKey) (bool, error) {
	p, err := t.Progress(ctx, key)
	if err != nil {
		return false, err
	}
	return p.IsComplete(), nil
}
