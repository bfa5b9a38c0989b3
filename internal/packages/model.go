package packages

import (
	"fmt"
	"time"
)

// Type identifies a package template family, e.g. "3_sessions". It is the key
// commission schedules price packages by.
type Type string

type Package struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Type            Type      `db:"package_type" json:"package_type"`
	SessionCount    int       `db:"session_count" json:"session_count"`
	TotalPriceCents int64     `db:"total_price_cents" json:"total_price_cents"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// InstanceKey identifies one purchased package: a template bought by a client
// from a provider.
type InstanceKey struct {
	PackageID  int64 `json:"package_id"`
	ProviderID int64 `json:"provider_id"`
	ClientID   int64 `json:"client_id"`
}

func (k InstanceKey) String() string {
	return fmt.Sprintf("package:%d:%d:%d", k.PackageID, k.ProviderID, k.ClientID)
}

type Progress struct {
	Key       InstanceKey `json:"key"`
	Package   Package     `json:"package"`
	Completed int         `json:"completed"`
	Total     int         `json:"total"`
}

func (p Progress) IsComplete() bool {
	return p.Total > 0 && p.Completed >= p.Total
}
