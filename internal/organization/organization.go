package organization

import (
	"context"
	"time"
)

// Organization statuses. Membership in an active organization gates most
// marketplace capabilities; a pending organization is awaiting approval.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Organization is a marketplace participant: a company that registers
// devices and trades certificates.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the organization has been approved.
func (o *Organization) IsActive() bool {
	return o != nil && o.Status == StatusActive
}

// Store describes persistence for organizations. The authorization core
// only ever reads; mutation happens through admin tooling out of scope here.
type Store interface {
	Create(ctx context.Context, org *Organization) error
	Find(ctx context.Context, id string) (*Organization, error)
}
