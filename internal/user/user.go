package user

import (
	"context"
	"time"
)

// Account statuses. A freshly registered user is pending until an admin
// activates the account; activation is independent of KYC verification.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusDeleted   = "deleted"
)

// KYC verification states.
const (
	KYCPending  = "pending"
	KYCPassed   = "passed"
	KYCRejected = "rejected"
)

// User is a marketplace account. PasswordHash never leaves the service:
// it is excluded from JSON and cleared from API responses by tag.
type User struct {
	ID             string    `json:"id"`
	Title          string    `json:"title,omitempty"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Telephone      string    `json:"telephone"`
	PasswordHash   string    `json:"-"`
	Roles          []string  `json:"roles"`
	Status         string    `json:"status"`
	KYCStatus      string    `json:"kycStatus"`
	OrganizationID string    `json:"organizationId,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsActive reports whether the account has been activated.
func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}

// Store describes persistence for user accounts.
type Store interface {
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListByOrg(ctx context.Context, orgID string) ([]*User, error)
	Update(ctx context.Context, u *User) error
}
