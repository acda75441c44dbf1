package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/ids"
	"gridcert.org/internal/validate"
)

// RegistrationData is the self-service sign-up payload.
type RegistrationData struct {
	Title     string `json:"title"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Telephone string `json:"telephone" validate:"required"`
}

// Service wraps account business rules over a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates a new account. Field validation runs first and is
// returned wholesale; a duplicate email is a conflict and nothing is
// persisted. New accounts default to the organization-admin role with
// pending account and KYC status, and no organization until one is
// assigned separately.
func (s *Service) Register(ctx context.Context, data RegistrationData) (*User, error) {
	if verr := validate.Struct(data); verr != nil {
		return nil, verr
	}

	email := strings.TrimSpace(strings.ToLower(data.Email))
	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, auth.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", auth.ErrConflict)
	}

	hash, err := auth.HashPassword(data.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		ID:           ids.New(),
		Title:        strings.TrimSpace(data.Title),
		FirstName:    strings.TrimSpace(data.FirstName),
		LastName:     strings.TrimSpace(data.LastName),
		Email:        email,
		Telephone:    strings.TrimSpace(data.Telephone),
		PasswordHash: hash,
		Roles:        []string{auth.RoleOrganizationAdmin},
		Status:       StatusPending,
		KYCStatus:    KYCPending,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate validates email/password credentials. Both an unknown
// email and a wrong password surface as the same unauthorized error.
// A pending account may log in; activation only gates capabilities.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, auth.ErrUnauthorized
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}
	if err := auth.VerifyPassword(u.PasswordHash, password); err != nil {
		return nil, auth.ErrUnauthorized
	}
	return u, nil
}

// Find loads a user by id.
func (s *Service) Find(ctx context.Context, id string) (*User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: user id is required", auth.ErrInvalidInput)
	}
	return s.store.Find(ctx, id)
}

// Update persists changes to an existing account (organization
// assignment, status transitions). Not exposed over HTTP here.
func (s *Service) Update(ctx context.Context, u *User) error {
	return s.store.Update(ctx, u)
}
