package user

import (
	"context"
	"strings"
	"sync"
	"time"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/ids"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store with in-process concurrency safety. Used by
// API tests and when the service runs without a database.
type InMemory struct {
	mu      sync.RWMutex
	users   map[string]*User
	byEmail map[string]string
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:   make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

func (s *InMemory) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return auth.ErrConflict
	}
	if u.ID == "" {
		u.ID = ids.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := cloneUser(u)
	s.users[u.ID] = cp
	s.byEmail[email] = u.ID
	return nil
}

func (s *InMemory) Find(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return cloneUser(u), nil
}

func (s *InMemory) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return cloneUser(s.users[id]), nil
}

func (s *InMemory) ListByOrg(ctx context.Context, orgID string) ([]*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*User
	for _, u := range s.users {
		if u.OrganizationID == orgID {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (s *InMemory) Update(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.users[u.ID]
	if !ok {
		return auth.ErrNotFound
	}
	delete(s.byEmail, strings.ToLower(current.Email))
	u.UpdatedAt = time.Now().UTC()
	cp := cloneUser(u)
	s.users[u.ID] = cp
	s.byEmail[strings.ToLower(u.Email)] = u.ID
	return nil
}

// Len reports how many accounts exist. Test helper.
func (s *InMemory) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func cloneUser(u *User) *User {
	cp := *u
	if u.Roles != nil {
		cp.Roles = append([]string(nil), u.Roles...)
	}
	return &cp
}
