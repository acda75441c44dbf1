package organization

import (
	"context"
	"sync"
	"time"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/ids"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store with in-process concurrency safety. Used by
// API tests and when the service runs without a database.
type InMemory struct {
	mu   sync.RWMutex
	orgs map[string]*Organization
}

func NewInMemory() *InMemory {
	return &InMemory{orgs: make(map[string]*Organization)}
}

func (s *InMemory) Create(ctx context.Context, org *Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if org.ID == "" {
		org.ID = ids.New()
	}
	if org.Status == "" {
		org.Status = StatusPending
	}
	now := time.Now().UTC()
	org.CreatedAt = now
	org.UpdatedAt = now
	cp := *org
	s.orgs[org.ID] = &cp
	return nil
}

func (s *InMemory) Find(ctx context.Context, id string) (*Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	org, ok := s.orgs[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	cp := *org
	return &cp, nil
}
