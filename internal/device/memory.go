package device

import (
	"context"
	"fmt"
	"sync"

	"gridcert.org/internal/auth"
)

// InMemory is a map-backed Store used by tests and by the server when
// no database is configured.
type InMemory struct {
	mu      sync.RWMutex
	devices map[string]*Device
}

func NewInMemory() *InMemory {
	return &InMemory{devices: make(map[string]*Device)}
}

func (m *InMemory) Create(ctx context.Context, d *Device) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.devices[d.ID]; ok {
		return fmt.Errorf("device: %w: id %s", auth.ErrConflict, d.ID)
	}
	m.devices[d.ID] = cloneDevice(d)
	return nil
}

func (m *InMemory) Find(ctx context.Context, id string) (*Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.devices[id]
	if !ok {
		return nil, fmt.Errorf("device: %w: id %s", auth.ErrNotFound, id)
	}
	return cloneDevice(d), nil
}

func (m *InMemory) ListByOrg(ctx context.Context, orgID string) ([]*Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Device, 0)
	for _, d := range m.devices {
		if d.OrganizationID == orgID {
			out = append(out, cloneDevice(d))
		}
	}
	return out, nil
}

// Len reports the number of stored devices. Test helper.
func (m *InMemory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.devices)
}

func cloneDevice(d *Device) *Device {
	cp := *d
	if d.ExternalDeviceIDs != nil {
		cp.ExternalDeviceIDs = append([]ExternalDeviceID(nil), d.ExternalDeviceIDs...)
	}
	return &cp
}
