package device

import (
	"context"
	"fmt"
	"time"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/ids"
	"gridcert.org/internal/validate"
)

// Service owns device-group registration and lookup.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register validates the submission, builds the creation command and
// persists the resulting device record for the given organization.
func (s *Service) Register(ctx context.Context, organizationID string, sub GroupSubmission) (*Device, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("device: register: %w: organization id required", auth.ErrInvalidInput)
	}
	if verr := ValidateSubmission(sub); verr != nil {
		return nil, verr
	}

	now := time.Now().UTC()
	cmd, err := NewCreateCommand(sub, nil, now)
	if err != nil {
		return nil, fmt.Errorf("device: register: %w", err)
	}

	d := &Device{
		ID:                   ids.New(),
		OrganizationID:       organizationID,
		Status:               cmd.Status,
		DeviceType:           cmd.DeviceType,
		FacilityName:         cmd.FacilityName,
		CapacityInW:          cmd.CapacityInW,
		GPSLatitude:          cmd.GPSLatitude,
		GPSLongitude:         cmd.GPSLongitude,
		OperationalSince:     cmd.OperationalSince,
		Images:               cmd.Images,
		DeviceGroup:          cmd.DeviceGroup,
		ExternalDeviceIDs:    cmd.ExternalDeviceIDs,
		AutomaticPostForSale: cmd.AutomaticPostForSale,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("device: register: %w", err)
	}
	return d, nil
}

// Find returns a device by id.
func (s *Service) Find(ctx context.Context, id string) (*Device, error) {
	if id == "" {
		return nil, fmt.Errorf("device: find: %w: id required", auth.ErrInvalidInput)
	}
	return s.store.Find(ctx, id)
}

// ListByOrg returns all devices registered by the organization.
func (s *Service) ListByOrg(ctx context.Context, organizationID string) ([]*Device, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("device: list: %w: organization id required", auth.ErrInvalidInput)
	}
	return s.store.ListByOrg(ctx, organizationID)
}

// ValidationError reports whether err carries field-level validation
// detail, unwrapping it for transport layers.
func ValidationError(err error) (*validate.Error, bool) {
	verr, ok := err.(*validate.Error)
	return verr, ok
}
