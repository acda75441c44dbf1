package device

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// MaxTotalCapacityW caps the combined capacity of one device group at 5 MW.
const MaxTotalCapacityW = 5_000_000

// wattsPerKW converts the form's kilowatt figures to canonical watts.
const wattsPerKW = 1000

// Meter reading modes accepted for a group member.
const (
	MeterTypeInterval = "interval"
	MeterTypeScalar   = "scalar"
)

// Device statuses.
const (
	StatusSubmitted = "submitted"
	StatusActive    = "active"
	StatusDenied    = "denied"
)

// GroupChild is one physical installation inside a device group. Numeric
// fields are pointers so an absent value fails validation instead of
// masquerading as zero.
type GroupChild struct {
	InstallationName string   `json:"installationName" validate:"required"`
	Address          string   `json:"address" validate:"required"`
	City             string   `json:"city" validate:"required"`
	Latitude         *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	CapacityKW       *float64 `json:"capacity" validate:"required,gte=20"`
	MeterID          string   `json:"meterId" validate:"required"`
	MeterType        string   `json:"meterType" validate:"required,oneof=interval scalar"`
}

// GroupSubmission bundles several installations under one registration.
type GroupSubmission struct {
	FacilityName string       `json:"facilityName" validate:"required"`
	Children     []GroupChild `json:"children" validate:"required,min=1,dive"`
}

// TotalCapacityW sums the children's capacities in watts. Only finite
// numeric values contribute, mirroring how the form computes the figure
// while rows are still being filled in.
func TotalCapacityW(children []GroupChild) int64 {
	var totalKW float64
	for _, c := range children {
		if c.CapacityKW == nil {
			continue
		}
		v := *c.CapacityKW
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		totalKW += v
	}
	return int64(totalKW * wattsPerKW)
}

// FormatPowerW renders a watt figure in the display unit used by forms
// and error messages (MW with up to three decimals, trailing zeros cut).
func FormatPowerW(watts int64) string {
	mw := float64(watts) / 1_000_000
	s := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", mw), "0"), ".")
	return s + " MW"
}

// ExternalDeviceID links a device to an identifier in an external
// registry such as the issuer's.
type ExternalDeviceID struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// Device is a registered device group.
type Device struct {
	ID                   string             `json:"id"`
	OrganizationID       string             `json:"organizationId"`
	FacilityName         string             `json:"facilityName"`
	Status               string             `json:"status"`
	DeviceType           string             `json:"deviceType"`
	CapacityInW          int64              `json:"capacityInW"`
	GPSLatitude          string             `json:"gpsLatitude"`
	GPSLongitude         string             `json:"gpsLongitude"`
	DeviceGroup          string             `json:"deviceGroup"`
	ExternalDeviceIDs    []ExternalDeviceID `json:"externalDeviceIds"`
	Images               string             `json:"images"`
	AutomaticPostForSale bool               `json:"automaticPostForSale"`
	OperationalSince     int64              `json:"operationalSince"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// Store describes persistence for registered devices.
type Store interface {
	Create(ctx context.Context, d *Device) error
	Find(ctx context.Context, id string) (*Device, error)
	ListByOrg(ctx context.Context, orgID string) ([]*Device, error)
}
