package device

import (
	"encoding/json"
	"strconv"
	"time"
)

// defaultDeviceType matches the only device type the registration form
// currently offers.
const defaultDeviceType = "Solar;Photovoltaic"

// CreateCommand is the device-creation payload built from an accepted
// submission. Field defaults mirror what the registration form sends.
type CreateCommand struct {
	Status               string             `json:"status"`
	DeviceType           string             `json:"deviceType"`
	FacilityName         string             `json:"facilityName"`
	CapacityInW          int64              `json:"capacityInW"`
	GPSLatitude          string             `json:"gpsLatitude"`
	GPSLongitude         string             `json:"gpsLongitude"`
	OperationalSince     int64              `json:"operationalSince"`
	Images               string             `json:"images"`
	DeviceGroup          string             `json:"deviceGroup"`
	ExternalDeviceIDs    []ExternalDeviceID `json:"externalDeviceIds"`
	AutomaticPostForSale bool               `json:"automaticPostForSale"`
}

// NewCreateCommand converts a validated submission into a creation
// command: capacity is aggregated into watts, the children are carried
// as a serialized group, and the group's coordinates come from the
// first child.
func NewCreateCommand(sub GroupSubmission, externalIDs []ExternalDeviceID, now time.Time) (CreateCommand, error) {
	group, err := json.Marshal(sub.Children)
	if err != nil {
		return CreateCommand{}, err
	}

	cmd := CreateCommand{
		Status:               StatusSubmitted,
		DeviceType:           defaultDeviceType,
		FacilityName:         sub.FacilityName,
		CapacityInW:          TotalCapacityW(sub.Children),
		OperationalSince:     now.Unix(),
		Images:               "[]",
		DeviceGroup:          string(group),
		ExternalDeviceIDs:    externalIDs,
		AutomaticPostForSale: false,
	}
	if len(sub.Children) > 0 {
		if lat := sub.Children[0].Latitude; lat != nil {
			cmd.GPSLatitude = strconv.FormatFloat(*lat, 'f', -1, 64)
		}
		if lon := sub.Children[0].Longitude; lon != nil {
			cmd.GPSLongitude = strconv.FormatFloat(*lon, 'f', -1, 64)
		}
	}
	return cmd, nil
}
