package device

import (
	"context"
	"database/sql"
	"encoding/json"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. The child group and the
// external ids round-trip as JSON documents.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const deviceColumns = `id, organization_id, facility_name, status, device_type, capacity_in_w, gps_latitude, gps_longitude, device_group, external_device_ids, images, automatic_post_for_sale, operational_since, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, d *Device) error {
	if d.ID == "" {
		d.ID = ids.New()
	}
	extIDs, _ := json.Marshal(d.ExternalDeviceIDs)
	_, err := s.db.ExecContext(ctx,
		`insert into devices(id, organization_id, facility_name, status, device_type, capacity_in_w,
		 gps_latitude, gps_longitude, device_group, external_device_ids, images, automatic_post_for_sale, operational_since)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		d.ID, d.OrganizationID, d.FacilityName, d.Status, d.DeviceType, d.CapacityInW,
		d.GPSLatitude, d.GPSLongitude, d.DeviceGroup, extIDs, d.Images,
		d.AutomaticPostForSale, d.OperationalSince,
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*Device, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+deviceColumns+` from devices where id=$1`, id)
	return scanDevice(row)
}

func (s *PGStore) ListByOrg(ctx context.Context, orgID string) ([]*Device, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+deviceColumns+` from devices where organization_id=$1 order by created_at asc`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, d)
	}
	return res, rows.Err()
}

func scanDevice(row rowScanner) (*Device, error) {
	var (
		d      Device
		extIDs []byte
	)
	err := row.Scan(&d.ID, &d.OrganizationID, &d.FacilityName, &d.Status, &d.DeviceType,
		&d.CapacityInW, &d.GPSLatitude, &d.GPSLongitude, &d.DeviceGroup, &extIDs,
		&d.Images, &d.AutomaticPostForSale, &d.OperationalSince, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(extIDs, &d.ExternalDeviceIDs)
	return &d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
