package device

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"gridcert.org/internal/auth"
)

func deviceRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(strings.Split(deviceColumns, ", ")).
		AddRow("d-1", "org-1", "Sunfield One", StatusSubmitted, "Solar;Photovoltaic",
			int64(250_000), "-34.92", "138.6", "[]", []byte(`[{"id":"EXT-1","type":"issuer"}]`),
			"[]", false, int64(1600000000), now, now)
}

func TestDevicePGStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("insert into devices").
		WithArgs(sqlmock.AnyArg(), "org-1", "Sunfield One", StatusSubmitted, "Solar;Photovoltaic",
			int64(250_000), "-34.92", "138.6", "[]", sqlmock.AnyArg(), "[]", false, int64(1600000000)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	store := NewPGStore(db)
	d := &Device{
		OrganizationID:   "org-1",
		FacilityName:     "Sunfield One",
		Status:           StatusSubmitted,
		DeviceType:       "Solar;Photovoltaic",
		CapacityInW:      250_000,
		GPSLatitude:      "-34.92",
		GPSLongitude:     "138.6",
		DeviceGroup:      "[]",
		Images:           "[]",
		OperationalSince: 1600000000,
	}
	if err := store.Create(context.Background(), d); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDevicePGStoreFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select .+ from devices where id=").
		WithArgs("d-1").
		WillReturnRows(deviceRows())

	store := NewPGStore(db)
	d, err := store.Find(context.Background(), "d-1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if d.FacilityName != "Sunfield One" || d.CapacityInW != 250_000 {
		t.Fatalf("unexpected device: %+v", d)
	}
	if len(d.ExternalDeviceIDs) != 1 || d.ExternalDeviceIDs[0].ID != "EXT-1" {
		t.Fatalf("external ids not decoded: %+v", d.ExternalDeviceIDs)
	}
}

func TestDevicePGStoreFindNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select .+ from devices where id=").
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(strings.Split(deviceColumns, ", ")))

	store := NewPGStore(db)
	if _, err := store.Find(context.Background(), "nope"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDevicePGStoreListByOrg(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select .+ from devices where organization_id=").
		WithArgs("org-1").
		WillReturnRows(deviceRows())

	store := NewPGStore(db)
	devices, err := store.ListByOrg(context.Background(), "org-1")
	if err != nil {
		t.Fatalf("ListByOrg: %v", err)
	}
	if len(devices) != 1 || devices[0].ID != "d-1" {
		t.Fatalf("unexpected list: %+v", devices)
	}
}
