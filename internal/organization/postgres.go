package organization

import (
	"context"
	"database/sql"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Create(ctx context.Context, org *Organization) error {
	if org.ID == "" {
		org.ID = ids.New()
	}
	if org.Status == "" {
		org.Status = StatusPending
	}
	_, err := s.db.ExecContext(ctx,
		`insert into organizations(id, name, status) values($1,$2,$3)`,
		org.ID, org.Name, org.Status,
	)
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*Organization, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, name, status, created_at, updated_at from organizations where id=$1`, id)
	var org Organization
	if err := row.Scan(&org.ID, &org.Name, &org.Status, &org.CreatedAt, &org.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}
