package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"gridcert.org/internal/auth"
	"gridcert.org/internal/ids"
)

var _ Store = (*PGStore)(nil)

const uniqueViolation = "23505"

// PGStore implements Store using PostgreSQL. Roles are stored as a JSON
// array; the organization reference is nullable until assignment.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

const userColumns = `id, title, first_name, last_name, email, telephone, password_hash, roles, status, kyc_status, organization_id, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, u *User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	roles, _ := json.Marshal(u.Roles)
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, title, first_name, last_name, email, telephone, password_hash, roles, status, kyc_status, organization_id)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		u.ID, u.Title, u.FirstName, u.LastName, u.Email, u.Telephone,
		u.PasswordHash, roles, u.Status, u.KYCStatus, nullable(u.OrganizationID),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return auth.ErrConflict
	}
	return err
}

func (s *PGStore) Find(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id)
	return scanUser(row)
}

func (s *PGStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where email=$1`, email)
	return scanUser(row)
}

func (s *PGStore) ListByOrg(ctx context.Context, orgID string) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users where organization_id=$1 order by created_at asc`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (s *PGStore) Update(ctx context.Context, u *User) error {
	roles, _ := json.Marshal(u.Roles)
	res, err := s.db.ExecContext(ctx,
		`update users set title=$2, first_name=$3, last_name=$4, email=$5, telephone=$6,
		 password_hash=$7, roles=$8, status=$9, kyc_status=$10, organization_id=$11, updated_at=now()
		 where id=$1`,
		u.ID, u.Title, u.FirstName, u.LastName, u.Email, u.Telephone,
		u.PasswordHash, roles, u.Status, u.KYCStatus, nullable(u.OrganizationID),
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return auth.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u     User
		roles []byte
		orgID sql.NullString
	)
	err := row.Scan(&u.ID, &u.Title, &u.FirstName, &u.LastName, &u.Email, &u.Telephone,
		&u.PasswordHash, &roles, &u.Status, &u.KYCStatus, &orgID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	_ = json.Unmarshal(roles, &u.Roles)
	if orgID.Valid {
		u.OrganizationID = orgID.String
	}
	return &u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
