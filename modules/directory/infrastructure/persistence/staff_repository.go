package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/staff"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

const staffColumns = `id, staff_no, first_name, last_name, email, created_at, updated_at`

type PgStaffRepository struct{}

func NewStaffRepository() staff.Repository {
	return &PgStaffRepository{}
}

func (r *PgStaffRepository) Insert(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return staff.Staff{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO staff_members (id, staff_no, first_name, last_name, email, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+staffColumns,
		pgUUID(s.ID()),
		s.StaffNo(),
		s.FirstName(),
		s.LastName(),
		s.Email(),
		s.CreatedAt(),
		s.UpdatedAt(),
	)

	inserted, err := scanStaff(row)
	if err != nil {
		return staff.Staff{}, gerrors.Wrap(err, "failed to insert staff member")
	}
	return inserted, nil
}

func (r *PgStaffRepository) GetByID(ctx context.Context, id uuid.UUID) (staff.Staff, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return staff.Staff{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+staffColumns+`
FROM staff_members
WHERE id = $1`,
		pgUUID(id),
	)
	return scanStaff(row)
}

func (r *PgStaffRepository) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]staff.Staff, error) {
	out := make(map[uuid.UUID]staff.Staff, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+staffColumns+`
FROM staff_members
WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out[s.ID()] = s
	}
	return out, rows.Err()
}

func (r *PgStaffRepository) List(ctx context.Context) ([]staff.Staff, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+staffColumns+`
FROM staff_members
ORDER BY staff_no`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []staff.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var (
		id        pgtype.UUID
		staffNo   string
		firstName string
		lastName  string
		email     string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &staffNo, &firstName, &lastName, &email, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, serrors.NotFound("DIRECTORY_STAFF_NOT_FOUND", "staff member not found")
		}
		return staff.Staff{}, err
	}
	return staff.Hydrate(id.Bytes, staffNo, firstName, lastName, email, createdAt.Time, updatedAt.Time), nil
}
