package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/employment"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

const employmentColumns = `id, staff_id, department_id, is_primary, start_date, end_date, seq, created_at`

type PgEmploymentRepository struct{}

func NewEmploymentRepository() employment.Repository {
	return &PgEmploymentRepository{}
}

func (r *PgEmploymentRepository) Insert(ctx context.Context, e employment.Employment) (employment.Employment, error) {
	if e.EndDate() != nil && e.EndDate().Before(e.StartDate()) {
		return employment.Employment{}, serrors.Validation("STAFFING_INVALID_END", "end date precedes start date")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employment.Employment{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO staff_employments (id, staff_id, department_id, is_primary, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+employmentColumns,
		pgUUID(e.ID()),
		pgUUID(e.StaffID()),
		pgUUID(e.DepartmentID()),
		e.IsPrimary(),
		pgDateOnlyUTC(e.StartDate()),
		pgNullableDate(e.EndDate()),
	)

	inserted, err := scanEmployment(row)
	if err != nil {
		return employment.Employment{}, gerrors.Wrap(err, "failed to insert employment")
	}
	return inserted, nil
}

func (r *PgEmploymentRepository) GetByID(ctx context.Context, id uuid.UUID) (employment.Employment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return employment.Employment{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+employmentColumns+`
FROM staff_employments
WHERE id = $1`,
		pgUUID(id),
	)
	return scanEmployment(row)
}

func (r *PgEmploymentRepository) ListForStaff(ctx context.Context, staffID uuid.UUID) ([]employment.Employment, error) {
	return r.listForStaff(ctx, staffID, `
SELECT `+employmentColumns+`
FROM staff_employments
WHERE staff_id = $1
ORDER BY start_date DESC, seq DESC`)
}

func (r *PgEmploymentRepository) ListOpenForStaffForUpdate(ctx context.Context, staffID uuid.UUID) ([]employment.Employment, error) {
	return r.listForStaff(ctx, staffID, `
SELECT `+employmentColumns+`
FROM staff_employments
WHERE staff_id = $1 AND end_date IS NULL
ORDER BY seq
FOR UPDATE`)
}

func (r *PgEmploymentRepository) listForStaff(ctx context.Context, staffID uuid.UUID, query string) ([]employment.Employment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, pgUUID(staffID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []employment.Employment
	for rows.Next() {
		e, err := scanEmployment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *PgEmploymentRepository) SetPrimaryFlag(ctx context.Context, id uuid.UUID, isPrimary bool) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE staff_employments
SET is_primary = $2
WHERE id = $1`,
		pgUUID(id), isPrimary,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "employment not found")
	}
	return nil
}

func (r *PgEmploymentRepository) Close(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE staff_employments
SET end_date = $2
WHERE id = $1`,
		pgUUID(id), pgDateOnlyUTC(endDate),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "employment not found")
	}
	return nil
}

func scanEmployment(row pgx.Row) (employment.Employment, error) {
	var (
		id           pgtype.UUID
		staffID      pgtype.UUID
		departmentID pgtype.UUID
		isPrimary    bool
		startDate    pgtype.Date
		endDate      pgtype.Date
		seq          int64
		createdAt    pgtype.Timestamptz
	)
	if err := row.Scan(&id, &staffID, &departmentID, &isPrimary, &startDate, &endDate, &seq, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employment.Employment{}, serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "employment not found")
		}
		return employment.Employment{}, err
	}
	return employment.Hydrate(
		id.Bytes,
		staffID.Bytes,
		departmentID.Bytes,
		isPrimary,
		dateFromPg(startDate),
		nullableDateFromPg(endDate),
		seq,
		createdAt.Time,
	), nil
}
