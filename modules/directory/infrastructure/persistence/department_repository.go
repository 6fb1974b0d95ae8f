package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/department"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

const departmentColumns = `id, code, name, created_at, updated_at`

type PgDepartmentRepository struct{}

func NewDepartmentRepository() department.Repository {
	return &PgDepartmentRepository{}
}

func (r *PgDepartmentRepository) Insert(ctx context.Context, d department.Department) (department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return department.Department{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO departments (id, code, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+departmentColumns,
		pgUUID(d.ID()),
		d.Code(),
		d.Name(),
		d.CreatedAt(),
		d.UpdatedAt(),
	)

	inserted, err := scanDepartment(row)
	if err != nil {
		return department.Department{}, gerrors.Wrap(err, "failed to insert department")
	}
	return inserted, nil
}

func (r *PgDepartmentRepository) Update(ctx context.Context, d department.Department) (department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return department.Department{}, err
	}

	row := tx.QueryRow(ctx, `
UPDATE departments
SET name = $2, updated_at = $3
WHERE id = $1
RETURNING `+departmentColumns,
		pgUUID(d.ID()),
		d.Name(),
		d.UpdatedAt(),
	)
	return scanDepartment(row)
}

func (r *PgDepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return department.Department{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+departmentColumns+`
FROM departments
WHERE id = $1`,
		pgUUID(id),
	)
	return scanDepartment(row)
}

func (r *PgDepartmentRepository) GetByCode(ctx context.Context, code string) (department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return department.Department{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+departmentColumns+`
FROM departments
WHERE code = $1`,
		code,
	)
	return scanDepartment(row)
}

func (r *PgDepartmentRepository) List(ctx context.Context) ([]department.Department, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+departmentColumns+`
FROM departments
ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []department.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var (
		id        pgtype.UUID
		code      string
		name      string
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &code, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return department.Department{}, serrors.NotFound("DIRECTORY_DEPARTMENT_NOT_FOUND", "department not found")
		}
		return department.Department{}, err
	}
	return department.Hydrate(id.Bytes, code, name, createdAt.Time, updatedAt.Time), nil
}
