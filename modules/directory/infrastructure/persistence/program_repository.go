package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/program"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

const programColumns = `id, department_id, code, name, created_at, updated_at`

type PgProgramRepository struct{}

func NewProgramRepository() program.Repository {
	return &PgProgramRepository{}
}

func (r *PgProgramRepository) Insert(ctx context.Context, p program.Program) (program.Program, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return program.Program{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO programs (id, department_id, code, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+programColumns,
		pgUUID(p.ID()),
		pgUUID(p.DepartmentID()),
		p.Code(),
		p.Name(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)

	inserted, err := scanProgram(row)
	if err != nil {
		return program.Program{}, gerrors.Wrap(err, "failed to insert program")
	}
	return inserted, nil
}

func (r *PgProgramRepository) GetByID(ctx context.Context, id uuid.UUID) (program.Program, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return program.Program{}, err
	}

	row := tx.QueryRow(ctx, `
SELECT `+programColumns+`
FROM programs
WHERE id = $1`,
		pgUUID(id),
	)
	return scanProgram(row)
}

func (r *PgProgramRepository) List(ctx context.Context) ([]program.Program, error) {
	return r.list(ctx, `
SELECT `+programColumns+`
FROM programs
ORDER BY code`)
}

func (r *PgProgramRepository) ListForDepartment(ctx context.Context, departmentID uuid.UUID) ([]program.Program, error) {
	return r.list(ctx, `
SELECT `+programColumns+`
FROM programs
WHERE department_id = $1
ORDER BY code`, pgUUID(departmentID))
}

func (r *PgProgramRepository) list(ctx context.Context, query string, args ...any) ([]program.Program, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []program.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProgram(row pgx.Row) (program.Program, error) {
	var (
		id           pgtype.UUID
		departmentID pgtype.UUID
		code         string
		name         string
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	if err := row.Scan(&id, &departmentID, &code, &name, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return program.Program{}, serrors.NotFound("DIRECTORY_PROGRAM_NOT_FOUND", "program not found")
		}
		return program.Program{}, err
	}
	return program.Hydrate(id.Bytes, departmentID.Bytes, code, name, createdAt.Time, updatedAt.Time), nil
}
