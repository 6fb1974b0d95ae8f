package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/assignment"
	"github.com/emabi2002/npiams-sub001/pkg/composables"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

const assignmentColumns = `id, entity_id, holder_id, role, start_date, end_date, seq, created_at`

type PgAssignmentRepository struct{}

func NewAssignmentRepository() assignment.Repository {
	return &PgAssignmentRepository{}
}

func (r *PgAssignmentRepository) Insert(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	if a.EndDate() != nil && a.EndDate().Before(a.StartDate()) {
		return assignment.Assignment{}, serrors.Validation("STAFFING_INVALID_END", "end date precedes start date")
	}

	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assignment.Assignment{}, err
	}

	row := tx.QueryRow(ctx, `
INSERT INTO role_assignments (id, entity_id, holder_id, role, start_date, end_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+assignmentColumns,
		pgUUID(a.ID()),
		pgUUID(a.EntityID()),
		pgUUID(a.HolderID()),
		string(a.Role()),
		pgDateOnlyUTC(a.StartDate()),
		pgNullableDate(a.EndDate()),
	)

	inserted, err := scanAssignment(row)
	if err != nil {
		return assignment.Assignment{}, gerrors.Wrap(err, "failed to insert role assignment")
	}
	return inserted, nil
}

func (r *PgAssignmentRepository) FindOpen(ctx context.Context, entityID uuid.UUID, role assignment.Role) (assignment.Assignment, bool, error) {
	return r.findOpen(ctx, entityID, role, "")
}

func (r *PgAssignmentRepository) FindOpenForUpdate(ctx context.Context, entityID uuid.UUID, role assignment.Role) (assignment.Assignment, bool, error) {
	return r.findOpen(ctx, entityID, role, " FOR UPDATE")
}

// findOpen fetches up to two rows so a violated single-open-holder
// invariant is detected and reported instead of silently picking one.
func (r *PgAssignmentRepository) findOpen(ctx context.Context, entityID uuid.UUID, role assignment.Role, lock string) (assignment.Assignment, bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return assignment.Assignment{}, false, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+assignmentColumns+`
FROM role_assignments
WHERE entity_id = $1 AND role = $2 AND end_date IS NULL
ORDER BY seq
LIMIT 2`+lock,
		pgUUID(entityID), string(role),
	)
	if err != nil {
		return assignment.Assignment{}, false, err
	}
	defer rows.Close()

	var found []assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return assignment.Assignment{}, false, err
		}
		found = append(found, a)
	}
	if err := rows.Err(); err != nil {
		return assignment.Assignment{}, false, err
	}

	switch len(found) {
	case 0:
		return assignment.Assignment{}, false, nil
	case 1:
		return found[0], true, nil
	default:
		return assignment.Assignment{}, false, serrors.Integrity(
			"STAFFING_DUPLICATE_OPEN",
			"more than one open assignment for entity/role; manual correction required",
		)
	}
}

func (r *PgAssignmentRepository) ListHistory(ctx context.Context, entityID uuid.UUID, role assignment.Role) ([]assignment.Assignment, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT `+assignmentColumns+`
FROM role_assignments
WHERE entity_id = $1 AND role = $2
ORDER BY start_date DESC, seq DESC`,
		pgUUID(entityID), string(role),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []assignment.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PgAssignmentRepository) Close(ctx context.Context, id uuid.UUID, endDate time.Time) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE role_assignments
SET end_date = $2
WHERE id = $1`,
		pgUUID(id), pgDateOnlyUTC(endDate),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return serrors.NotFound("STAFFING_ASSIGNMENT_NOT_FOUND", "role assignment not found")
	}
	return nil
}

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var (
		id        pgtype.UUID
		entityID  pgtype.UUID
		holderID  pgtype.UUID
		role      string
		startDate pgtype.Date
		endDate   pgtype.Date
		seq       int64
		createdAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &entityID, &holderID, &role, &startDate, &endDate, &seq, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return assignment.Assignment{}, serrors.NotFound("STAFFING_ASSIGNMENT_NOT_FOUND", "role assignment not found")
		}
		return assignment.Assignment{}, err
	}
	return assignment.Hydrate(
		id.Bytes,
		entityID.Bytes,
		holderID.Bytes,
		assignment.Role(role),
		dateFromPg(startDate),
		nullableDateFromPg(endDate),
		seq,
		createdAt.Time,
	), nil
}
