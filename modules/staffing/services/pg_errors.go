package services

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// mapPgError translates low-level database failures into the service
// error taxonomy. Errors that are already classified pass through.
func mapPgError(err error) error {
	if err == nil {
		return nil
	}

	var svcErr *serrors.Error
	if errors.As(err, &svcErr) {
		return svcErr
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return serrors.NotFound("STAFFING_NOT_FOUND", "not found")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		switch pgErr.ConstraintName {
		case "role_assignments_single_open":
			recordWriteConflict("open_holder")
			return serrors.Conflict("STAFFING_TRANSITION_CONFLICT", "another open assignment exists for this entity and role", err)
		case "staff_employments_single_open_primary":
			recordWriteConflict("primary")
			return serrors.Conflict("STAFFING_PRIMARY_CONFLICT", "staff member already has an open primary employment", err)
		default:
			recordWriteConflict("unique")
			return serrors.Conflict("STAFFING_CONFLICT", "unique constraint violated", err)
		}
	case "23514": // check_violation
		return serrors.Validation("STAFFING_INVALID_DATES", "end date precedes start date")
	case "23503": // foreign_key_violation
		return serrors.Validation("STAFFING_INVALID_REFERENCE", "referenced record does not exist")
	case "40001", "40P01": // serialization_failure, deadlock_detected
		recordWriteConflict("serialization")
		return serrors.Conflict("STAFFING_TRANSITION_CONFLICT", "concurrent transition detected", err)
	default:
		return serrors.Internal("STAFFING_INTERNAL", fmt.Sprintf("database error (%s)", pgErr.Code), err)
	}
}
