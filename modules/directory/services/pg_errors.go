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
		return serrors.NotFound("DIRECTORY_NOT_FOUND", "not found")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case "23505": // unique_violation
		switch pgErr.ConstraintName {
		case "staff_members_no_unique":
			return serrors.Conflict("DIRECTORY_STAFF_NO_TAKEN", "staff number already in use", err)
		default:
			return serrors.Conflict("DIRECTORY_CODE_TAKEN", "code already in use", err)
		}
	case "23503": // foreign_key_violation
		return serrors.Validation("DIRECTORY_INVALID_DEPARTMENT", "department does not exist")
	default:
		return serrors.Internal("DIRECTORY_INTERNAL", fmt.Sprintf("database error (%s)", pgErr.Code), err)
	}
}
