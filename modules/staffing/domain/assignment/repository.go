package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the interval store for role assignments.
//
// Insert rejects records whose end date precedes their start date.
// FindOpen returns the single open record for the pair, or ok=false;
// finding more than one open record is an integrity failure and is
// reported, never silently resolved. ListHistory orders by start date
// descending with insertion order breaking same-day ties. Close sets
// the end date of an existing record and is the only mutation.
type Repository interface {
	Insert(ctx context.Context, a Assignment) (Assignment, error)
	FindOpen(ctx context.Context, entityID uuid.UUID, role Role) (Assignment, bool, error)
	// FindOpenForUpdate is FindOpen with a row lock; callers must hold a
	// transaction.
	FindOpenForUpdate(ctx context.Context, entityID uuid.UUID, role Role) (Assignment, bool, error)
	ListHistory(ctx context.Context, entityID uuid.UUID, role Role) ([]Assignment, error)
	Close(ctx context.Context, id uuid.UUID, endDate time.Time) error
}
