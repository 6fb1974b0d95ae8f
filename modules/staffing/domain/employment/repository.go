package employment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the interval store for employments. Several open
// records per staff member are legal; SetPrimaryFlag is the only flag
// mutation and Close the only end-date mutation.
type Repository interface {
	Insert(ctx context.Context, e Employment) (Employment, error)
	GetByID(ctx context.Context, id uuid.UUID) (Employment, error)
	ListForStaff(ctx context.Context, staffID uuid.UUID) ([]Employment, error)
	// ListOpenForStaffForUpdate locks the staff member's open rows;
	// callers must hold a transaction.
	ListOpenForStaffForUpdate(ctx context.Context, staffID uuid.UUID) ([]Employment, error)
	SetPrimaryFlag(ctx context.Context, id uuid.UUID, isPrimary bool) error
	Close(ctx context.Context, id uuid.UUID, endDate time.Time) error
}
