package employment

import (
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// Employment is one interval during which a staff member worked in a
// department. Unlike role assignments, several employments may be open
// for the same staff member at once; at most one of them is marked
// primary.
type Employment struct {
	id           uuid.UUID
	staffID      uuid.UUID
	departmentID uuid.UUID
	isPrimary    bool
	startDate    time.Time
	endDate      *time.Time
	seq          int64
	createdAt    time.Time
}

func New(staffID, departmentID uuid.UUID, isPrimary bool, startDate time.Time) (Employment, error) {
	if staffID == uuid.Nil {
		return Employment{}, serrors.Validation("STAFFING_INVALID_STAFF", "staff id is required")
	}
	if departmentID == uuid.Nil {
		return Employment{}, serrors.Validation("STAFFING_INVALID_DEPARTMENT", "department id is required")
	}
	if startDate.IsZero() {
		return Employment{}, serrors.Validation("STAFFING_INVALID_START", "start date is required")
	}
	return Employment{
		id:           uuid.New(),
		staffID:      staffID,
		departmentID: departmentID,
		isPrimary:    isPrimary,
		startDate:    dateOnly(startDate),
	}, nil
}

func Hydrate(
	id uuid.UUID,
	staffID uuid.UUID,
	departmentID uuid.UUID,
	isPrimary bool,
	startDate time.Time,
	endDate *time.Time,
	seq int64,
	createdAt time.Time,
) Employment {
	return Employment{
		id:           id,
		staffID:      staffID,
		departmentID: departmentID,
		isPrimary:    isPrimary,
		startDate:    startDate,
		endDate:      endDate,
		seq:          seq,
		createdAt:    createdAt,
	}
}

func (e Employment) ID() uuid.UUID           { return e.id }
func (e Employment) StaffID() uuid.UUID      { return e.staffID }
func (e Employment) DepartmentID() uuid.UUID { return e.departmentID }
func (e Employment) IsPrimary() bool         { return e.isPrimary }
func (e Employment) StartDate() time.Time    { return e.startDate }
func (e Employment) EndDate() *time.Time     { return e.endDate }
func (e Employment) Seq() int64              { return e.seq }
func (e Employment) CreatedAt() time.Time    { return e.createdAt }
func (e Employment) IsOpen() bool            { return e.endDate == nil }

func (e Employment) Closed(endDate time.Time) (Employment, error) {
	end := dateOnly(endDate)
	if end.Before(e.startDate) {
		return Employment{}, serrors.Validation("STAFFING_INVALID_END", "end date precedes start date")
	}
	e.endDate = &end
	return e, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
