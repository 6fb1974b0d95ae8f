package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// Role is the position-like role an assignment attaches to an entity.
type Role string

const (
	RoleHead        Role = "head"
	RoleCoordinator Role = "coordinator"
)

func ParseRole(v string) (Role, error) {
	switch Role(v) {
	case RoleHead, RoleCoordinator:
		return Role(v), nil
	default:
		return "", serrors.Validation("STAFFING_INVALID_ROLE", "role must be one of: head, coordinator")
	}
}

// Assignment is one interval during which a holder held a role for an
// entity. A nil end date means the assignment is still open. Records
// are closed exactly once and never deleted.
type Assignment struct {
	id        uuid.UUID
	entityID  uuid.UUID
	holderID  uuid.UUID
	role      Role
	startDate time.Time
	endDate   *time.Time
	seq       int64
	createdAt time.Time
}

// New builds an open assignment. The start date is normalized to a UTC
// calendar date.
func New(entityID, holderID uuid.UUID, role Role, startDate time.Time) (Assignment, error) {
	if entityID == uuid.Nil {
		return Assignment{}, serrors.Validation("STAFFING_INVALID_ENTITY", "entity id is required")
	}
	if holderID == uuid.Nil {
		return Assignment{}, serrors.Validation("STAFFING_INVALID_HOLDER", "holder id is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Assignment{}, err
	}
	if startDate.IsZero() {
		return Assignment{}, serrors.Validation("STAFFING_INVALID_START", "start date is required")
	}
	return Assignment{
		id:        uuid.New(),
		entityID:  entityID,
		holderID:  holderID,
		role:      role,
		startDate: DateOnly(startDate),
	}, nil
}

func Hydrate(
	id uuid.UUID,
	entityID uuid.UUID,
	holderID uuid.UUID,
	role Role,
	startDate time.Time,
	endDate *time.Time,
	seq int64,
	createdAt time.Time,
) Assignment {
	return Assignment{
		id:        id,
		entityID:  entityID,
		holderID:  holderID,
		role:      role,
		startDate: startDate,
		endDate:   endDate,
		seq:       seq,
		createdAt: createdAt,
	}
}

func (a Assignment) ID() uuid.UUID        { return a.id }
func (a Assignment) EntityID() uuid.UUID  { return a.entityID }
func (a Assignment) HolderID() uuid.UUID  { return a.holderID }
func (a Assignment) Role() Role           { return a.role }
func (a Assignment) StartDate() time.Time { return a.startDate }
func (a Assignment) EndDate() *time.Time  { return a.endDate }
func (a Assignment) Seq() int64           { return a.seq }
func (a Assignment) CreatedAt() time.Time { return a.createdAt }
func (a Assignment) IsOpen() bool         { return a.endDate == nil }

// Closed returns a copy with the end date set. The end date may not
// precede the start date.
func (a Assignment) Closed(endDate time.Time) (Assignment, error) {
	end := DateOnly(endDate)
	if end.Before(a.startDate) {
		return Assignment{}, serrors.Validation("STAFFING_INVALID_END", "end date precedes start date")
	}
	a.endDate = &end
	return a, nil
}

// DateOnly drops the time-of-day component, keeping a UTC calendar date.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
