package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/assignment"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// AssignmentService is the sole writer of role-assignment state. It
// also answers the two read questions: who holds the role now, and the
// full succession history.
type AssignmentService struct {
	repo      assignment.Repository
	tx        Transactor
	publisher eventbus.EventBus
}

func NewAssignmentService(repo assignment.Repository, tx Transactor, publisher eventbus.EventBus) *AssignmentService {
	return &AssignmentService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
	}
}

// HistoryEntry is one assignment annotated for audit display.
type HistoryEntry struct {
	Assignment assignment.Assignment
	IsCurrent  bool
}

// Assign moves the role to a new holder: the currently open record, if
// any, is closed with the new start date (no gap, no overlap) and a
// fresh open record is inserted, as one atomic unit. Re-assigning the
// current holder is a normal transition and still produces two records.
//
// The effective date is an explicit input; callers supply "now" at the
// boundary, which keeps this engine free of clock access. A concurrent
// transition for the same (entity, role) pair surfaces as a conflict
// after one internal retry.
func (s *AssignmentService) Assign(
	ctx context.Context,
	entityID uuid.UUID,
	role assignment.Role,
	holderID uuid.UUID,
	effectiveDate time.Time,
) (assignment.Assignment, error) {
	if entityID == uuid.Nil {
		return assignment.Assignment{}, serrors.Validation("STAFFING_INVALID_ENTITY", "entity id is required")
	}
	if holderID == uuid.Nil {
		return assignment.Assignment{}, serrors.Validation("STAFFING_INVALID_HOLDER", "holder id is required")
	}
	if _, err := assignment.ParseRole(string(role)); err != nil {
		return assignment.Assignment{}, err
	}
	if effectiveDate.IsZero() {
		return assignment.Assignment{}, serrors.Validation("STAFFING_INVALID_START", "effective date is required")
	}

	created, err := s.transition(ctx, entityID, role, holderID, effectiveDate)
	if serrors.IsClass(err, serrors.ClassConflict) {
		// The losing side of a race retries once against the updated
		// state; a second conflict is surfaced to the caller.
		created, err = s.transition(ctx, entityID, role, holderID, effectiveDate)
	}
	recordTransition(string(role), err)
	if err != nil {
		return assignment.Assignment{}, err
	}

	s.publisher.Publish("assignment.created", created)
	return created, nil
}

func (s *AssignmentService) transition(
	ctx context.Context,
	entityID uuid.UUID,
	role assignment.Role,
	holderID uuid.UUID,
	effectiveDate time.Time,
) (assignment.Assignment, error) {
	var created assignment.Assignment
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		open, ok, err := s.repo.FindOpenForUpdate(txCtx, entityID, role)
		if err != nil {
			return err
		}
		if ok {
			if err := s.repo.Close(txCtx, open.ID(), effectiveDate); err != nil {
				return err
			}
		}

		next, err := assignment.New(entityID, holderID, role, effectiveDate)
		if err != nil {
			return err
		}
		created, err = s.repo.Insert(txCtx, next)
		return err
	})
	if err != nil {
		return assignment.Assignment{}, mapPgError(err)
	}
	return created, nil
}

// Resolve answers "who holds the role right now". It is side-effect
// free and takes no locks; more than one open record is reported as an
// integrity failure, never silently resolved.
func (s *AssignmentService) Resolve(ctx context.Context, entityID uuid.UUID, role assignment.Role) (assignment.Assignment, bool, error) {
	open, ok, err := s.repo.FindOpen(ctx, entityID, role)
	if err != nil {
		return assignment.Assignment{}, false, mapPgError(err)
	}
	return open, ok, nil
}

// History returns the full succession trail, newest first, each record
// annotated with whether it is the one currently in effect.
func (s *AssignmentService) History(ctx context.Context, entityID uuid.UUID, role assignment.Role) ([]HistoryEntry, error) {
	records, err := s.repo.ListHistory(ctx, entityID, role)
	if err != nil {
		return nil, mapPgError(err)
	}

	entries := make([]HistoryEntry, 0, len(records))
	for _, a := range records {
		entries = append(entries, HistoryEntry{Assignment: a, IsCurrent: a.IsOpen()})
	}
	return entries, nil
}
