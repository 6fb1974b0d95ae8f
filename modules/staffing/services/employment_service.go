package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/modules/staffing/domain/employment"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
	"github.com/emabi2002/npiams-sub001/pkg/serrors"
)

// EmploymentService manages possibly-concurrent department attachments
// for staff members. Several employments may be open at once; at most
// one per staff member is primary.
type EmploymentService struct {
	repo      employment.Repository
	tx        Transactor
	publisher eventbus.EventBus
}

func NewEmploymentService(repo employment.Repository, tx Transactor, publisher eventbus.EventBus) *EmploymentService {
	return &EmploymentService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
	}
}

// EmploymentEntry is one employment annotated for audit display.
type EmploymentEntry struct {
	Employment employment.Employment
	IsCurrent  bool
}

// Attach opens a new employment without closing any other open record.
// When the new employment is primary, previously primary records are
// demoted in the same unit of work so the one-primary-per-holder rule
// holds at every observable instant.
func (s *EmploymentService) Attach(
	ctx context.Context,
	staffID uuid.UUID,
	departmentID uuid.UUID,
	isPrimary bool,
	startDate time.Time,
) (employment.Employment, error) {
	next, err := employment.New(staffID, departmentID, isPrimary, startDate)
	if err != nil {
		return employment.Employment{}, err
	}

	var created employment.Employment
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		if isPrimary {
			if err := s.demoteOpenPrimaries(txCtx, staffID, uuid.Nil); err != nil {
				return err
			}
		}
		created, err = s.repo.Insert(txCtx, next)
		return err
	})
	if err != nil {
		return employment.Employment{}, mapPgError(err)
	}

	s.publisher.Publish("employment.attached", created)
	return created, nil
}

// SetPrimary designates one open employment as the staff member's main
// affiliation, clearing the flag on every other open record atomically.
func (s *EmploymentService) SetPrimary(ctx context.Context, staffID, employmentID uuid.UUID) (employment.Employment, error) {
	if staffID == uuid.Nil {
		return employment.Employment{}, serrors.Validation("STAFFING_INVALID_STAFF", "staff id is required")
	}
	if employmentID == uuid.Nil {
		return employment.Employment{}, serrors.Validation("STAFFING_INVALID_EMPLOYMENT", "employment id is required")
	}

	var updated employment.Employment
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		target, err := s.repo.GetByID(txCtx, employmentID)
		if err != nil {
			return err
		}
		if target.StaffID() != staffID || !target.IsOpen() {
			return serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "no open employment with this id for the staff member")
		}

		if err := s.demoteOpenPrimaries(txCtx, staffID, employmentID); err != nil {
			return err
		}
		if err := s.repo.SetPrimaryFlag(txCtx, employmentID, true); err != nil {
			return err
		}
		updated, err = s.repo.GetByID(txCtx, employmentID)
		return err
	})
	if err != nil {
		return employment.Employment{}, mapPgError(err)
	}

	s.publisher.Publish("employment.primary_changed", updated)
	return updated, nil
}

// End closes one employment. Other open employments of the staff member
// are untouched; this is not a transition.
func (s *EmploymentService) End(ctx context.Context, staffID, employmentID uuid.UUID, endDate time.Time) (employment.Employment, error) {
	if endDate.IsZero() {
		return employment.Employment{}, serrors.Validation("STAFFING_INVALID_END", "end date is required")
	}

	var ended employment.Employment
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		target, err := s.repo.GetByID(txCtx, employmentID)
		if err != nil {
			return err
		}
		if target.StaffID() != staffID || !target.IsOpen() {
			return serrors.NotFound("STAFFING_EMPLOYMENT_NOT_FOUND", "no open employment with this id for the staff member")
		}

		if err := s.repo.Close(txCtx, employmentID, endDate); err != nil {
			return err
		}
		ended, err = s.repo.GetByID(txCtx, employmentID)
		return err
	})
	if err != nil {
		return employment.Employment{}, mapPgError(err)
	}

	s.publisher.Publish("employment.ended", ended)
	return ended, nil
}

// ListForStaff returns the staff member's employment trail, newest
// first, annotated with currency.
func (s *EmploymentService) ListForStaff(ctx context.Context, staffID uuid.UUID) ([]EmploymentEntry, error) {
	records, err := s.repo.ListForStaff(ctx, staffID)
	if err != nil {
		return nil, mapPgError(err)
	}

	entries := make([]EmploymentEntry, 0, len(records))
	for _, e := range records {
		entries = append(entries, EmploymentEntry{Employment: e, IsCurrent: e.IsOpen()})
	}
	return entries, nil
}

// demoteOpenPrimaries clears the primary flag on every open employment
// of the staff member except the one being promoted.
func (s *EmploymentService) demoteOpenPrimaries(ctx context.Context, staffID, keep uuid.UUID) error {
	open, err := s.repo.ListOpenForStaffForUpdate(ctx, staffID)
	if err != nil {
		return err
	}
	for _, e := range open {
		if e.IsPrimary() && e.ID() != keep {
			if err := s.repo.SetPrimaryFlag(ctx, e.ID(), false); err != nil {
				return err
			}
		}
	}
	return nil
}
