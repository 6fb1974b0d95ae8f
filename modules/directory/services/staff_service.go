package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/staff"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
)

// StaffService maintains the staff register. Other modules use it to
// resolve holder ids into display names.
type StaffService struct {
	repo      staff.Repository
	tx        Transactor
	publisher eventbus.EventBus
}

func NewStaffService(repo staff.Repository, tx Transactor, publisher eventbus.EventBus) *StaffService {
	return &StaffService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
	}
}

func (s *StaffService) Create(ctx context.Context, staffNo, firstName, lastName, email string) (staff.Staff, error) {
	next, err := staff.New(staffNo, firstName, lastName, email)
	if err != nil {
		return staff.Staff{}, err
	}

	var created staff.Staff
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		created, err = s.repo.Insert(txCtx, next)
		return err
	})
	if err != nil {
		return staff.Staff{}, mapPgError(err)
	}

	s.publisher.Publish("staff.created", created)
	return created, nil
}

func (s *StaffService) GetByID(ctx context.Context, id uuid.UUID) (staff.Staff, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return staff.Staff{}, mapPgError(err)
	}
	return member, nil
}

func (s *StaffService) GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]staff.Staff, error) {
	out, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}

func (s *StaffService) List(ctx context.Context) ([]staff.Staff, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}
