package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/program"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
)

// ProgramService maintains the study-program register.
type ProgramService struct {
	repo      program.Repository
	tx        Transactor
	publisher eventbus.EventBus
}

func NewProgramService(repo program.Repository, tx Transactor, publisher eventbus.EventBus) *ProgramService {
	return &ProgramService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
	}
}

func (s *ProgramService) Create(ctx context.Context, departmentID uuid.UUID, code, name string) (program.Program, error) {
	next, err := program.New(departmentID, code, name)
	if err != nil {
		return program.Program{}, err
	}

	var created program.Program
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		created, err = s.repo.Insert(txCtx, next)
		return err
	})
	if err != nil {
		return program.Program{}, mapPgError(err)
	}

	s.publisher.Publish("program.created", created)
	return created, nil
}

func (s *ProgramService) GetByID(ctx context.Context, id uuid.UUID) (program.Program, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return program.Program{}, mapPgError(err)
	}
	return p, nil
}

func (s *ProgramService) List(ctx context.Context) ([]program.Program, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}

func (s *ProgramService) ListForDepartment(ctx context.Context, departmentID uuid.UUID) ([]program.Program, error) {
	out, err := s.repo.ListForDepartment(ctx, departmentID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}
