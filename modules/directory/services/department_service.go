package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/emabi2002/npiams-sub001/modules/directory/domain/department"
	"github.com/emabi2002/npiams-sub001/pkg/eventbus"
)

// DepartmentService maintains the department register.
type DepartmentService struct {
	repo      department.Repository
	tx        Transactor
	publisher eventbus.EventBus
}

func NewDepartmentService(repo department.Repository, tx Transactor, publisher eventbus.EventBus) *DepartmentService {
	return &DepartmentService{
		repo:      repo,
		tx:        tx,
		publisher: publisher,
	}
}

func (s *DepartmentService) Create(ctx context.Context, code, name string) (department.Department, error) {
	next, err := department.New(code, name)
	if err != nil {
		return department.Department{}, err
	}

	var created department.Department
	err = s.tx.InTx(ctx, func(txCtx context.Context) error {
		created, err = s.repo.Insert(txCtx, next)
		return err
	})
	if err != nil {
		return department.Department{}, mapPgError(err)
	}

	s.publisher.Publish("department.created", created)
	return created, nil
}

func (s *DepartmentService) Rename(ctx context.Context, id uuid.UUID, name string) (department.Department, error) {
	var updated department.Department
	err := s.tx.InTx(ctx, func(txCtx context.Context) error {
		current, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		renamed, err := current.Renamed(name)
		if err != nil {
			return err
		}
		updated, err = s.repo.Update(txCtx, renamed)
		return err
	})
	if err != nil {
		return department.Department{}, mapPgError(err)
	}

	s.publisher.Publish("department.renamed", updated)
	return updated, nil
}

func (s *DepartmentService) GetByID(ctx context.Context, id uuid.UUID) (department.Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return department.Department{}, mapPgError(err)
	}
	return d, nil
}

func (s *DepartmentService) List(ctx context.Context) ([]department.Department, error) {
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapPgError(err)
	}
	return out, nil
}
