package program

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Insert(ctx context.Context, p Program) (Program, error)
	GetByID(ctx context.Context, id uuid.UUID) (Program, error)
	List(ctx context.Context) ([]Program, error)
	ListForDepartment(ctx context.Context, departmentID uuid.UUID) ([]Program, error)
}
