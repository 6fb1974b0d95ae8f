package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Insert(ctx context.Context, s Staff) (Staff, error)
	GetByID(ctx context.Context, id uuid.UUID) (Staff, error)
	GetMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Staff, error)
	List(ctx context.Context) ([]Staff, error)
}
