package persistence

import (
	"context"

	"github.com/emabi2002/npiams-sub001/pkg/composables"
)

// PgxTransactor runs callbacks inside a database transaction using the
// pool carried on the context. The close/insert pair of a role
// transition commits or rolls back as one unit through this.
type PgxTransactor struct{}

func NewTransactor() *PgxTransactor {
	return &PgxTransactor{}
}

func (t *PgxTransactor) InTx(ctx context.Context, fn func(context.Context) error) error {
	return composables.InTx(ctx, fn)
}
