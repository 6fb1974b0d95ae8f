package services

import "context"

// Transactor runs a callback as one atomic unit of work. The close and
// insert of a role transition either both commit or neither is visible.
type Transactor interface {
	InTx(ctx context.Context, fn func(context.Context) error) error
}
