package services

import "context"

// Transactor runs a callback as one atomic unit of work.
type Transactor interface {
	InTx(ctx context.Context, fn func(context.Context) error) error
}
