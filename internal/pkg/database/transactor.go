package database

import "context"

// Transactor runs fn inside a unit of work. Repositories called with the
// context handed to fn join that unit of work.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
