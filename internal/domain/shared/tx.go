package shared

import "context"

// Transactor runs a function inside a single storage transaction. Repository
// calls made with the callback's context join that transaction; any error
// rolls the whole transaction back.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
