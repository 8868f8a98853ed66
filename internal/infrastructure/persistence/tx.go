package persistence

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// InTransaction implements shared.Transactor. The callback's context carries
// the open transaction; repositories created from this Database pick it up
// automatically, so nested repository calls join the same transaction.
func (d *Database) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		// Already inside a transaction, just run the callback
		return fn(ctx)
	}
	return d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFor returns the transaction bound to the context when present, otherwise
// the fallback connection
func dbFor(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
