package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs a function inside a database transaction. Repositories called with the
// context handed to fn execute on that transaction.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a new transactor
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db scoped to ctx
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
