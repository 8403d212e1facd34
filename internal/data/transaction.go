package data

import (
	"context"

	"gorm.io/gorm"

	"github.com/just-nibble/repo-analytics/pkg/errcodes"
)

// WithTransaction runs fn in a transaction, committing on success and rolling back on error.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return errcodes.Translate(db.WithContext(ctx).Transaction(fn))
}

// WithTransactionResult is WithTransaction for functions that produce a value.
func WithTransactionResult[T any](ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T
	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		var err error
		result, err = fn(tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
