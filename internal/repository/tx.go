package repository

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner executes fn inside one database transaction. Every ledger
// operation (movement, multi-line sale, session close, credit payment) runs
// under exactly one TxRunner.Do call — an error from fn rolls the whole
// operation back.
type TxRunner interface {
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxRunner struct{ db *gorm.DB }

func NewTxRunner(db *gorm.DB) TxRunner { return &gormTxRunner{db: db} }

func (r *gormTxRunner) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
