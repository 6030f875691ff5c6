package scheduler

import (
	"context"

	"github.com/mkarimzade/Simorgh/repository"
	"gorm.io/gorm"
)

// GormTxRunner runs commit functions inside a database transaction. The
// transaction handle travels through the context so the repositories pick it
// up transparently.
type GormTxRunner struct {
	db *gorm.DB
}

// NewGormTxRunner creates a TxRunner backed by the given database
func NewGormTxRunner(db *gorm.DB) *GormTxRunner {
	return &GormTxRunner{db: db}
}

// InTx executes fn inside a single transaction, rolling back on error
func (r *GormTxRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return repository.WithTransaction(ctx, r.db, fn)
}
