package repositories

import (
	"context"

	"gorm.io/gorm"

	"autumhire/internal/infra"
)

// Transactor runs fn in one database transaction; repositories called with
// the context it hands to fn join that transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return infra.WithTx(ctx, t.db, fn)
}
