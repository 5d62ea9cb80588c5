package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/config"
	"autumhire/internal/infra"
	"autumhire/internal/repositories"
)

var Module = fx.Provide(
	provideDB, provideTransactor)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := infra.OpenDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return infra.CloseDatabase(ctx, db)
		},
	})
	return db, nil
}

func provideTransactor(db *gorm.DB) repositories.Transactor {
	return repositories.NewTransactor(db)
}
