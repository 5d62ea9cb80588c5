package memcache_fx

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"autumhire/internal/config"
	"autumhire/internal/infra"
	mem "autumhire/pkg/memcache"
)

const dialTimeout = 5 * time.Second

var Module = fx.Provide(provideCache)

// provideCache uses redis when REDIS_URL is set and an in-process TTL cache
// otherwise.
func provideCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (mem.Cache, error) {
	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-memory cache")
		return mem.NewTTLCache(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	rdb, err := infra.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return rdb.Close() },
	})
	log.Info("redis cache connected")
	return mem.NewRedisCache(rdb, "autumhire:"), nil
}
