package location_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"autumhire/internal/config"
	"autumhire/internal/services"
	mem "autumhire/pkg/memcache"
)

var Module = fx.Provide(provideGeocoder)

func provideGeocoder(cfg *config.Config, cache mem.Cache, log *zap.Logger) services.GeocodeServiceInterface {
	return services.NewNominatimClient(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent, cache, log)
}
