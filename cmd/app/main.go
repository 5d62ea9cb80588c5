package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"autumhire/cmd/fx/account_fx"
	"autumhire/cmd/fx/controllers_fx"
	"autumhire/cmd/fx/dashboard_fx"
	"autumhire/cmd/fx/db_fx"
	"autumhire/cmd/fx/job_fx"
	"autumhire/cmd/fx/location_fx"
	"autumhire/cmd/fx/mail_fx"
	"autumhire/cmd/fx/memcache_fx"
	"autumhire/cmd/fx/notification_fx"
	"autumhire/cmd/fx/payment_service_fx"
	"autumhire/cmd/fx/scheduler_fx"
	"autumhire/internal/config"
	"autumhire/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(provideLogger),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),

		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		job_fx.Module,
		notification_fx.Module,
		payment_service_fx.Module,
		location_fx.Module,
		dashboard_fx.Module,
		scheduler_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if gin.Mode() == gin.ReleaseMode {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	logger.Info("configuration loaded",
		zap.String("db_driver", cfg.DBDriver),
		zap.String("payment_provider", cfg.PaymentProvider))
	return logger, nil
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(middleware.CORSMiddleware(p.Config.AppBaseURL))

	RegisterRoutes(r, p)

	return r
}
