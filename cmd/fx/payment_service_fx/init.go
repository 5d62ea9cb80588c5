package payment_service_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/config"
	"autumhire/internal/repositories"
	"autumhire/internal/services"
	"autumhire/pkg/gateways"
	"autumhire/pkg/gateways/instasend"
	"autumhire/pkg/gateways/mpesa"
)

var Module = fx.Provide(
	provideGateways, provideAttemptRepo, providePaymentService,
)

// provideGateways builds every integration that has credentials; callbacks
// from either are accepted, STK pushes go through PAYMENT_PROVIDER.
func provideGateways(cfg *config.Config) []gateways.Gateway {
	var gws []gateways.Gateway
	if cfg.InstaSend.SecretKey != "" {
		gws = append(gws, instasend.NewClient(instasend.Config{
			BaseURL:        cfg.InstaSend.BaseURL,
			SecretKey:      cfg.InstaSend.SecretKey,
			PublishableKey: cfg.InstaSend.PublishableKey,
		}, nil))
	}
	if cfg.Mpesa.ConsumerKey != "" {
		gws = append(gws, mpesa.NewClient(mpesa.Config{
			BaseURL:        cfg.Mpesa.BaseURL,
			ConsumerKey:    cfg.Mpesa.ConsumerKey,
			ConsumerSecret: cfg.Mpesa.ConsumerSecret,
			ShortCode:      cfg.Mpesa.ShortCode,
			PassKey:        cfg.Mpesa.PassKey,
			CallbackURL:    cfg.Mpesa.CallbackURL,
		}, nil))
	}
	return gws
}

func provideAttemptRepo(db *gorm.DB) repositories.PaymentAttemptRepository {
	return repositories.NewPaymentAttemptRepository(db)
}

func providePaymentService(
	lc fx.Lifecycle,
	cfg *config.Config,
	gws []gateways.Gateway,
	attempts repositories.PaymentAttemptRepository,
	jobRepo repositories.JobRepository,
	plans services.PlanServiceInterface,
	jobs services.JobServiceInterface,
	notifications services.NotificationServiceInterface,
	log *zap.Logger,
) (services.PaymentServiceInterface, error) {
	instance, err := services.NewPaymentService(services.PaymentConfig{
		Provider:         cfg.PaymentProvider,
		WebhookChallenge: cfg.InstaSend.WebhookChallenge,
		Poll: services.PollPolicy{
			InitialDelay: cfg.Poll.InitialDelay,
			Interval:     cfg.Poll.Interval,
			MaxAttempts:  cfg.Poll.MaxAttempts,
		},
	}, gws, attempts, jobRepo, plans, jobs, notifications, log.Named("payments"))
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return instance.Shutdown(ctx)
		},
	})
	return instance, nil
}
