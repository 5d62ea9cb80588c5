package notification_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/config"
	"autumhire/internal/repositories"
	"autumhire/internal/services"
)

var Module = fx.Provide(
	provideSubscriberRepo, services.NewSubscriberService, provideNotificationService)

func provideSubscriberRepo(db *gorm.DB) repositories.SubscriberRepository {
	return repositories.NewSubscriberRepository(db)
}

func provideNotificationService(
	cfg *config.Config,
	subs repositories.SubscriberRepository,
	jobs services.JobServiceInterface,
	accounts services.AccountServiceInterface,
	plans services.PlanServiceInterface,
	mail services.IMailService,
	log *zap.Logger,
) services.NotificationServiceInterface {
	return services.NewNotificationService(subs, jobs, accounts, plans, mail, cfg.NotifyConcurrency, log.Named("notifications"))
}
