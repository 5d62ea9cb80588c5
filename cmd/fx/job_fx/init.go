package job_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/config"
	"autumhire/internal/repositories"
	"autumhire/internal/services"
)

var Module = fx.Options(
	fx.Provide(
		providePlanRepo, providePlanService,
		provideJobRepo, provideJobService,
		provideIndustryRepo, services.NewIndustryService,
	),
	fx.Invoke(seedPlans),
)

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func providePlanService(repo repositories.IPlanRepository, log *zap.Logger) services.PlanServiceInterface {
	return services.NewPlanService(repo, log)
}

func provideJobRepo(db *gorm.DB) repositories.JobRepository {
	return repositories.NewJobRepository(db)
}

func provideJobService(
	jobRepo repositories.JobRepository,
	companyRepo repositories.CompanyRepository,
	accounts services.AccountServiceInterface,
	plans services.PlanServiceInterface,
	log *zap.Logger,
) services.JobServiceInterface {
	return services.NewJobService(jobRepo, companyRepo, accounts, plans, log)
}

func provideIndustryRepo(db *gorm.DB) repositories.IndustryRepository {
	return repositories.NewIndustryRepository(db)
}

// seedPlans upserts the embedded plan catalog before the server accepts
// requests.
func seedPlans(lc fx.Lifecycle, plans services.PlanServiceInterface) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			catalog, err := config.PlanCatalog()
			if err != nil {
				return err
			}
			return plans.Seed(ctx, catalog)
		},
	})
}
