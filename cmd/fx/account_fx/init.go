package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"autumhire/internal/config"
	"autumhire/internal/repositories"
	"autumhire/internal/services"
	"autumhire/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideCompanyRepo, provideInvitationRepo,
	provideTokenIssuer, provideCompanyService)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideCompanyRepo(db *gorm.DB) repositories.CompanyRepository {
	return repositories.NewCompanyRepository(db)
}

func provideInvitationRepo(db *gorm.DB) repositories.InvitationRepository {
	return repositories.NewInvitationRepository(db)
}

func provideTokenIssuer(cfg *config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, 0)
}

func provideAccountService(
	tx repositories.Transactor,
	accountRepo repositories.AccountRepository,
	companyRepo repositories.CompanyRepository,
	inviteRepo repositories.InvitationRepository,
	tokens *utils.TokenIssuer,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(tx, accountRepo, companyRepo, inviteRepo, tokens, log)
}

func provideCompanyService(
	accounts services.AccountServiceInterface,
	companyRepo repositories.CompanyRepository,
	inviteRepo repositories.InvitationRepository,
	mail services.IMailService,
	log *zap.Logger,
) services.CompanyServiceInterface {
	return services.NewCompanyService(accounts, companyRepo, inviteRepo, mail, log)
}
