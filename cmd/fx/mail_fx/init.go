package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"autumhire/internal/config"
	"autumhire/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) services.IMailService {
	smtpCfg := services.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port, // 587 for STARTTLS; 465 with UseSSL
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
		UseSSL:   cfg.SMTP.UseSSL,

		AppName:      cfg.SMTP.FromName,
		AppBaseURL:   cfg.AppBaseURL,
		SupportEmail: cfg.SupportEmail,
	}
	if smtpCfg.Username == "" {
		log.Warn("SMTP_USERNAME not set, sending without authentication")
	}
	return services.NewSMTPMailService(smtpCfg, nil, log)
}
