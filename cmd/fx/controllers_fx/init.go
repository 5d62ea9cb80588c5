package controllers_fx

import (
	"go.uber.org/fx"

	"autumhire/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewCompanyController),
	fx.Provide(controllers.NewIndustryController),
	fx.Provide(controllers.NewPlanController),
	fx.Provide(controllers.NewJobController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewNotificationController),
	fx.Provide(controllers.NewSubscriberController),
	fx.Provide(controllers.NewLocationController),
	fx.Provide(controllers.NewDashboardController),
	fx.Invoke(controllers.RegisterValidators),
)
