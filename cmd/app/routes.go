package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"autumhire/internal/api/controllers"
	"autumhire/internal/config"
	"autumhire/internal/models/db_models"
	"autumhire/pkg/middleware"
	"autumhire/pkg/utils"
)

type RouterParams struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
	Tokens *utils.TokenIssuer

	Accounts      *controllers.AccountController
	Companies     *controllers.CompanyController
	Industries    *controllers.IndustryController
	Plans         *controllers.PlanController
	Jobs          *controllers.JobController
	Payments      *controllers.PaymentController
	Notifications *controllers.NotificationController
	Subscribers   *controllers.SubscriberController
	Locations     *controllers.LocationController
	Dashboard     *controllers.DashboardController
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	auth := middleware.JWTAuthMiddleware(p.Tokens)
	optionalAuth := middleware.OptionalJWTMiddleware(p.Tokens)
	companyAdmin := middleware.RoleMiddleware(string(db_models.RoleAdmin))
	superOnly := middleware.RoleMiddleware(string(db_models.RoleSuper))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Legacy mail endpoints kept at the root.
	r.POST("/send-job-alert", auth, p.Notifications.SendJobAlert)
	r.POST("/notify-job-posted", auth, p.Notifications.NotifyJobPosted)
	r.POST("/send-contact-message", p.Notifications.SendContactMessage)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", p.Accounts.Register)
	authGroup.POST("/login", p.Accounts.Login)
	api.GET("/me", auth, p.Accounts.Me)

	companies := api.Group("/companies", auth)
	companies.POST("/invitations", companyAdmin, p.Companies.Invite)
	companies.GET("/invitations", companyAdmin, p.Companies.ListInvitations)
	companies.PATCH("/me", companyAdmin, p.Companies.UpdateProfile)
	companies.GET("/me/jobs", p.Companies.ListMyJobs)

	api.GET("/industries", p.Industries.ListIndustries)
	api.POST("/industries", auth, p.Industries.CreateIndustry)
	api.GET("/plans", p.Plans.ListPlans)

	jobs := api.Group("/jobs")
	jobs.GET("", p.Jobs.ListJobs)
	jobs.POST("", auth, p.Jobs.CreateJob)
	jobs.GET("/:id", optionalAuth, p.Jobs.GetJob)
	jobs.POST("/:id/close", auth, p.Jobs.CloseJob)

	admin := api.Group("/admin", auth, superOnly)
	admin.POST("/jobs/:id/deactivate", p.Jobs.DeactivateJob)
	admin.POST("/users/:id/active", p.Accounts.SetUserActive)
	admin.GET("/dashboard", p.Dashboard.GetDashboard)

	instasend := api.Group("/instasend")
	instasend.POST("/initiate-payment", optionalAuth, p.Payments.InitiatePayment)
	instasend.POST("/check-status", p.Payments.CheckStatus)
	instasend.POST("/callback", p.Payments.InstasendCallback)
	api.POST("/mpesa/callback", p.Payments.MpesaCallback)

	api.POST("/subscribers", p.Subscribers.Subscribe)
	api.DELETE("/subscribers/:email", p.Subscribers.Unsubscribe)

	api.GET("/locations/search", p.Locations.SearchLocations)
}
