package routes

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"jobboard/internal/api/handlers"
	"jobboard/internal/api/middleware"
	"jobboard/internal/applications"
	"jobboard/internal/categories"
	"jobboard/internal/config"
	"jobboard/internal/identity"
	"jobboard/internal/jobs"
	"jobboard/internal/logging"
	"jobboard/internal/otp"
)

// Services are the application services the routes dispatch to
type Services struct {
	Identity     *identity.Service
	Jobs         *jobs.Service
	Applications *applications.Service
	Categories   *categories.Service
	OTP          *otp.Service

	// ImageDir is served under cfg.Storage.URLPath when images are stored locally
	ImageDir     string
	HealthChecks []handlers.HealthCheck
}

// SessionCookie derives the session cookie settings from cfg
func SessionCookie(cfg *config.Config) middleware.SessionCookie {
	return middleware.SessionCookie{
		Name:   cfg.Identity.CookieName,
		Secure: cfg.Identity.CookieSecure,
		MaxAge: cfg.Identity.SessionIdleTimeout,
	}
}

// SetupRoutes configures all routes
func SetupRoutes(e *echo.Echo, cfg *config.Config, svc Services, logger logging.Logger) {
	cookie := SessionCookie(cfg)

	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestValidation(cfg.Storage.MaxBytes + 1<<20))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.CORSConfig(cfg.Server.AllowedOrigins))
	e.Use(middleware.TimeoutConfig(cfg.Server.ReadTimeout))
	e.Use(middleware.SessionAuth(svc.Identity, cookie, logger))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(svc.HealthChecks...))
		health.GET("/live", handlers.LivenessHandler)
	}

	if svc.ImageDir != "" {
		e.Static(cfg.Storage.URLPath, svc.ImageDir)
	}

	// Home
	e.GET("/", handlers.HomeIndexHandler(svc.Jobs))
	home := e.Group("/Home")
	{
		home.GET("", handlers.HomeIndexHandler(svc.Jobs))
		home.GET("/Index", handlers.HomeIndexHandler(svc.Jobs))
		home.GET("/Privacy", handlers.PrivacyHandler)
		home.GET("/Error", handlers.ErrorPageHandler)
	}

	// Jobs
	jobsGroup := e.Group("/Jobs")
	{
		jobsGroup.GET("", handlers.JobsIndexHandler(svc.Jobs))
		jobsGroup.GET("/Index", handlers.JobsIndexHandler(svc.Jobs))
		jobsGroup.GET("/Details/:id", handlers.JobDetailsHandler(svc.Jobs))
		jobsGroup.GET("/Create", handlers.JobCreateFormHandler(svc.Jobs))
		jobsGroup.POST("/Create", handlers.JobCreateHandler(svc.Jobs))
		jobsGroup.GET("/Edit/:id", handlers.JobEditFormHandler(svc.Jobs))
		jobsGroup.POST("/Edit/:id", handlers.JobEditHandler(svc.Jobs))
		jobsGroup.GET("/Delete/:id", handlers.JobDeleteConfirmHandler(svc.Jobs))
		jobsGroup.POST("/Delete/:id", handlers.JobDeleteHandler(svc.Jobs))
	}

	// Applications, all signed in only
	apps := e.Group("/Applications", middleware.RequireAuth())
	{
		apps.GET("", handlers.ApplicationsIndexHandler(svc.Applications))
		apps.GET("/Index", handlers.ApplicationsIndexHandler(svc.Applications))
		apps.GET("/EmployerIndex", handlers.EmployerIndexHandler(svc.Applications))
		apps.GET("/Create", handlers.ApplicationCreateFormHandler(svc.Applications))
		apps.POST("/Create", handlers.ApplicationCreateHandler(svc.Applications))
		apps.POST("/Approve/:id", handlers.ApplicationApproveHandler(svc.Applications))
		apps.POST("/Reject/:id", handlers.ApplicationRejectHandler(svc.Applications))
		apps.POST("/Delete/:id", handlers.ApplicationDeleteHandler(svc.Applications))
	}

	// Job categories
	cats := e.Group("/JobCategories")
	{
		cats.GET("", handlers.CategoriesIndexHandler(svc.Categories))
		cats.POST("/Create", handlers.CategoryCreateHandler(svc.Categories))
		cats.POST("/Approve/:id", handlers.CategoryApproveHandler(svc.Categories))
	}

	// OTP
	otpGroup := e.Group("/Otp")
	{
		otpGroup.POST("/SendOtp", handlers.SendOtpHandler(svc.OTP))
		otpGroup.POST("/VerifyOtp", handlers.VerifyOtpHandler(svc.OTP))
	}

	// Identity
	account := e.Group("/Identity/Account")
	{
		account.POST("/Register", handlers.RegisterHandler(svc.Identity, cookie))
		account.GET("/RegisterConfirmation", handlers.RegisterConfirmationHandler)
		account.GET("/ConfirmEmail", handlers.ConfirmEmailHandler(svc.Identity))
		account.POST("/Login", handlers.LoginHandler(svc.Identity, cookie))
		account.POST("/Logout", handlers.LogoutHandler(svc.Identity, cookie))
	}
	e.GET(middleware.AccessDeniedPath, handlers.AccessDeniedHandler)
}
