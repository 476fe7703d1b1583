package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bazarly/vendor-portal/docs"
	"github.com/bazarly/vendor-portal/internal/api/handler"
	"github.com/bazarly/vendor-portal/internal/api/middleware"
	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/service"
	"github.com/bazarly/vendor-portal/internal/infrastructure/backend"
	"github.com/bazarly/vendor-portal/internal/infrastructure/config"
	mongodb "github.com/bazarly/vendor-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/bazarly/vendor-portal/internal/infrastructure/db/redis"
	"github.com/bazarly/vendor-portal/internal/infrastructure/memory"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("vendorportal"))

	// --- Infrastructure ---
	sessionRepo := redisdb.NewSessionRepository(rdb, cfg.Session.TTL)
	submissionRepo := mongodb.NewSubmissionRepository(db)
	draftStore := memory.NewDraftStore()

	sharedClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)
	authAPI := backend.NewAuthClient(sharedClient)
	vendorAPI := backend.NewVendorClient(sharedClient)
	productAPI := backend.NewProductClient(sharedClient)

	// --- Services ---
	sessionService := service.NewSessionService(sessionRepo, draftStore, authAPI, vendorAPI, log)
	// The shared client refreshes and evicts sessions through the observer;
	// wired after construction because the session service depends on the
	// clients.
	sharedClient.SetSignals(sessionService)

	wizardService := service.NewWizardService(draftStore, log)
	submissionService := service.NewSubmissionService(draftStore, sessionService, vendorAPI, submissionRepo, log)
	productService := service.NewProductService(sessionService, productAPI, vendorAPI, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(sessionService)
	wizardHandler := handler.NewWizardHandler(wizardService)
	reviewHandler := handler.NewReviewHandler(submissionService)
	productHandler := handler.NewProductHandler(productService)

	sessionGuard := middleware.Session(sessionService)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Wizard routes ---
	wizard := e.Group("/v1/wizard", sessionGuard)
	wizard.GET("", wizardHandler.View)
	wizard.PUT("/sections/:step", wizardHandler.UpdateSection)
	wizard.POST("/next", wizardHandler.Next)
	wizard.POST("/prev", wizardHandler.Prev)
	wizard.POST("/goto/:step", wizardHandler.Goto)
	wizard.POST("/pickup", wizardHandler.AppendPickupAddress)
	wizard.PUT("/pickup/:index", wizardHandler.UpdatePickupAddress)
	wizard.DELETE("/pickup/:index", wizardHandler.RemovePickupAddress)
	wizard.PUT("/documents/:slot", wizardHandler.AttachDocument)
	wizard.DELETE("/documents/:slot", wizardHandler.RemoveDocument)

	// --- Review & submission ---
	review := e.Group("/v1/review", sessionGuard)
	review.GET("", reviewHandler.Preview)
	review.POST("/submit", reviewHandler.Submit)

	// --- Vendor & products ---
	e.GET("/v1/vendor", productHandler.Vendor, sessionGuard)

	products := e.Group("/v1/products", sessionGuard, middleware.RBAC(domain.RoleVendor, domain.RoleAdmin))
	products.POST("", productHandler.Create)
	products.GET("", productHandler.List)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete)
	products.PATCH("/:id", productHandler.PatchImmediate)
	products.POST("/:id/review", productHandler.SubmitForReview)

	// Brands are public catalog data.
	e.GET("/v1/catalog/brands", productHandler.Brands)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
