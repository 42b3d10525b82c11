package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/carhub/listings-api/docs"
	"github.com/carhub/listings-api/internal/api/handler"
	"github.com/carhub/listings-api/internal/api/middleware"
	"github.com/carhub/listings-api/internal/core/ports"
	"github.com/carhub/listings-api/internal/core/service"
	"github.com/carhub/listings-api/internal/infrastructure/config"
	mongorepo "github.com/carhub/listings-api/internal/infrastructure/db/mongo"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, blobs ports.BlobStore, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("carhub"))

	// --- Dependencies ---
	authRepo := mongorepo.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL, log)
	authHandler := handler.NewAuthHandler(authService)

	carRepo := mongorepo.NewCarRepository(db)
	carService := service.NewCarService(carRepo, blobs, cfg.Upload.RequireImage, cfg.Upload.MaxImages, log)
	carHandler := handler.NewCarHandler(carService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)

	// --- User routes ---
	e.POST("/api/users/signup", authHandler.Signup)
	e.POST("/api/users/login", authHandler.Login)

	// --- Car routes (all owner-scoped behind auth) ---
	cars := e.Group("/api/cars", authMiddleware)
	cars.POST("", carHandler.Create)
	cars.GET("", carHandler.List)
	// Registered before /:id so "search" is never parsed as a listing id.
	cars.GET("/search", carHandler.Search)
	cars.GET("/:id", carHandler.Get)
	cars.PUT("/:id", carHandler.Update)
	cars.DELETE("/:id", carHandler.Delete)

	// --- Locally stored images ---
	if cfg.Storage.Backend == config.StorageBackendLocal {
		e.Static(cfg.Storage.PublicPrefix, cfg.Storage.LocalDir)
	}

	// --- Health probes, metrics, docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db)

	e.GET("/", healthHandler.Homepage)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness)  // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/api/docs/*", echoswagger.WrapHandler)

	return e
}
