// Package routes handles the setup and configuration of routes
package routes

import (
	"html/template"

	_ "rubconv/docs" // Import swagger docs
	"rubconv/internal/api/handlers"
	"rubconv/internal/api/middleware"
	"rubconv/internal/config"
	"rubconv/internal/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Dependencies are the services the routes are wired to
type Dependencies struct {
	Catalog   handlers.CurrencyCatalog
	Converter handlers.Converter
	Tokens    middleware.TokenValidator
	Logger    *zap.Logger
}

// SetupRoutes configures the form page, the JSON API and their middleware.
// The returned stop func releases the rate limiter's background cleanup.
func SetupRoutes(cfg *config.Config, deps Dependencies) (*gin.Engine, func()) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))

	// Apply compression middleware globally
	r.Use(middleware.Compression(middleware.DefaultCompressionConfig()))

	r.SetHTMLTemplate(template.Must(web.Templates()))

	// Routes without rate limiting
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Apply rate limiting to all other routes
	limiter := middleware.NewRateLimiter(cfg)
	r.Use(limiter.Middleware())

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 3600})
	r.Use(sessions.Sessions(cfg.Session.Name, store))

	formHandler := handlers.NewFormHandler(deps.Catalog, deps.Converter, logger)
	apiHandler := handlers.NewAPIHandler(deps.Catalog, deps.Converter, logger)
	healthHandler := handlers.NewHealthHandler(deps.Catalog)

	r.GET("/", formHandler.Show)
	r.POST("/", formHandler.Submit)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)
		v1.GET("/convert", apiHandler.Convert)

		currencies := v1.Group("/currencies")
		{
			currencies.GET("", apiHandler.ListCurrencies)
			currencies.POST("/refresh", middleware.OperatorRequired(deps.Tokens), apiHandler.RefreshCurrencies)
		}
	}

	return r, limiter.Stop
}
