package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/config"
	"github.com/alexandre-hallaine/Camagru/internal/transport/http/handlers"
	"github.com/alexandre-hallaine/Camagru/internal/transport/http/middleware"
	"github.com/alexandre-hallaine/Camagru/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth     *usecase.AuthService
	Settings *usecase.SettingsService
	Gallery  *usecase.GalleryService
	Overlays *usecase.OverlayService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Sessions port.SessionStore
	Users    port.UserRepository
	Database DatabaseChecker
	Cache    CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS(deps.Config.App.CORSOrigins))

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{}); err != nil {
		deps.Logger.Warn("http metrics disabled", zap.Error(err))
	} else {
		r.Use(metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cookieName := deps.Config.Session.CookieName
	requireSession := middleware.RequireSession(deps.Sessions, deps.Users, cookieName)
	optionalSession := middleware.OptionalSession(deps.Sessions, cookieName)

	api := r.Group("/api")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Config.Session)

		auth := api.Group("/auth")
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/reset", authHandler.Reset)
		auth.GET("/token", authHandler.Redeem)
		auth.POST("/token", authHandler.Redeem)
		auth.POST("/logout", optionalSession, authHandler.Logout)

		settingsHandler := handlers.NewSettingsHandler(deps.Services.Settings, deps.Sessions)
		settings := api.Group("/settings", requireSession)
		settings.GET("", settingsHandler.Get)
		settings.POST("", settingsHandler.Update)

		imagesHandler := handlers.NewImagesHandler(deps.Services.Gallery)
		api.GET("/images", optionalSession, imagesHandler.Feed)

		images := api.Group("/images", requireSession)
		images.POST("", imagesHandler.Create)
		images.DELETE("/:id", imagesHandler.Delete)
		images.POST("/:id/like", imagesHandler.Like)
		images.POST("/:id/comments", imagesHandler.Comment)

		overlaysHandler := handlers.NewOverlaysHandler(deps.Services.Overlays)
		api.GET("/overlays", overlaysHandler.List)
	}

	return r
}
