package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/infra/config"
	"github.com/alexandre-hallaine/Camagru/internal/infra/database"
	kafkainfra "github.com/alexandre-hallaine/Camagru/internal/infra/kafka"
	"github.com/alexandre-hallaine/Camagru/internal/infra/logger"
	"github.com/alexandre-hallaine/Camagru/internal/infra/mailer"
	redisinfra "github.com/alexandre-hallaine/Camagru/internal/infra/redis"
	postgresrepo "github.com/alexandre-hallaine/Camagru/internal/repository/postgres"
	redisrepo "github.com/alexandre-hallaine/Camagru/internal/repository/redis"
	"github.com/alexandre-hallaine/Camagru/internal/transport/http/routes"
	"github.com/alexandre-hallaine/Camagru/internal/usecase"
)

// Application wires the service graph and owns process lifecycle.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	pool     *pgxpool.Pool
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
}

// New builds the full dependency graph: database, cache, mailer, event
// publisher, services, and HTTP routes.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := database.RunMigrations(ctx, cfg.Postgres, log); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)
	sessions := redisrepo.NewSessionStore(redisClient.Client(), cfg.Session.Prefix, cfg.Session.TTL)
	notifier := mailer.New(cfg.Mail, log)

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			producer = nil
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	actionService := usecase.NewActionService(repos.Actions, repos.Settings, repos, notifier, eventPublisher, cfg.App.PublicURL, log)
	authService := usecase.NewAuthService(repos.Users, sessions, repos, actionService, eventPublisher, log)
	settingsService := usecase.NewSettingsService(repos.Users, repos.Settings, actionService, log)
	galleryService := usecase.NewGalleryService(repos.Images, repos.Comments, repos.Likes, repos.Users, repos.Settings, notifier, cfg.Gallery.PageSize, log)
	overlayService := usecase.NewOverlayService(cfg.Gallery.OverlaysDir, log)

	engine := routes.Register(routes.Dependencies{
		Config:   cfg,
		Logger:   log,
		Sessions: sessions,
		Users:    repos.Users,
		Database: pool,
		Cache:    redisClient,
		Services: routes.ServiceSet{
			Auth:     authService,
			Settings: settingsService,
			Gallery:  galleryService,
			Overlays: overlayService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		pool:     pool,
		redis:    redisClient,
		producer: producer,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			if err := a.producer.Close(); err != nil {
				a.logger.Warn("failed to close kafka producer", zap.Error(err))
			}
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting Camagru API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
