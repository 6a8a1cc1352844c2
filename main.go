package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/repositories"
	"storefront/internal/server"
	"storefront/internal/services"
	"storefront/pkg/cache"
	"storefront/pkg/mailer"
	"storefront/pkg/oauth"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.App.Env,
		ServiceName: cfg.App.Name,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := buildApp(ctx, cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	go func() {
		zlog.Info("starting server", zap.String("port", cfg.App.Port))
		if err := app.Listen(cfg.App.Port); err != nil {
			zlog.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()
	zlog.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		zlog.Error("error during fiber shutdown", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
}

// buildApp wires storage, cache, email delivery and services into a fiber app.
// The returned cleanup releases every connection opened here.
func buildApp(ctx context.Context, cfg *config.Config, zlog *zap.Logger) (*fiber.App, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				zlog.Warn("failed to release resource", zap.Error(err))
			}
		}
	}

	fail := func(err error) (*fiber.App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	db, err := database.Open(cfg.Database, cfg.App.Env, zlog)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, sqlDB.Close)
	if err := database.Migrate(db); err != nil {
		return fail(err)
	}

	listCache := newCache(ctx, cfg.Redis, cfg.App.Name, zlog, &closers)

	mail := mailer.New(mailer.Config{
		Host:       cfg.Mail.Host,
		Port:       cfg.Mail.Port,
		User:       cfg.Mail.User,
		Password:   cfg.Mail.Password,
		SenderName: cfg.Mail.SenderName,
	})
	var dispatcher services.EmailDispatcher = mail
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, zlog)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, mq.Close)
		if err := mq.ConsumeEmails(ctx, mail.Dispatch); err != nil {
			return fail(err)
		}
		dispatcher = mq
	}

	var google services.OAuthVerifier
	if cfg.Google.ClientID != "" {
		google = oauth.NewGoogleVerifier(cfg.Google.ClientID)
	}

	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)

	authService := services.NewAuthService(repositories.NewGORMUserRepository(db), services.AuthConfig{
		JWTSecret:     cfg.JWT.Secret,
		TokenTTL:      cfg.JWT.TTL,
		PublicBaseURL: cfg.App.PublicBaseURL,
	}, dispatcher, google, zlog)
	storeService := services.NewStoreService(repositories.NewGORMStoreRepository(db), listCache, zlog)

	app := server.New(server.Options{
		AppName:        cfg.App.Name,
		Prefix:         cfg.App.Prefix,
		AuthRateLimit:  20,
		AuthRateWindow: time.Minute,
		Ping:           sqlDB.PingContext,
	}, server.Services{
		Auth:       authService,
		Stores:     storeService,
		Categories: services.NewCategoryService(categoryRepo, storeService, listCache, zlog),
		Products:   services.NewProductService(productRepo, storeService, listCache, zlog),
		Links: services.NewCategoryProductService(
			repositories.NewGORMCategoryProductRepository(db), categoryRepo, productRepo, storeService, zlog),
	}, zlog)
	return app, cleanup, nil
}

// newCache prefers Redis and falls back to process memory when it is disabled or unreachable.
func newCache(ctx context.Context, cfg config.RedisConfig, namespace string, zlog *zap.Logger, closers *[]func() error) cache.Cache {
	if !cfg.Enabled {
		zlog.Info("redis disabled, using in-memory list cache")
		return cache.NewMemoryCache()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rc, err := cache.NewRedisCache(pingCtx, cache.RedisOptions{
		Addr:      cfg.Addr,
		Password:  cfg.Password,
		DB:        cfg.DB,
		Namespace: namespace,
	})
	if err != nil {
		zlog.Warn("redis unavailable, using in-memory list cache", zap.Error(err))
		return cache.NewMemoryCache()
	}
	*closers = append(*closers, rc.Close)
	return rc
}
