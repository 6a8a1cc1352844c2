// Package server assembles the fiber application: middleware chain, health and
// metrics endpoints, and every API route group under the configured prefix.
package server

import (
	"context"
	"time"

	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth       *services.AuthService
	Stores     *services.StoreService
	Categories *services.CategoryService
	Products   *services.ProductService
	Links      *services.CategoryProductService
}

type Options struct {
	AppName string
	Prefix  string
	// AuthRateLimit requests per AuthRateWindow per IP on credential endpoints. Zero disables it.
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// Ping reports database health on /health when set.
	Ping func(ctx context.Context) error
}

// New builds the fiber app. It does not start listening.
func New(opts Options, svc Services, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      opts.AppName,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(
		middleware.RequestID(log),
		middleware.Metrics(),
		middleware.RequestLogger(),
		recover.New(),
	)

	app.Get("/health", health(opts.Ping))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	limit := func(c *fiber.Ctx) error { return c.Next() }
	if opts.AuthRateLimit > 0 {
		limit = middleware.RateLimiter(opts.AuthRateLimit, opts.AuthRateWindow)
	}
	authn := middleware.AuthRequired(svc.Auth)

	api := app.Group(opts.Prefix)
	handlers.NewAuthHandler(svc.Auth).RegisterRoutes(api, authn, limit)
	handlers.NewStoreHandler(svc.Stores).RegisterRoutes(api, authn)
	handlers.NewProductHandler(svc.Products).RegisterRoutes(api, authn)
	handlers.NewCategoryHandler(svc.Categories).RegisterRoutes(api, authn)
	handlers.NewCategoryProductHandler(svc.Links).RegisterRoutes(api, authn)

	return app
}

func health(ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code, database := "healthy", fiber.StatusOK, "unchecked"
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				status, code, database = "degraded", fiber.StatusServiceUnavailable, "unreachable"
			} else {
				database = "connected"
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"time":     time.Now().Format(time.RFC3339),
			"database": database,
		})
	}
}
