package middleware

import (
	"strconv"
	"time"

	"storefront/internal/logger"
	"storefront/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const HeaderRequestID = "X-Request-ID"

// RequestID tags each request with an id and a request-scoped logger.
// The logger is reachable from fiber locals and from c.UserContext().
func RequestID(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(HeaderRequestID, requestID)

		ctxLogger := base.With(zap.String("request_id", requestID))
		c.Locals(logger.LocalsKey, ctxLogger)
		c.SetUserContext(logger.WithContext(c.UserContext(), ctxLogger))
		return c.Next()
	}
}

// resolve renders a pending chain error so the final status is known.
func resolve(c *fiber.Ctx, err error) {
	if err == nil {
		return
	}
	if handleErr := c.App().ErrorHandler(c, err); handleErr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
}

// RequestLogger logs every request once it has been answered.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		resolve(c, chainErr)

		status := c.Response().StatusCode()
		fields := []zapcore.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		}

		log := logger.FromContext(c.UserContext(), nil)
		switch {
		case status >= fiber.StatusInternalServerError:
			if chainErr != nil {
				fields = append(fields, zap.Error(chainErr))
			}
			log.Error("HTTP request failed", fields...)
		default:
			log.Info("HTTP request completed", fields...)
		}
		return nil
	}
}

// Metrics records request count and latency labelled by route pattern.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		resolve(c, c.Next())

		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveRequest(c.Method(), path, strconv.Itoa(c.Response().StatusCode()), start)
		return nil
	}
}
