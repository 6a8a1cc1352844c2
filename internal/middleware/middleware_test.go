package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/apperror"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubValidator map[string]*models.User

func (s stubValidator) ValidateToken(_ context.Context, token string) (*models.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	return nil, apperror.Unauthorized("Token not valid")
}

func newApp(tokens stubValidator, roles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(middleware.RequestID(zap.NewNop()), middleware.Metrics(), middleware.RequestLogger())

	chain := []fiber.Handler{middleware.AuthRequired(tokens)}
	if len(roles) > 0 {
		chain = append(chain, middleware.RequireRoles(roles...))
	}
	chain = append(chain, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"email": middleware.CurrentUser(c).Email})
	})
	app.Get("/private", chain...)
	return app
}

func call(t *testing.T, app *fiber.App, authHeader string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestAuthRequired(t *testing.T) {
	app := newApp(stubValidator{"good": {ID: 1, Email: "a@example.com"}})

	status, body := call(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authorization header is required", body["message"])

	status, _ = call(t, app, "Token good")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = call(t, app, "Bearer bad")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token not valid", body["message"])

	status, body = call(t, app, "Bearer good")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@example.com", body["email"])
}

func TestRequireRoles(t *testing.T) {
	tokens := stubValidator{
		"user":  {ID: 1, Email: "u@example.com", Roles: models.StringArray{models.RoleUser}},
		"admin": {ID: 2, Email: "a@example.com", Roles: models.StringArray{models.RoleAdmin}},
	}
	app := newApp(tokens, models.RoleAdmin)

	status, body := call(t, app, "Bearer user")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, body["message"], "u@example.com")

	status, _ = call(t, app, "Bearer admin")
	assert.Equal(t, http.StatusOK, status)
}

func TestRequestIDPropagates(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RequestID(zap.NewNop()))
	var fromCtx *zap.Logger
	app.Get("/", func(c *fiber.Ctx) error {
		fromCtx = logger.FromContext(c.UserContext(), nil)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(middleware.HeaderRequestID))
	assert.NotNil(t, fromCtx)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(middleware.HeaderRequestID), 36)
}

func TestRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", middleware.RateLimiter(2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil), -1)
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
