package middleware

import (
	"context"
	"strings"

	"storefront/internal/apperror"
	"storefront/internal/logger"
	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserKey is the fiber locals key holding the authenticated *models.User.
const UserKey = "user"

// TokenValidator resolves a session token to its active user.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*models.User, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || parts[1] == "" {
			return apperror.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		user, err := auth.ValidateToken(c.UserContext(), parts[1])
		if err != nil {
			logger.FromContext(c.UserContext(), nil).Debug("jwt validation failed", zap.Error(err))
			return err
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// RequireRoles rejects users holding none of roles. It must run after AuthRequired.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return apperror.Unauthorized("Token not valid")
		}
		if !user.HasAnyRole(roles...) {
			return apperror.Forbidden("User %s needs a valid role: [%s]", user.Email, strings.Join(roles, ", "))
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by AuthRequired, or nil on public routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(UserKey).(*models.User)
	return user
}
