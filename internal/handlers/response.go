package handlers

import (
	"errors"

	"storefront/internal/apperror"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders every error returned by a handler or middleware as
// {"message": ..., "errors": ...}. It is installed as the fiber app ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"message": fiberErr.Message})
	}

	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		logger.FromContext(c.UserContext(), nil).Error("unclassified handler error", zap.Error(err))
		appErr = apperror.Internal(err)
	}

	body := fiber.Map{"message": appErr.Message}
	if len(appErr.Fields) > 0 {
		body["errors"] = appErr.Fields
	}
	return c.Status(statusFor(appErr.Kind)).JSON(body)
}

func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindNotFound:
		return fiber.StatusNotFound
	case apperror.KindConflict:
		return fiber.StatusConflict
	case apperror.KindBadRequest:
		return fiber.StatusBadRequest
	case apperror.KindUnauthorized:
		return fiber.StatusUnauthorized
	case apperror.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.BadRequest("Invalid request body")
	}
	return nil
}

func parsePagination(c *fiber.Ctx) (models.Pagination, error) {
	var p models.Pagination
	if err := c.QueryParser(&p); err != nil {
		return p, apperror.BadRequest("limit and offset must be numbers")
	}
	return p, nil
}

func paramID(c *fiber.Ctx, name, entity string) (uint, error) {
	return services.ParseID(c.Params(name), entity)
}

func message(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"message": msg})
}
