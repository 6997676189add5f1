package response

import (
	"errors"

	domainerrors "centime/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// DomainError maps a domain error to its HTTP status, never exposing
// internal error detail for unknown kinds.
func DomainError(c *fiber.Ctx, err error) error {
	var de *domainerrors.DomainError
	if !errors.As(err, &de) {
		return ServerError(c, "operation failed")
	}

	status := fiber.StatusBadRequest
	switch de.Code {
	case "WALLET_NOT_FOUND", "TRANSACTION_NOT_FOUND", "CATEGORY_NOT_FOUND":
		status = fiber.StatusNotFound
	case "UNAUTHORIZED":
		status = fiber.StatusForbidden
	case "CONFLICT":
		status = fiber.StatusConflict
	case "RATE_UNAVAILABLE":
		status = fiber.StatusServiceUnavailable
	case "INVALID_OR_EXPIRED_TOKEN", "INVALID_CODE", "TOO_MANY_ATTEMPTS":
		status = fiber.StatusUnprocessableEntity
	}

	return c.Status(status).JSON(fiber.Map{
		"error": de.Message,
		"code":  de.Code,
	})
}
