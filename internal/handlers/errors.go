package handlers

import (
	"errors"
	"fmt"

	"userdir/internal/common"
	"userdir/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// StatusFor maps an error returned by the user service to an HTTP status code.
func StatusFor(err error) int {
	var (
		fe *fiber.Error
		ve *ValidationError
	)
	switch {
	case errors.As(err, &ve):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, common.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrInvalidArgument):
		return fiber.StatusBadRequest
	case errors.As(err, &fe):
		return fe.Code
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler renders every error that escapes a handler as
// {"message": ..., "error": <status text>}. Internal errors are logged and
// replaced by a generic message.
func ErrorHandler(log logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := StatusFor(err)

		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(code).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  ve.Fields,
			})
		}

		message := common.Message(err)
		var fe *fiber.Error
		if errors.As(err, &fe) {
			message = fe.Message
		}
		if code == fiber.StatusInternalServerError {
			log.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
			message = "Internal server error"
		}

		return c.Status(code).JSON(fiber.Map{
			"message": message,
			"error":   utils.StatusMessage(code),
		})
	}
}
