// Package httperr carries store failures up to the fiber error handler.
package httperr

import (
	"errors"
	"fmt"

	"epicure-backend/internal/logger"
	"epicure-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// SystemErrorMessage is the user-facing text for unexpected failures.
const SystemErrorMessage = "Internal server error"

// Error wraps an underlying error with an HTTP status and safe message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, Err: err}
}

// Internal wraps an unexpected failure as a 500.
func Internal(err error) *Error {
	return New(fiber.StatusInternalServerError, SystemErrorMessage, err)
}

// FromStore maps store sentinel errors to client errors. Anything else is
// an internal error carrying the cause.
func FromStore(err error, notFound string) error {
	switch {
	case errors.Is(err, store.ErrInvalidID):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, notFound)
	case errors.Is(err, store.ErrInsufficientStock):
		return fiber.NewError(fiber.StatusBadRequest, "Not enough quantity available")
	default:
		return Internal(err)
	}
}

// Handler is the application's fiber ErrorHandler. Client errors render as
// {"message"}; server errors also carry the underlying error text.
func Handler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"message": fe.Message,
		})
	}

	status := fiber.StatusInternalServerError
	message := SystemErrorMessage
	cause := err

	var he *Error
	if errors.As(err, &he) {
		status = he.Status
		message = he.Message
		if he.Err != nil {
			cause = he.Err
		}
	}

	logger.Error().
		Err(cause).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Msg(message)

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   cause.Error(),
	})
}
