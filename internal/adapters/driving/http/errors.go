package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/logger"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// errorHandler renders errors that escape a handler, including
// recovered panics and fiber's own (413, 404, 405).
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(ErrorResponse{Detail: err.Error()})
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat), errors.Is(err, domain.ErrInvalidArgument):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Detail: msg})
}
