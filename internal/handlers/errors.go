package handlers

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-copilot/internal/models"
	"alfredoptarigan/career-copilot/internal/services"
)

// statusFor maps core errors to HTTP statuses. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotAuthenticated):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrUnknownTab),
		errors.Is(err, services.ErrNoFileSelected):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrCameraNotReady):
		return fiber.StatusPreconditionFailed
	case errors.Is(err, services.ErrSubmissionInFlight),
		errors.Is(err, services.ErrLoginInProgress),
		errors.Is(err, services.ErrAlreadyLoggedIn),
		errors.Is(err, services.ErrActionUnavailable):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	return c.Status(code).JSON(models.ErrorResponse{
		Error: services.UserMessage(err),
		Code:  code,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: message,
		Code:  fiber.StatusBadRequest,
	})
}
