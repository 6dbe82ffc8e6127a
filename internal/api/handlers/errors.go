package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"patient-management-service/internal/api/middleware"
	"patient-management-service/internal/domain/dtos"
	"patient-management-service/internal/domain/repositories"
	"patient-management-service/internal/services"
)

// ErrorHandler maps domain errors to HTTP responses. Anything it does not
// recognise is logged and reported as a 500 without internal detail.
func ErrorHandler(logger zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		body := dtos.ErrorResponse{Message: "Internal server error"}

		var (
			verr *services.ValidationError
			ferr *fiber.Error
		)
		switch {
		case errors.As(err, &verr):
			status = fiber.StatusBadRequest
			body.Message = verr.Message
			body.Details = verr.Details
		case errors.Is(err, repositories.ErrNotFound):
			status = fiber.StatusNotFound
			body.Message = "Patient not found"
		case errors.Is(err, repositories.ErrConflict):
			status = fiber.StatusBadRequest
			body.Message = "Patient already exists"
		case errors.Is(err, services.ErrInvalidCredentials):
			status = fiber.StatusUnauthorized
			body.Message = "Invalid username or password"
		case errors.Is(err, services.ErrUnauthorized):
			status = fiber.StatusUnauthorized
			body.Message = "Unauthorized"
		case errors.As(err, &ferr):
			status = ferr.Code
			body.Message = ferr.Message
		default:
			logger.Error().Err(err).
				Str("request_id", middleware.RequestID(c)).
				Str("path", c.Path()).
				Msg("request failed")
		}

		body.RequestID = middleware.RequestID(c)
		return c.Status(status).JSON(body)
	}
}

// badRequest wraps a body or parameter parsing failure.
func badRequest(message string, err error) error {
	if err == nil {
		return services.NewValidationError(message)
	}
	return services.NewValidationError(message, err.Error())
}
