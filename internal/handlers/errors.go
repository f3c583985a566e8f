package handlers

import (
	"errors"
	"net/http"

	"photo-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

const internalErrorMessage = "There's a problem, please try again later"

// statusFor maps service error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrPersistence), errors.Is(err, services.ErrDirectory):
		return http.StatusInternalServerError
	case errors.Is(err, services.ErrPhotoNotFound), errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAlreadyLiked):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = internalErrorMessage
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}
