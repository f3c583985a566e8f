package handlers

import (
	"net/http"

	"photo-backend/internal/models"
	"photo-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// GetProfileHandler returns the authenticated user's profile
func GetProfileHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		u, err := userService.GetProfile(c.UserContext(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(u)
	}
}

// UpdateProfileHandler updates name and profile image for the authenticated user
func UpdateProfileHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		var body models.UpdateProfileRequest
		if err := c.BodyParser(&body); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
		}

		updated, err := userService.UpdateProfile(c.UserContext(), userID, body.Name, body.ProfileImage)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(updated)
	}
}

// GetUserHandler returns the public view of any user
func GetUserHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		info, err := userService.Resolve(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(info)
	}
}
