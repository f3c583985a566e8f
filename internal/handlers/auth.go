package handlers

import (
	"errors"
	"net/http"
	"strings"

	"photo-backend/internal/models"
	"photo-backend/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the access token and stores the caller in locals.
// The token comes from the Authorization header or the `access_token` query param.
func AuthMiddleware(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Query("access_token")
		if authHeader := c.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
		}

		identity, err := auth.ValidateAccessToken(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		c.Locals("user_id", identity.UserID)
		c.Locals("username", identity.Username)
		return c.Next()
	}
}

func RegisterHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		if strings.TrimSpace(req.Username) == "" || req.Password == "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "username and password required"})
		}

		user, err := userService.Register(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, services.ErrUserExists) {
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "username already exists"})
			}
			return writeError(c, err)
		}
		return c.Status(http.StatusCreated).JSON(user)
	}
}

func LoginHandler(userService *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		res, err := userService.Login(c.UserContext(), req)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
			}
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

// RefreshHandler exchanges a refresh token for a new token pair.
func RefreshHandler(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
		}
		if body.RefreshToken == "" {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "refresh_token required"})
		}

		identity, err := auth.ValidateRefreshToken(body.RefreshToken)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "invalid refresh token"})
		}

		access, err := auth.GenerateAccessToken(identity.UserID, identity.Username)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate access token"})
		}
		refresh, err := auth.GenerateRefreshToken(identity.UserID, identity.Username)
		if err != nil {
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "failed to generate refresh token"})
		}

		return c.JSON(fiber.Map{
			"access_token":  access,
			"refresh_token": refresh,
		})
	}
}
