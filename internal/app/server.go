package app

import (
	"photo-backend/internal/config"
	"photo-backend/internal/handlers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// NewServer builds the fiber app with every route mounted.
func NewServer(cfg *config.Config, deps *Dependencies, log zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   cfg.ServiceName,
		BodyLimit: int(cfg.MaxUploadBytes) + 1024*1024,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())
	if cfg.MetricsEnabled {
		app.Use(handlers.MetricsMiddleware)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Static("/uploads", cfg.UploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Public Routes
	api.Post("/register", handlers.RegisterHandler(deps.Users))
	api.Post("/login", handlers.LoginHandler(deps.Users))
	api.Post("/refresh", handlers.RefreshHandler(deps.Auth))

	// Protected Routes
	protected := api.Group("/", handlers.AuthMiddleware(deps.Auth))

	protected.Get("/profile", handlers.GetProfileHandler(deps.Users))
	protected.Put("/profile", handlers.UpdateProfileHandler(deps.Users))
	protected.Get("/users/:id", handlers.GetUserHandler(deps.Users))

	photoHandler := handlers.NewPhotoHandler(deps.Photos, cfg.UploadDir, cfg.MaxUploadBytes, log)
	photoHandler.RegisterRoutes(protected)

	// WebSocket Route
	// Middleware order matters: upgrade check first, then the token.
	app.Use("/ws", handlers.WSUpgradeMiddleware)
	app.Use("/ws", handlers.AuthMiddleware(deps.Auth))
	app.Get("/ws", handlers.WebSocketHandler(deps.Hub))

	return app
}
