package handlers

import (
	"errors"
	"strconv"
	"time"

	"photo-backend/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request count and latency per route.
func MetricsMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}
	metrics.RecordRequest(c.Method(), c.Route().Path, strconv.Itoa(status), time.Since(start).Seconds())
	return err
}
