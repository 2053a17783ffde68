package handlers

import (
	"time"

	"github.com/caresync/caresync/internal/database"
	"github.com/caresync/caresync/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// HealthCheck reports process liveness and database reachability.
func HealthCheck(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "up",
	}
	if err := database.Ping(); err != nil {
		resp.Status = "degraded"
		resp.DB = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
