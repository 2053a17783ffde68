package handlers

import (
	"errors"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/identity"
	"github.com/caresync/caresync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type MetricHandler struct {
	metricService *services.MetricService
}

func NewMetricHandler(metricService *services.MetricService) *MetricHandler {
	return &MetricHandler{metricService: metricService}
}

func (h *MetricHandler) Add(c *fiber.Ctx) error {
	user := identity.Current(c)

	var req dto.AddMetricRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	metric, err := h.metricService.Add(user.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrMetricInvalid) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AddMetricResponse{
		Message:    "Health metric recorded",
		MetricID:   metric.ID,
		IsCritical: metric.IsCritical,
	})
}

func (h *MetricHandler) Analyze(c *fiber.Ctx) error {
	user := identity.Current(c)

	summaries, err := h.metricService.Analyze(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.AnalysisResponse{Analysis: summaries})
}
