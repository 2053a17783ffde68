package handlers

import (
	"errors"
	"strconv"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.adminService.ListUsers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.UserListResponse{Users: users})
}

func (h *AdminHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.adminService.Statistics()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.StatisticsResponse{Statistics: *stats})
}

func (h *AdminHandler) AuditLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	logs, err := h.adminService.AuditLogs(limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.AuditLogResponse{Logs: logs})
}

func (h *AdminHandler) DeactivateUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid user id",
		})
	}

	if err := h.adminService.DeactivateUser(uint(userID)); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"message": "User deactivated successfully"})
}
