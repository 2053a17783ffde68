package handlers

import (
	"errors"
	"strconv"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/identity"
	"github.com/caresync/caresync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	user := identity.Current(c)

	var req dto.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.PatientID == 0 || req.DoctorID == 0 || req.AppointmentDate.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "patient_id, doctor_id and appointment_date are required",
		})
	}

	appointment, err := h.appointmentService.Create(user, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrParticipantNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidDuration):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateAppointmentResponse{
		Message:       "Appointment created successfully",
		AppointmentID: appointment.ID,
	})
}

func (h *AppointmentHandler) ListMine(c *fiber.Ctx) error {
	user := identity.Current(c)

	appointments, err := h.appointmentService.ListMine(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.AppointmentListResponse{Appointments: appointments})
}

func (h *AppointmentHandler) Update(c *fiber.Ctx) error {
	user := identity.Current(c)

	appointmentID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid appointment id",
		})
	}

	var req dto.UpdateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	appointment, err := h.appointmentService.Update(user, uint(appointmentID), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAppointmentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrNotParticipant):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrIllegalTransition):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(appointment)
}
