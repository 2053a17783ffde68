package handlers

import (
	"strconv"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/identity"
	"github.com/caresync/caresync/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DoctorHandler struct {
	recordService  *services.RecordService
	patientService *services.PatientService
}

func NewDoctorHandler(recordService *services.RecordService, patientService *services.PatientService) *DoctorHandler {
	return &DoctorHandler{recordService: recordService, patientService: patientService}
}

// SearchPatients filters active patients by demographics. The
// condition parameter is accepted for API compatibility but not
// applied; see PatientService.Search.
func (h *DoctorHandler) SearchPatients(c *fiber.Ctx) error {
	filters := services.SearchFilters{
		Gender:    c.Query("gender"),
		Condition: c.Query("condition"),
	}
	if raw := c.Query("age_min"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "age_min must be a non-negative integer",
			})
		}
		filters.AgeMin = v
	}
	if raw := c.Query("age_max"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "age_max must be a non-negative integer",
			})
		}
		filters.AgeMax = v
	}

	patients, err := h.patientService.Search(filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.PatientSearchResponse{Patients: patients})
}

// PatientRecords returns the records of one patient the doctor holds
// an effective grant for. Each returned record is audited as a view.
func (h *DoctorHandler) PatientRecords(c *fiber.Ctx) error {
	user := identity.Current(c)

	patientID, err := strconv.ParseUint(c.Params("patient_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid patient id",
		})
	}

	records, err := h.recordService.ListAccessible(user.ID, uint(patientID), c.IP(), c.Get("User-Agent"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.RecordListResponse{Records: records})
}
