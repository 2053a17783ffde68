package handlers

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/identity"
	"github.com/caresync/caresync/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type RecordHandler struct {
	recordService *services.RecordService
	uploadDir     string
}

func NewRecordHandler(recordService *services.RecordService, uploadDir string) *RecordHandler {
	return &RecordHandler{recordService: recordService, uploadDir: uploadDir}
}

// Upload receives a multipart file plus record fields, saves the file
// under the caller's own upload directory and hands it to the vault
// pipeline. The stored path gets a random prefix so re-uploading the
// same filename never clobbers an earlier record's file.
func (h *RecordHandler) Upload(c *fiber.Ctx) error {
	user := identity.Current(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "file is required",
		})
	}

	recordType := c.FormValue("record_type")
	title := c.FormValue("title")
	recordDateRaw := c.FormValue("record_date")
	if recordType == "" || title == "" || recordDateRaw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "record_type, title and record_date are required",
		})
	}

	recordDate, err := parseDate(recordDateRaw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "record_date must be RFC3339 or YYYY-MM-DD",
		})
	}

	userDir := filepath.Join(h.uploadDir, strconv.FormatUint(uint64(user.ID), 10))
	if err := os.MkdirAll(userDir, 0o750); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	fileName := filepath.Base(fileHeader.Filename)
	localPath := filepath.Join(userDir, fmt.Sprintf("%s_%s", uuid.New().String(), fileName))
	if err := c.SaveFile(fileHeader, localPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "failed to store uploaded file",
		})
	}

	record, err := h.recordService.Upload(user.ID, &services.UploadParams{
		FilePath:    localPath,
		FileName:    fileName,
		RecordType:  recordType,
		Title:       title,
		Description: c.FormValue("description"),
		RecordDate:  recordDate,
		IPAddress:   c.IP(),
		UserAgent:   c.Get("User-Agent"),
	})
	if err != nil {
		var vErr *services.FileValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "file validation failed", Reasons: vErr.Reasons,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.UploadRecordResponse{
		Message:  "Health record uploaded successfully",
		RecordID: record.ID,
	})
}

func (h *RecordHandler) MyRecords(c *fiber.Ctx) error {
	user := identity.Current(c)

	records, err := h.recordService.MyRecords(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}
	return c.JSON(dto.RecordListResponse{Records: records})
}

func (h *RecordHandler) GrantAccess(c *fiber.Ctx) error {
	user := identity.Current(c)

	var req dto.GrantAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.RecordID == 0 || req.DoctorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "record_id and doctor_id are required",
		})
	}

	grantID, err := h.recordService.GrantAccess(user.ID, &req)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) || errors.Is(err, services.ErrDoctorNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.GrantAccessResponse{
		Message: "Access granted successfully",
		GrantID: grantID,
	})
}

func (h *RecordHandler) RevokeAccess(c *fiber.Ctx) error {
	user := identity.Current(c)

	var req dto.RevokeAccessRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.GrantID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "grant_id is required",
		})
	}

	if err := h.recordService.RevokeAccess(user.ID, req.GrantID); err != nil {
		if errors.Is(err, services.ErrGrantNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	return c.JSON(fiber.Map{"message": "Access revoked successfully"})
}

// parseDate accepts either a full RFC3339 timestamp or a bare date.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
