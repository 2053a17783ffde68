package services

import (
	"fmt"

	"github.com/caresync/caresync/internal/config"
	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"gorm.io/gorm"
)

// auditLogMaxLimit caps one audit listing; larger requests are
// clamped, not silently shrunk to the default.
const auditLogMaxLimit = 1000

type AdminService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{db: db, cfg: cfg}
}

func (s *AdminService) ListUsers() ([]dto.UserSummary, error) {
	var users []models.User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	resp := make([]dto.UserSummary, len(users))
	for i, u := range users {
		resp[i] = dto.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Role:      u.Role,
			FullName:  u.FullName,
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt,
		}
	}
	return resp, nil
}

func (s *AdminService) Statistics() (*dto.Statistics, error) {
	var stats dto.Statistics

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.Model(&models.User{})},
		{&stats.TotalPatients, s.db.Model(&models.User{}).Where("role = ?", models.RolePatient)},
		{&stats.TotalDoctors, s.db.Model(&models.User{}).Where("role = ?", models.RoleDoctor)},
		{&stats.TotalRecords, s.db.Model(&models.HealthRecord{})},
		{&stats.TotalAppointments, s.db.Model(&models.Appointment{})},
		{&stats.TotalMetrics, s.db.Model(&models.HealthMetric{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("count statistics: %w", err)
		}
	}
	return &stats, nil
}

// AuditLogs returns the newest entries first. The trail itself is
// append-only; this is a read-only window over it.
func (s *AdminService) AuditLogs(limit int) ([]dto.AuditLogEntry, error) {
	if limit < 1 {
		limit = s.cfg.AuditLogDefaultLimit
	}
	if limit > auditLogMaxLimit {
		limit = auditLogMaxLimit
	}

	var logs []models.AccessLog
	if err := s.db.Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}

	resp := make([]dto.AuditLogEntry, len(logs))
	for i, l := range logs {
		resp[i] = dto.AuditLogEntry{
			ID:        l.ID,
			UserID:    l.UserID,
			RecordID:  l.RecordID,
			Action:    l.Action,
			Timestamp: l.Timestamp,
			IPAddress: l.IPAddress,
		}
	}
	return resp, nil
}

// DeactivateUser soft-disables an account. Existing rows that
// reference the user stay valid; the account simply stops resolving.
func (s *AdminService) DeactivateUser(userID uint) error {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND is_active = ?", userID, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("deactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
