package services

import (
	"errors"
	"fmt"

	"github.com/caresync/caresync/internal/dto"
	"github.com/caresync/caresync/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrParticipantNotFound = errors.New("patient or doctor not found")
	ErrNotParticipant      = errors.New("you can only manage your own appointments")
	ErrInvalidStatus       = errors.New("unknown appointment status")
	ErrIllegalTransition   = errors.New("appointment status transition not allowed")
	ErrInvalidDuration     = errors.New("duration must be between 5 and 240 minutes")
)

type AppointmentService struct {
	db *gorm.DB
}

func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

// Create books an appointment between a patient and a doctor. The
// caller must be one of the two participants.
func (s *AppointmentService) Create(caller *models.User, req *dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if caller.ID != req.PatientID && caller.ID != req.DoctorID {
		return nil, ErrNotParticipant
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = 30
	}
	if req.DurationMinutes < 5 || req.DurationMinutes > 240 {
		return nil, ErrInvalidDuration
	}

	var patient, doctor models.User
	if err := s.db.Where("id = ? AND role = ? AND is_active = ?", req.PatientID, models.RolePatient, true).First(&patient).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}
	if err := s.db.Where("id = ? AND role = ? AND is_active = ?", req.DoctorID, models.RoleDoctor, true).First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	appointment := models.Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		AppointmentDate: req.AppointmentDate,
		DurationMinutes: req.DurationMinutes,
		Status:          models.AppointmentPending,
		Reason:          req.Reason,
	}
	if err := s.db.Create(&appointment).Error; err != nil {
		return nil, fmt.Errorf("create appointment: %w", err)
	}
	return &appointment, nil
}

// ListMine returns appointments the caller participates in, from
// whichever side matches their role.
func (s *AppointmentService) ListMine(caller *models.User) ([]dto.AppointmentResponse, error) {
	var appointments []models.Appointment

	query := s.db.Order("appointment_date DESC")
	switch caller.Role {
	case models.RolePatient:
		query = query.Where("patient_id = ?", caller.ID)
	case models.RoleDoctor:
		query = query.Where("doctor_id = ?", caller.ID)
	default:
		return nil, ErrNotParticipant
	}

	if err := query.Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	resp := make([]dto.AppointmentResponse, len(appointments))
	for i, a := range appointments {
		resp[i] = mapAppointment(&a)
	}
	return resp, nil
}

// Update applies a typed status/notes change. Status moves are checked
// against the transition table; completed and cancelled are terminal.
func (s *AppointmentService) Update(caller *models.User, appointmentID uint, req *dto.UpdateAppointmentRequest) (*dto.AppointmentResponse, error) {
	var appointment models.Appointment
	if err := s.db.First(&appointment, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if caller.ID != appointment.PatientID && caller.ID != appointment.DoctorID {
		return nil, ErrNotParticipant
	}

	updates := map[string]interface{}{}
	if req.Status != nil {
		next := *req.Status
		switch next {
		case models.AppointmentPending, models.AppointmentConfirmed,
			models.AppointmentCompleted, models.AppointmentCancelled:
		default:
			return nil, ErrInvalidStatus
		}
		if !models.ValidTransition(appointment.Status, next) {
			return nil, ErrIllegalTransition
		}
		updates["status"] = next
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(&appointment).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update appointment: %w", err)
		}
	}

	resp := mapAppointment(&appointment)
	return &resp, nil
}

func mapAppointment(a *models.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		DoctorID:        a.DoctorID,
		AppointmentDate: a.AppointmentDate,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Reason:          a.Reason,
		Notes:           a.Notes,
	}
}
