package dto

import "time"

type CreateAppointmentRequest struct {
	PatientID       uint      `json:"patient_id"`
	DoctorID        uint      `json:"doctor_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Reason          string    `json:"reason,omitempty"`
}

type CreateAppointmentResponse struct {
	Message       string `json:"message"`
	AppointmentID uint   `json:"appointment_id"`
}

// UpdateAppointmentRequest carries only the recognized optional
// fields; unknown keys in the request body are ignored.
type UpdateAppointmentRequest struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

type AppointmentResponse struct {
	ID              uint      `json:"id"`
	PatientID       uint      `json:"patient_id"`
	DoctorID        uint      `json:"doctor_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	DurationMinutes int       `json:"duration_minutes"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
