package models

import "time"

// Appointment statuses form a forward-only state machine:
// pending -> confirmed|cancelled, confirmed -> completed|cancelled.
// completed and cancelled are terminal.
const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

type Appointment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PatientID       uint      `gorm:"not null;index" json:"patient_id"`
	DoctorID        uint      `gorm:"not null;index" json:"doctor_id"`
	AppointmentDate time.Time `gorm:"not null" json:"appointment_date"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`
	Status          string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Reason          string    `gorm:"type:text" json:"reason,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

var appointmentTransitions = map[string][]string{
	AppointmentPending:   {AppointmentConfirmed, AppointmentCancelled},
	AppointmentConfirmed: {AppointmentCompleted, AppointmentCancelled},
}

// ValidTransition reports whether an appointment may move from one
// status to another.
func ValidTransition(from, to string) bool {
	for _, allowed := range appointmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
