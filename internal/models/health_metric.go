package models

import "time"

// HealthMetric is a single measurement submitted by a patient.
// History is append-only; trend analysis depends on it never being
// rewritten.
type HealthMetric struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PatientID  uint      `gorm:"not null;index" json:"patient_id"`
	MetricName string    `gorm:"size:100;not null;index" json:"metric_name"`
	Value      float64   `gorm:"not null" json:"value"`
	Unit       string    `gorm:"size:50" json:"unit,omitempty"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`
	IsCritical bool      `gorm:"not null;default:false" json:"is_critical"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}
