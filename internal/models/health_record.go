package models

import (
	"time"

	"gorm.io/datatypes"
)

// Well-known record types. RecordType is stored as free text; these
// constants cover the common categories without restricting callers
// to them.
const (
	RecordTypeLabReport    = "Lab Report"
	RecordTypePrescription = "Prescription"
	RecordTypeDiagnosis    = "Diagnosis"
	RecordTypeImaging      = "Imaging"
	RecordTypeVaccination  = "Vaccination"
	RecordTypeOther        = "Other"
)

// HealthRecord is an uploaded medical document owned by exactly one
// patient. Rows are immutable after the upload transaction commits; the
// owner never changes. FilePath points at the encrypted artifact on
// disk, Metadata holds the vault.Metadata extracted before encryption.
type HealthRecord struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PatientID   uint           `gorm:"not null;index" json:"patient_id"`
	RecordType  string         `gorm:"size:100;not null" json:"record_type"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	FilePath    string         `gorm:"size:1024" json:"-"`
	FileName    string         `gorm:"size:255" json:"file_name"`
	FileSize    int64          `json:"file_size"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	RecordDate  time.Time      `gorm:"not null" json:"record_date"`
	IsEncrypted bool           `gorm:"not null;default:true" json:"is_encrypted"`
	CreatedAt   time.Time      `json:"created_at"`

	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}
