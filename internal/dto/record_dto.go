package dto

import (
	"time"

	"github.com/caresync/caresync/internal/vault"
)

type UploadRecordResponse struct {
	Message  string `json:"message"`
	RecordID uint   `json:"record_id"`
}

type RecordResponse struct {
	ID          uint            `json:"id"`
	RecordType  string          `json:"record_type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	FileName    string          `json:"file_name,omitempty"`
	RecordDate  time.Time       `json:"record_date"`
	CreatedAt   time.Time       `json:"created_at"`
	Metadata    *vault.Metadata `json:"metadata,omitempty"`
}

type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
}

type GrantAccessRequest struct {
	RecordID  uint       `json:"record_id"`
	DoctorID  uint       `json:"doctor_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type GrantAccessResponse struct {
	Message string `json:"message"`
	GrantID uint   `json:"grant_id"`
}

type RevokeAccessRequest struct {
	GrantID uint `json:"grant_id"`
}
