package models

import "time"

// Audit actions recorded in the access log.
const (
	ActionUpload = "upload"
	ActionView   = "view"
)

// AccessLog is the append-only audit trail. Entries are created inside
// the same transaction as the access they record and are never updated
// or deleted.
type AccessLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	RecordID  *uint     `gorm:"index" json:"record_id,omitempty"`
	Action    string    `gorm:"size:50;not null" json:"action"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	IPAddress string    `gorm:"size:64" json:"ip_address,omitempty"`
	UserAgent string    `gorm:"size:512" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
