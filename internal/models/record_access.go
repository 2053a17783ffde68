package models

import "time"

// RecordAccess is a directional read-only capability: one doctor may
// view one record, optionally until ExpiresAt. Repeated grants create
// independent edges on purpose; each one is revocable on its own.
// A grant is effective only while IsActive is true and ExpiresAt (when
// set) has not passed — read paths must apply both checks.
type RecordAccess struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	RecordID  uint       `gorm:"not null;index" json:"record_id"`
	DoctorID  uint       `gorm:"not null;index" json:"doctor_id"`
	GrantedBy uint       `gorm:"not null" json:"granted_by"`
	GrantedAt time.Time  `gorm:"not null" json:"granted_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`

	Record  HealthRecord `gorm:"foreignKey:RecordID" json:"-"`
	Doctor  User         `gorm:"foreignKey:DoctorID" json:"-"`
	Granter User         `gorm:"foreignKey:GrantedBy" json:"-"`
}
