package models

import (
	"time"
)

// User roles. Role is fixed at registration; there is no role-change path.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User is the shared account model for patients, doctors and admins.
// Accounts are deactivated, never deleted, so audit and foreign-key
// references stay intact.
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"size:20;not null;index" json:"role"`
	FullName     string     `gorm:"size:255;not null" json:"full_name"`
	Phone        string     `gorm:"size:50" json:"phone,omitempty"`
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	Gender       string     `gorm:"size:20" json:"gender,omitempty"`
	Address      string     `gorm:"type:text" json:"address,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}
