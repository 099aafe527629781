package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee represents a staff member. Passwords are stored as bcrypt hashes only.
// Employees are never hard-deleted; deactivation flips Active off.
type Employee struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	PublicID      string     `gorm:"size:36;uniqueIndex;not null" json:"public_id"`
	Name          string     `gorm:"size:128;not null" json:"name"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"size:255" json:"-"`
	Department    string     `gorm:"size:64" json:"department"`
	Position      string     `gorm:"size:64" json:"position"`
	IsAdmin       bool       `gorm:"default:false" json:"is_admin"`
	Active        bool       `gorm:"default:true" json:"active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

// BeforeCreate assigns the public UUID and timestamps when missing.
func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.PublicID == "" {
		e.PublicID = uuid.NewString()
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return nil
}

// BeforeUpdate refreshes the UpdatedAt timestamp.
func (e *Employee) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return nil
}
