package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification kinds.
const (
	NotificationBadge   = "badge"
	NotificationLevelUp = "level_up"
)

// Notification is an in-app message for an employee, produced when the
// progress aggregator finds newly earned badges or a level-up. Read rows are
// pruned by the background cleaner after 30 days.
type Notification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PublicID   string    `gorm:"size:36;uniqueIndex;not null" json:"public_id"`
	EmployeeID uint      `gorm:"index;not null" json:"employee_id"`
	Kind       string    `gorm:"size:20;not null" json:"kind"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Body       string    `gorm:"type:text" json:"body"`
	Read       bool      `gorm:"default:false;index" json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns the public UUID when missing.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.PublicID == "" {
		n.PublicID = uuid.NewString()
	}
	return nil
}
