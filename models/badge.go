package models

import "time"

// Badge is one earned tier of a badge family. Rows are append-only: earning a
// higher tier never deletes lower ones, it only moves the Active flag so the
// UI shows the highest attained tier while history is preserved.
type Badge struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"index:idx_badge_tier,unique;not null" json:"employee_id"`
	BadgeID    string    `gorm:"size:50;index:idx_badge_tier,unique;not null" json:"badge_id"`
	Tier       string    `gorm:"size:10;index:idx_badge_tier,unique;not null" json:"tier"`
	Category   string    `gorm:"size:20;not null" json:"category"`
	Points     int       `gorm:"not null" json:"points"`
	Active     bool      `gorm:"default:true" json:"active"`
	EarnedAt   time.Time `json:"earned_at"`
}
