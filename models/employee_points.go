package models

import "time"

// EmployeePoints is the per-employee points aggregate, created lazily on the
// first awarded action. WeekKey and MonthKey mark which period the weekly and
// monthly counters belong to; a mismatch at award time resets the counter
// before adding.
type EmployeePoints struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EmployeeID  uint      `gorm:"uniqueIndex;not null" json:"employee_id"`
	TotalPoints int       `gorm:"default:0" json:"total_points"`
	WeekPoints  int       `gorm:"default:0" json:"week_points"`
	WeekKey     string    `gorm:"size:10" json:"week_key"` // e.g. 2026-W35
	MonthPoints int       `gorm:"default:0" json:"month_points"`
	MonthKey    string    `gorm:"size:7" json:"month_key"` // e.g. 2026-08
	Level       int       `gorm:"default:1" json:"level"`
	StreakDays  int       `gorm:"default:0" json:"streak_days"`
	BadgeCount  int       `gorm:"default:0" json:"badge_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
