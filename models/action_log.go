package models

import "time"

// ActionLog is an immutable record of one awarded gamification action.
// The composite unique index (employee_id, action_type, action_date) is the
// server-side guarantee of at most one award per employee, type and day; it
// holds across instances and tabs where the in-memory verification cache
// cannot.
type ActionLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EmployeeID   uint      `gorm:"index:idx_action_unique_day,unique;not null" json:"employee_id"`
	ActionType   string    `gorm:"size:50;index:idx_action_unique_day,unique;not null" json:"action_type"`
	ActionDate   string    `gorm:"size:10;index:idx_action_unique_day,unique;not null" json:"action_date"` // YYYY-MM-DD
	Details      string    `gorm:"type:text" json:"details"`
	PointsEarned int       `gorm:"not null" json:"points_earned"`
	QualityScore int       `gorm:"default:100" json:"quality_score"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
