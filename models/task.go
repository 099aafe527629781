package models

import "time"

// Task statuses.
const (
	TaskStatusOpen      = "open"
	TaskStatusCompleted = "completed"
)

// Task is a work item assigned to an employee. A row with status completed and
// a populated CompletedAt is the backing record for task_completed awards.
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	AssigneeID  uint       `gorm:"index;not null" json:"assignee_id"`
	CreatorID   uint       `gorm:"index" json:"creator_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;not null;default:open" json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
