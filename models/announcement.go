package models

import "time"

// Announcement is a company-wide notice. BodyHTML is sanitized before storage.
type Announcement struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	BodyHTML  string    `gorm:"type:text" json:"body_html"`
	CreatedAt time.Time `json:"created_at"`
}

// AnnouncementRead is the per-employee read receipt; its existence is what the
// gamification processor checks for announcement_read awards.
type AnnouncementRead struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	EmployeeID     uint      `gorm:"index:idx_announcement_read,unique;not null" json:"employee_id"`
	AnnouncementID uint      `gorm:"index:idx_announcement_read,unique;not null" json:"announcement_id"`
	ReadAt         time.Time `json:"read_at"`
}
