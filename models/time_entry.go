package models

import "time"

// TimeEntry stores one time-clock row per employee per day. Check-in and
// check-out times stay nil until the corresponding punch happens; the
// gamification processor treats a populated field as the proof of attendance.
type TimeEntry struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	EmployeeID   uint       `gorm:"index:idx_time_entry_day,unique;not null" json:"employee_id"`
	EntryDate    string     `gorm:"size:10;index:idx_time_entry_day,unique;not null" json:"entry_date"` // YYYY-MM-DD
	CheckInTime  *time.Time `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
