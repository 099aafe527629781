package models

import "time"

// Document holds shared-document metadata. File bytes live in external object
// storage; only the reference is kept here.
type Document struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UploaderID  uint      `gorm:"index;not null" json:"uploader_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	FileURL     string    `gorm:"size:512" json:"file_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// DocumentView records that an employee opened a document; backing record for
// document_viewed awards.
type DocumentView struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EmployeeID uint      `gorm:"index:idx_document_view,unique;not null" json:"employee_id"`
	DocumentID uint      `gorm:"index:idx_document_view,unique;not null" json:"document_id"`
	ViewedAt   time.Time `json:"viewed_at"`
}
