// Package domain contains the upload lifecycle model for batch ingestion.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// UploadStatus tracks a batch through its lifecycle.
type UploadStatus string

const (
	UploadStatusProcessing UploadStatus = "PROCESSING"
	UploadStatusCompleted  UploadStatus = "COMPLETED"
	UploadStatusFailed     UploadStatus = "FAILED"
)

// Upload records one CSV batch. A row is written in PROCESSING before any
// validation, then moved to COMPLETED or FAILED, so interrupted batches stay
// visible.
type Upload struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID        snowflake.ID `gorm:"not null;index" json:"organization_id"`
	FileName     string       `gorm:"not null" json:"file_name"`
	Status       UploadStatus `gorm:"type:text;not null" json:"status"`
	ErrorSummary *string      `json:"error_summary,omitempty"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Upload) TableName() string { return "uploads" }
