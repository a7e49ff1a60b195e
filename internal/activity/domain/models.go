// Package domain contains the activity log models. One activity row is
// appended for every state-changing touch on an invoice or customer.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type ActivityType string

const (
	ActivityInvoiceUploaded ActivityType = "INVOICE_UPLOADED"
	ActivityPaymentRecorded ActivityType = "PAYMENT_RECORDED"
	ActivityDisputeFlagged  ActivityType = "DISPUTE_FLAGGED"
	ActivityNoteAdded       ActivityType = "NOTE_ADDED"
)

type Activity struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	CustomerID snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	InvoiceID  *snowflake.ID     `gorm:"index" json:"invoice_id,omitempty"`
	Type       ActivityType      `gorm:"type:text;not null" json:"type"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Activity) TableName() string { return "activities" }
