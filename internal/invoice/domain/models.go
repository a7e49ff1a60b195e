// Package domain contains persistence models for receivable invoices.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusOpen     InvoiceStatus = "OPEN"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
	InvoiceStatusPartial  InvoiceStatus = "PARTIAL"
	InvoiceStatusDisputed InvoiceStatus = "DISPUTED"
)

// ValidStatuses lists the accepted invoice statuses in upload order of
// preference for error messages.
func ValidStatuses() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusPartial, InvoiceStatusDisputed}
}

// IsValidStatus reports whether s is one of the accepted statuses.
func IsValidStatus(s InvoiceStatus) bool {
	switch s {
	case InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusPartial, InvoiceStatusDisputed:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status contributes to open AR.
func (s InvoiceStatus) IsActive() bool {
	return s == InvoiceStatusOpen || s == InvoiceStatusPartial
}

// RiskTier is the coarse collectability classification derived from the
// priority score.
type RiskTier string

const (
	RiskTierUrgent   RiskTier = "URGENT"
	RiskTierFollowUp RiskTier = "FOLLOW_UP"
	RiskTierMonitor  RiskTier = "MONITOR"
)

// AgingBucket bands an invoice by days overdue.
type AgingBucket string

const (
	BucketCurrent   AgingBucket = "CURRENT"
	BucketDays31_60 AgingBucket = "DAYS_31_60"
	BucketDays61_90 AgingBucket = "DAYS_61_90"
	BucketOver90    AgingBucket = "OVER_90"
)

// AllAgingBuckets returns every bucket, oldest last. KPI maps are zero-filled
// from this list so all four keys are always present.
func AllAgingBuckets() []AgingBucket {
	return []AgingBucket{BucketCurrent, BucketDays31_60, BucketDays61_90, BucketOver90}
}

// Invoice is a receivable tracked per (org, invoice number). Invoices are
// never deleted; corrections arrive as upserts through batch ingestion.
type Invoice struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_invoices_org_number" json:"organization_id"`
	CustomerID     snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	InvoiceNumber  string        `gorm:"not null;uniqueIndex:ux_invoices_org_number" json:"invoice_number"`
	InvoiceDate    time.Time     `gorm:"not null" json:"invoice_date"`
	DueDate        time.Time     `gorm:"not null" json:"due_date"`
	InvoiceAmount  float64       `gorm:"not null" json:"invoice_amount"`
	OpenAmount     float64       `gorm:"not null" json:"open_amount"`
	Status         InvoiceStatus `gorm:"type:text;not null" json:"status"`
	DaysOverdue    int           `gorm:"not null;default:0" json:"days_overdue"`
	AgingBucket    AgingBucket   `gorm:"type:text;not null" json:"aging_bucket"`
	PriorityScore  int           `gorm:"not null;default:0" json:"priority_score"`
	RiskTier       RiskTier      `gorm:"type:text;not null" json:"risk_tier"`
	DisputeFlagged bool          `gorm:"not null;default:false" json:"dispute_flagged"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }
