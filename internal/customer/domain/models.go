// Package domain contains persistence models for customers and their
// derived receivable aggregates.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Customer identity is (org, name). PrimaryEmail is set-once: it is written
// on create or backfilled while empty, never overwritten.
//
// TotalOpenAmount, TotalOverdueAmount and OpenInvoiceCount are derived from
// the customer's current OPEN/PARTIAL invoices and recomputed in full after
// every mutation that touches them, so they cannot drift from ground truth.
type Customer struct {
	ID                     snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID                  snowflake.ID `gorm:"not null;index;uniqueIndex:ux_customers_org_name" json:"organization_id"`
	Name                   string       `gorm:"not null;uniqueIndex:ux_customers_org_name" json:"name"`
	PrimaryEmail           string       `gorm:"not null;default:''" json:"primary_email,omitempty"`
	PaymentTerms           *int         `json:"payment_terms,omitempty"`
	HistoricalAvgDaysToPay *float64     `json:"historical_avg_days_to_pay,omitempty"`
	HistoricalLateRate     *float64     `json:"historical_late_rate,omitempty"`
	LastPaymentDate        *time.Time   `json:"last_payment_date,omitempty"`
	DisputeFlagged         bool         `gorm:"not null;default:false" json:"dispute_flagged"`
	TotalOpenAmount        float64      `gorm:"not null;default:0" json:"total_open_amount"`
	TotalOverdueAmount     float64      `gorm:"not null;default:0" json:"total_overdue_amount"`
	OpenInvoiceCount       int          `gorm:"not null;default:0" json:"open_invoice_count"`
	CreatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Customer) TableName() string { return "customers" }

// Stats is the recomputed aggregate for one customer.
type Stats struct {
	TotalOpenAmount    float64 `json:"total_open_amount"`
	TotalOverdueAmount float64 `json:"total_overdue_amount"`
	OpenInvoiceCount   int     `json:"open_invoice_count"`
}
