// Package domain contains the read models for the collections dashboard.
package domain

import (
	"time"

	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
)

// WorklistItem is one prioritized invoice joined with its customer, ready
// for a collector to act on.
type WorklistItem struct {
	ID             snowflake.ID                `json:"id"`
	CustomerID     snowflake.ID                `json:"customer_id"`
	CustomerName   string                      `json:"customer_name"`
	CustomerEmail  string                      `json:"customer_email,omitempty"`
	InvoiceNumber  string                      `json:"invoice_number"`
	InvoiceDate    time.Time                   `json:"invoice_date"`
	DueDate        time.Time                   `json:"due_date"`
	InvoiceAmount  float64                     `json:"invoice_amount"`
	OpenAmount     float64                     `json:"open_amount"`
	Status         invoicedomain.InvoiceStatus `json:"status"`
	DaysOverdue    int                         `json:"days_overdue"`
	AgingBucket    invoicedomain.AgingBucket   `json:"aging_bucket"`
	PriorityScore  int                         `json:"priority_score"`
	RiskTier       invoicedomain.RiskTier      `json:"risk_tier"`
	DisputeFlagged bool                        `json:"dispute_flagged"`
}

// PortfolioKPI summarizes the whole active receivable set for one org. It is
// never narrowed by worklist filters, so the headline numbers stay stable
// while a collector drills into a slice.
type PortfolioKPI struct {
	TotalAR       float64                               `json:"total_ar"`
	TotalOverdue  float64                               `json:"total_overdue"`
	TotalInvoices int                                   `json:"total_invoices"`
	EstimatedDSO  int                                   `json:"estimated_dso"`
	AgingBuckets  map[invoicedomain.AgingBucket]float64 `json:"aging_buckets"`
}

// Dashboard is the full response: portfolio KPIs plus the filtered worklist.
type Dashboard struct {
	KPI      PortfolioKPI   `json:"kpi"`
	Worklist []WorklistItem `json:"worklist"`
}
