package repository

import (
	"context"
	"strings"

	"github.com/arclear/arclear/internal/dashboard/domain"
	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Worklist(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.WorklistFilter, limit int) ([]domain.WorklistItem, error) {
	stmt := db.WithContext(ctx).
		Table("invoices").
		Select(`invoices.id, invoices.customer_id, customers.name AS customer_name,
			customers.primary_email AS customer_email, invoices.invoice_number,
			invoices.invoice_date, invoices.due_date, invoices.invoice_amount,
			invoices.open_amount, invoices.status, invoices.days_overdue,
			invoices.aging_bucket, invoices.priority_score, invoices.risk_tier,
			invoices.dispute_flagged`).
		Joins("JOIN customers ON customers.id = invoices.customer_id").
		Where("invoices.org_id = ?", orgID).
		Where("invoices.status IN ?", []invoicedomain.InvoiceStatus{
			invoicedomain.InvoiceStatusOpen,
			invoicedomain.InvoiceStatusPartial,
		})

	if filter.RiskTier != "" {
		stmt = stmt.Where("invoices.risk_tier = ?", filter.RiskTier)
	}
	if filter.AgingBucket != "" {
		stmt = stmt.Where("invoices.aging_bucket = ?", filter.AgingBucket)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		// LOWER on both sides keeps the match case-insensitive across
		// postgres and sqlite.
		pattern := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where("(LOWER(customers.name) LIKE ? OR LOWER(invoices.invoice_number) LIKE ?)", pattern, pattern)
	}
	if filter.MinAmount != nil {
		stmt = stmt.Where("invoices.open_amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		stmt = stmt.Where("invoices.open_amount <= ?", *filter.MaxAmount)
	}

	var items []domain.WorklistItem
	err := stmt.
		Order("invoices.priority_score DESC, invoices.id ASC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
