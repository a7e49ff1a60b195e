package repository

import (
	"context"
	"time"

	"github.com/arclear/arclear/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO invoices (id, org_id, customer_id, invoice_number, invoice_date, due_date,
		 invoice_amount, open_amount, status, days_overdue, aging_bucket, priority_score, risk_tier,
		 dispute_flagged, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		invoice.ID,
		invoice.OrgID,
		invoice.CustomerID,
		invoice.InvoiceNumber,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.InvoiceAmount,
		invoice.OpenAmount,
		invoice.Status,
		invoice.DaysOverdue,
		invoice.AgingBucket,
		invoice.PriorityScore,
		invoice.RiskTier,
		invoice.DisputeFlagged,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) FindByNumber(ctx context.Context, db *gorm.DB, orgID snowflake.ID, invoiceNumber string) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := db.WithContext(ctx).
		Where("org_id = ? AND invoice_number = ?", orgID, invoiceNumber).
		Limit(1).
		Find(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

// Update overwrites dates, amounts, status and score fields in place. No
// value history is retained; corrections are full upserts.
func (r *repo) Update(ctx context.Context, db *gorm.DB, invoice *domain.Invoice) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET invoice_date = ?, due_date = ?, invoice_amount = ?, open_amount = ?,
		 status = ?, days_overdue = ?, aging_bucket = ?, priority_score = ?, risk_tier = ?,
		 dispute_flagged = ?, updated_at = ?
		 WHERE id = ?`,
		invoice.InvoiceDate,
		invoice.DueDate,
		invoice.InvoiceAmount,
		invoice.OpenAmount,
		invoice.Status,
		invoice.DaysOverdue,
		invoice.AgingBucket,
		invoice.PriorityScore,
		invoice.RiskTier,
		invoice.DisputeFlagged,
		time.Now().UTC(),
		invoice.ID,
	).Error
}

func (r *repo) ListByCustomer(ctx context.Context, db *gorm.DB, customerID snowflake.ID) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	err := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("customer_id = ?", customerID).
		Order("due_date asc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID, statuses []domain.InvoiceStatus) ([]*domain.Invoice, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("org_id = ?", orgID)
	if len(statuses) > 0 {
		stmt = stmt.Where("status IN ?", statuses)
	}

	var invoices []*domain.Invoice
	err := stmt.
		Order("priority_score desc, id asc").
		Find(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}
