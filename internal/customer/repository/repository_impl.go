package repository

import (
	"context"
	"time"

	"github.com/arclear/arclear/internal/customer/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO customers (id, org_id, name, primary_email, payment_terms, historical_avg_days_to_pay,
		 historical_late_rate, last_payment_date, dispute_flagged, total_open_amount, total_overdue_amount,
		 open_invoice_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.OrgID,
		customer.Name,
		customer.PrimaryEmail,
		customer.PaymentTerms,
		customer.HistoricalAvgDaysToPay,
		customer.HistoricalLateRate,
		customer.LastPaymentDate,
		customer.DisputeFlagged,
		customer.TotalOpenAmount,
		customer.TotalOverdueAmount,
		customer.OpenInvoiceCount,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("org_id = ? AND name = ?", orgID, name).
		Limit(1).
		Find(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindByNormalizedName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, normalized string) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).
		Where("org_id = ? AND LOWER(TRIM(name)) = ?", orgID, normalized).
		Limit(1).
		Find(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) BackfillEmail(ctx context.Context, db *gorm.DB, id snowflake.ID, email string) error {
	// Guard in SQL so the set-once contract holds under concurrent batches.
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET primary_email = ?, updated_at = ?
		 WHERE id = ? AND (primary_email IS NULL OR primary_email = '')`,
		email,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) UpdateStats(ctx context.Context, db *gorm.DB, id snowflake.ID, stats domain.Stats) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET total_open_amount = ?, total_overdue_amount = ?, open_invoice_count = ?, updated_at = ?
		 WHERE id = ?`,
		stats.TotalOpenAmount,
		stats.TotalOverdueAmount,
		stats.OpenInvoiceCount,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) SetDisputeFlagged(ctx context.Context, db *gorm.DB, id snowflake.ID, flagged bool) error {
	return db.WithContext(ctx).Exec(
		`UPDATE customers SET dispute_flagged = ?, updated_at = ? WHERE id = ?`,
		flagged,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	err := db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("org_id = ?", orgID).
		Order("name asc").
		Find(&customers).Error
	if err != nil {
		return nil, err
	}
	return customers, nil
}
