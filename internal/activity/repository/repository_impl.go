package repository

import (
	"context"
	"time"

	"github.com/arclear/arclear/internal/activity/domain"
	"github.com/arclear/arclear/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, activity *domain.Activity) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO activities (id, org_id, customer_id, invoice_id, type, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		activity.ID,
		activity.OrgID,
		activity.CustomerID,
		activity.InvoiceID,
		activity.Type,
		activity.Metadata,
		activity.CreatedAt,
	).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter domain.ListFilter, cursor *pagination.Cursor, limit int) ([]*domain.Activity, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Activity{}).
		Where("org_id = ?", orgID)
	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.CustomerID != 0 {
		stmt = stmt.Where("customer_id = ?", filter.CustomerID)
	}
	if cursor != nil {
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("(created_at, id) < (?, ?)", createdAt, id)
	}

	var activities []*domain.Activity
	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&activities).Error
	if err != nil {
		return nil, err
	}
	return activities, nil
}
