package repository

import (
	"context"
	"time"

	"github.com/arclear/arclear/internal/ingest/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, upload *domain.Upload) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO uploads (id, org_id, file_name, status, error_summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		upload.ID,
		upload.OrgID,
		upload.FileName,
		upload.Status,
		upload.ErrorSummary,
		upload.CreatedAt,
		upload.UpdatedAt,
	).Error
}

func (r *repo) SetStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status domain.UploadStatus, errorSummary *string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE uploads SET status = ?, error_summary = ?, updated_at = ? WHERE id = ?`,
		status,
		errorSummary,
		time.Now().UTC(),
		id,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*domain.Upload, error) {
	var upload domain.Upload
	err := db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		Limit(1).
		Find(&upload).Error
	if err != nil {
		return nil, err
	}
	if upload.ID == 0 {
		return nil, nil
	}
	return &upload, nil
}
