package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, upload *Upload) error
	SetStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status UploadStatus, errorSummary *string) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Upload, error)
}
