package domain

import (
	"context"

	"github.com/arclear/arclear/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Type       ActivityType
	CustomerID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, activity *Activity) error
	// List returns up to limit+1 rows after the cursor so the caller can
	// derive page info.
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter ListFilter, cursor *pagination.Cursor, limit int) ([]*Activity, error)
}
