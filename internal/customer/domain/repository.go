package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Customer, error)
	FindByName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, name string) (*Customer, error)
	FindByNormalizedName(ctx context.Context, db *gorm.DB, orgID snowflake.ID, normalized string) (*Customer, error)
	// BackfillEmail sets the primary email only while it is still empty.
	BackfillEmail(ctx context.Context, db *gorm.DB, id snowflake.ID, email string) error
	UpdateStats(ctx context.Context, db *gorm.DB, id snowflake.ID, stats Stats) error
	SetDisputeFlagged(ctx context.Context, db *gorm.DB, id snowflake.ID, flagged bool) error
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*Customer, error)
}
