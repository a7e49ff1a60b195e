package domain

import (
	"context"

	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// WorklistFilter narrows the worklist query. Zero values mean no filtering
// on that dimension.
type WorklistFilter struct {
	RiskTier    invoicedomain.RiskTier
	AgingBucket invoicedomain.AgingBucket
	Search      string
	MinAmount   *float64
	MaxAmount   *float64
}

type Repository interface {
	// Worklist returns active invoices joined with customers, ordered by
	// priority score descending and capped at limit.
	Worklist(ctx context.Context, db *gorm.DB, orgID snowflake.ID, filter WorklistFilter, limit int) ([]WorklistItem, error)
}
