package domain

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Matcher resolves an uploaded customer name to an existing customer.
//
// Exact matching is the documented default: typos in uploaded names create
// new customers rather than silently merging into a near-match. Alternative
// strategies plug in here without changing reconciliation itself.
type Matcher interface {
	Name() string
	Find(ctx context.Context, db *gorm.DB, repo Repository, orgID snowflake.ID, name string) (*Customer, error)
}

// ExactMatcher matches on the stored name byte-for-byte.
type ExactMatcher struct{}

func (ExactMatcher) Name() string { return "exact" }

func (ExactMatcher) Find(ctx context.Context, db *gorm.DB, repo Repository, orgID snowflake.ID, name string) (*Customer, error) {
	return repo.FindByName(ctx, db, orgID, name)
}

// NormalizedMatcher matches case- and surrounding-whitespace-insensitively.
type NormalizedMatcher struct{}

func (NormalizedMatcher) Name() string { return "normalized" }

func (NormalizedMatcher) Find(ctx context.Context, db *gorm.DB, repo Repository, orgID snowflake.ID, name string) (*Customer, error) {
	return repo.FindByNormalizedName(ctx, db, orgID, NormalizeName(name))
}

// NormalizeName trims surrounding whitespace and lowercases, mirroring the
// LOWER(TRIM(name)) comparison applied on the stored side.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
