package domain

import (
	"context"
	"errors"
)

// QueryRequest carries the worklist filters from the dashboard query string.
type QueryRequest struct {
	RiskTier    string   `form:"riskTier"`
	AgingBucket string   `form:"agingBucket"`
	Search      string   `form:"search"`
	MinAmount   *float64 `form:"minAmount"`
	MaxAmount   *float64 `form:"maxAmount"`
}

type Service interface {
	Get(ctx context.Context, req QueryRequest) (Dashboard, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidRiskTier     = errors.New("invalid_risk_tier")
	ErrInvalidAgingBucket  = errors.New("invalid_aging_bucket")
	ErrInvalidAmountRange  = errors.New("invalid_amount_range")
)
