package domain

import (
	"context"
	"errors"
	"time"

	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/bwmarrin/snowflake"
)

type FindOrCreateRequest struct {
	Name                   string
	Email                  string
	PaymentTerms           *int
	HistoricalAvgDaysToPay *float64
	HistoricalLateRate     *float64
	LastPaymentDate        *time.Time
}

type GetCustomerRequest struct {
	ID string
}

// CustomerDetail is the drill-down view: the customer plus its invoices.
type CustomerDetail struct {
	Customer Customer                `json:"customer"`
	Invoices []invoicedomain.Invoice `json:"invoices"`
}

type Service interface {
	// FindOrCreate resolves a customer through the configured matcher,
	// creating it when absent. The returned bool reports whether a new
	// customer was created. Find-or-create is atomic with respect to
	// concurrent batches: losing an insert race falls back to the winner.
	FindOrCreate(ctx context.Context, req FindOrCreateRequest) (Customer, bool, error)
	// BackfillEmail sets the primary email if and only if it is still empty.
	BackfillEmail(ctx context.Context, customerID snowflake.ID, email string) error
	// RecalculateStats fully recomputes the customer's aggregates from its
	// current invoice set and persists them.
	RecalculateStats(ctx context.Context, customerID snowflake.ID) (Stats, error)
	GetByID(ctx context.Context, req GetCustomerRequest) (CustomerDetail, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
)
