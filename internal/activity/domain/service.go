package domain

import (
	"context"
	"errors"

	"github.com/arclear/arclear/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
)

type RecordRequest struct {
	CustomerID snowflake.ID
	InvoiceID  *snowflake.ID
	Type       ActivityType
	Metadata   map[string]any
}

type ListActivityRequest struct {
	pagination.Pagination
	Type       string
	CustomerID string
}

type ListActivityResponse struct {
	pagination.PageInfo
	Activities []Activity `json:"activities"`
}

type Service interface {
	Record(ctx context.Context, req RecordRequest) error
	List(ctx context.Context, req ListActivityRequest) (ListActivityResponse, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidPageToken    = errors.New("invalid_page_token")
	ErrInvalidType         = errors.New("invalid_type")
	ErrInvalidCustomerID   = errors.New("invalid_customer_id")
)
