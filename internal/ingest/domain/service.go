package domain

import (
	"context"
	"errors"
	"io"

	"github.com/arclear/arclear/internal/ingest/parser"
	"github.com/bwmarrin/snowflake"
)

type ProcessBatchRequest struct {
	FileName string
	Content  io.Reader
}

// BatchResult reports the outcome of one upload. On validation failure
// Success is false, Errors carries every row error, and nothing was
// committed.
type BatchResult struct {
	Success        bool              `json:"success"`
	UploadID       snowflake.ID      `json:"upload_id"`
	TotalRows      int               `json:"total_rows"`
	ProcessedCount int               `json:"processed_count"`
	UpdatedCount   int               `json:"updated_count"`
	Errors         []parser.RowError `json:"errors,omitempty"`
}

type GetUploadRequest struct {
	ID string
}

type Service interface {
	// ProcessBatch validates and commits one CSV upload. Row validation
	// errors are reported in the result, not as an error; a non-nil error
	// means the batch could not be read or a storage write failed mid-batch.
	ProcessBatch(ctx context.Context, req ProcessBatchRequest) (BatchResult, error)
	GetUpload(ctx context.Context, req GetUploadRequest) (Upload, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrTooManyRows         = errors.New("too_many_rows")
)
