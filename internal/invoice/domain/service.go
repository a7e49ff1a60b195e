package domain

import (
	"context"
	"errors"
)

// Action is a single-invoice state change requested from the worklist.
type Action string

const (
	ActionMarkPaid    Action = "mark_paid"
	ActionFlagDispute Action = "flag_dispute"
	ActionAddNote     Action = "add_note"
)

type ApplyActionRequest struct {
	InvoiceID string
	Action    Action
	Note      string
}

type Service interface {
	// ApplyAction dispatches exhaustively on the action tag; unrecognized
	// tags fail with ErrInvalidAction before any mutation. Every action that
	// touches the invoice triggers a recompute of its customer's aggregates.
	ApplyAction(ctx context.Context, req ApplyActionRequest) error
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrInvalidAction       = errors.New("invalid_action")
)
