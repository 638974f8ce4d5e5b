package dto

import (
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// ListEventsParams defines the query parameters for listing audit events.
type ListEventsParams struct {
	ItemID    string `form:"itemID"`
	EventType string `form:"eventType" binding:"omitempty,oneof=ingest load reconcile"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListEventsResponse wraps a page of events.
type ListEventsResponse struct {
	Events    []domain.EtlEvent `json:"events"`
	NextToken *string           `json:"nextToken,omitempty"`
}
