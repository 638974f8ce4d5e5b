package repositories

import (
	"context"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// EventRepository is the append-only audit log. Events are never updated or deleted.
type EventRepository interface {
	// SaveEvent appends an event.
	SaveEvent(ctx context.Context, event domain.EtlEvent) error

	// ListEvents returns events newest first, with a token for the next page.
	ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EtlEvent, *string, error)
}
