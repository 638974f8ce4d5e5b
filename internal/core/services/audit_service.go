package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/google/uuid"
)

const defaultEventPageSize = 20

type auditService struct {
	BaseService
	eventRepo portsrepo.EventRepository
}

// NewAuditService creates the append-only audit recorder.
func NewAuditService(repo portsrepo.EventRepository) portssvc.AuditSvc {
	return &auditService{eventRepo: repo}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

// Record validates and appends an event. A zero FinishedAt is set to now.
func (s *auditService) Record(ctx context.Context, event domain.EtlEvent) (domain.EtlEvent, error) {
	if !event.EventType.Valid() {
		return domain.EtlEvent{}, fmt.Errorf("unknown event type %q: %w", event.EventType, apperrors.ErrValidation)
	}
	if event.StartedAt.IsZero() {
		return domain.EtlEvent{}, fmt.Errorf("event started_at is required: %w", apperrors.ErrValidation)
	}
	if event.FinishedAt.IsZero() {
		event.FinishedAt = s.Now()
	}
	if event.FinishedAt.Before(event.StartedAt) {
		return domain.EtlEvent{}, fmt.Errorf("event finished before it started: %w", apperrors.ErrValidation)
	}
	if event.RowCounts == nil {
		event.RowCounts = map[string]any{}
	}
	event.EventID = uuid.NewString()

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to save audit event",
			slog.String("event_type", string(event.EventType)),
			slog.String("item_id", event.ItemID))
		return domain.EtlEvent{}, err
	}

	s.LogInfo(ctx, "Audit event recorded",
		slog.String("event_id", event.EventID),
		slog.String("event_type", string(event.EventType)),
		slog.String("item_id", event.ItemID),
		slog.Bool("success", event.Success))
	return event, nil
}

func (s *auditService) List(ctx context.Context, params dto.ListEventsParams) (*dto.ListEventsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultEventPageSize
	}
	filter := domain.EventFilter{
		ItemID:    params.ItemID,
		EventType: domain.EventType(params.EventType),
		Limit:     limit,
	}
	if params.NextToken != "" {
		filter.NextToken = &params.NextToken
	}

	events, next, err := s.eventRepo.ListEvents(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit events", slog.String("item_id", params.ItemID))
		return nil, err
	}
	if events == nil {
		events = []domain.EtlEvent{}
	}
	return &dto.ListEventsResponse{Events: events, NextToken: next}, nil
}

// recordRun appends an event for a finished run. Recording failures are logged and returned only when
// the run itself succeeded.
func recordRun(ctx context.Context, base *BaseService, audit portssvc.AuditSvc, event domain.EtlEvent, runErr error) error {
	event.Success = runErr == nil
	event.FinishedAt = base.Now()
	// A cancelled run is still recorded.
	ctx = context.WithoutCancel(ctx)
	if _, err := audit.Record(ctx, event); err != nil {
		base.LogError(ctx, err, "Failed to record run event", slog.String("event_type", string(event.EventType)))
		if runErr == nil {
			return err
		}
	}
	return runErr
}
