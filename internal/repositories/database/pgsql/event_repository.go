package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	"github.com/SscSPs/plaid_ledger_recon/internal/models"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/mapping"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/pagination"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEventRepository struct {
	BaseRepository
}

func newPgxEventRepository(pool *pgxpool.Pool) portsrepo.EventRepository {
	return &PgxEventRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.EventRepository = (*PgxEventRepository)(nil)

// SaveEvent appends an event. There is deliberately no update or delete path.
func (r *PgxEventRepository) SaveEvent(ctx context.Context, event domain.EtlEvent) error {
	m, err := mapping.ToModelEtlEvent(event)
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	query := `
		INSERT INTO etl_events (event_id, event_type, item_id, period, row_counts, started_at, finished_at, success)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.EventID,
		m.EventType,
		m.ItemID,
		m.Period,
		string(m.RowCounts),
		m.StartedAt,
		m.FinishedAt,
		m.Success,
	)
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return fmt.Errorf("%w: event %s", apperrors.ErrDuplicate, m.EventID)
		}
		return apperrors.NewAppError(500, "failed to insert etl event", err)
	}
	return nil
}

// ListEvents pages newest first using a (started_at, event_id) keyset.
func (r *PgxEventRepository) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EtlEvent, *string, error) {
	args := []any{filter.ItemID, string(filter.EventType)}
	query := `
		SELECT event_id, event_type, item_id, period, row_counts, started_at, finished_at, success
		FROM etl_events
		WHERE ($1 = '' OR item_id = $1) AND ($2 = '' OR event_type = $2)
	`
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeEventToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		query += ` AND (started_at, event_id) < ($3, $4)`
		args = append(args, cursor.StartedAt, cursor.EventID)
	}
	query += ` ORDER BY started_at DESC, event_id DESC`
	if filter.Limit > 0 {
		// Fetch one extra row to know whether another page exists
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit+1)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list etl events", err)
	}
	defer rows.Close()

	var events []domain.EtlEvent
	for rows.Next() {
		var m models.EtlEvent
		if err := rows.Scan(&m.EventID, &m.EventType, &m.ItemID, &m.Period, &m.RowCounts, &m.StartedAt, &m.FinishedAt, &m.Success); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan etl event row", err)
		}
		e, err := mapping.ToDomainEtlEvent(m)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to decode etl event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating etl event rows", err)
	}

	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
		last := events[len(events)-1]
		next := pagination.EncodeEventToken(last.StartedAt, last.EventID)
		return events, &next, nil
	}
	return events, nil, nil
}
