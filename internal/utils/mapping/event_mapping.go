package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/models"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToModelEtlEvent converts a domain EtlEvent to an etl_events row, encoding row counts as JSON.
func ToModelEtlEvent(d domain.EtlEvent) (models.EtlEvent, error) {
	counts := d.RowCounts
	if counts == nil {
		counts = map[string]any{}
	}
	payload, err := json.Marshal(counts)
	if err != nil {
		return models.EtlEvent{}, fmt.Errorf("encode row counts: %w", err)
	}
	return models.EtlEvent{
		EventID:    d.EventID,
		EventType:  string(d.EventType),
		ItemID:     optional(d.ItemID),
		Period:     optional(d.Period),
		RowCounts:  payload,
		StartedAt:  d.StartedAt.UTC(),
		FinishedAt: d.FinishedAt.UTC(),
		Success:    d.Success,
	}, nil
}

// ToDomainEtlEvent converts an etl_events row to a domain EtlEvent.
func ToDomainEtlEvent(m models.EtlEvent) (domain.EtlEvent, error) {
	counts := map[string]any{}
	if len(m.RowCounts) > 0 {
		if err := json.Unmarshal(m.RowCounts, &counts); err != nil {
			return domain.EtlEvent{}, fmt.Errorf("decode row counts of event %s: %w", m.EventID, err)
		}
	}
	return domain.EtlEvent{
		EventID:    m.EventID,
		EventType:  domain.EventType(m.EventType),
		ItemID:     deref(m.ItemID),
		Period:     deref(m.Period),
		RowCounts:  counts,
		StartedAt:  m.StartedAt.UTC(),
		FinishedAt: m.FinishedAt.UTC(),
		Success:    m.Success,
	}, nil
}
