package domain

import "time"

// EventType classifies an audit event.
type EventType string

const (
	EventIngest    EventType = "ingest"
	EventLoad      EventType = "load"
	EventReconcile EventType = "reconcile"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventIngest, EventLoad, EventReconcile:
		return true
	}
	return false
}

// EtlEvent is an append-only record of a pipeline run. Events are never updated or deleted.
type EtlEvent struct {
	EventID    string         `json:"eventID"`
	EventType  EventType      `json:"eventType"`
	ItemID     string         `json:"itemID"`
	Period     string         `json:"period,omitempty"`
	RowCounts  map[string]any `json:"rowCounts"` // Row counts for ingest/load, checks for reconcile
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Success    bool           `json:"success"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	ItemID    string
	EventType EventType
	Limit     int
	NextToken *string
}

// RowCounts summarizes a load.
type RowCounts struct {
	Attempted      int `json:"attempted"`
	Inserted       int `json:"inserted"`
	Skipped        int `json:"skipped"`
	SourceAccounts int `json:"sourceAccounts"`
}

// AsMap renders the counts in the shape stored on audit events.
func (c RowCounts) AsMap() map[string]any {
	return map[string]any{
		"attempted":       c.Attempted,
		"inserted":        c.Inserted,
		"skipped":         c.Skipped,
		"source_accounts": c.SourceAccounts,
	}
}

// IngestSummary describes one extract-transform-load run.
type IngestSummary struct {
	ItemID         string    `json:"itemID"`
	SourceAccounts int       `json:"sourceAccounts"`
	Extracted      int       `json:"extracted"`
	PendingSkipped int       `json:"pendingSkipped"`
	ZeroSkipped    int       `json:"zeroSkipped"`
	Load           RowCounts `json:"load"`
	LedgerEntries  int       `json:"ledgerEntries"` // entries stored for the item after the load
	LedgerLines    int       `json:"ledgerLines"`
	StartedAt      time.Time `json:"startedAt"`
	FinishedAt     time.Time `json:"finishedAt"`
}
