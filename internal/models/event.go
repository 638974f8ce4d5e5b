package models

import "time"

// EtlEvent is a row of the append-only etl_events table.
type EtlEvent struct {
	EventID    string    `db:"event_id"`
	EventType  string    `db:"event_type"`
	ItemID     *string   `db:"item_id"`
	Period     *string   `db:"period"`
	RowCounts  []byte    `db:"row_counts"` // JSONB
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Success    bool      `db:"success"`
}
