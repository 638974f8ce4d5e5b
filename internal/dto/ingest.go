package dto

import (
	"fmt"
	"time"
)

// IngestRequest asks for one extract-transform-load run over a date window.
type IngestRequest struct {
	ItemID   string `json:"itemID" binding:"required"`
	From     string `json:"from" binding:"required,datetime=2006-01-02"`
	To       string `json:"to" binding:"required,datetime=2006-01-02"`
	MaxPages int    `json:"maxPages" binding:"omitempty,min=1,max=1000"`
}

// Dates parses From and To.
func (r IngestRequest) Dates() (time.Time, time.Time, error) {
	from, err := time.Parse(time.DateOnly, r.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q: %w", r.From, err)
	}
	to, err := time.Parse(time.DateOnly, r.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q: %w", r.To, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to date %s is before from date %s", r.To, r.From)
	}
	return from, to, nil
}
