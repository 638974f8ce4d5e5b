package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/extract"
)

type syncResponse struct {
	Added      []domain.RawRecord `json:"added"`
	NextCursor string             `json:"next_cursor"`
	HasMore    bool               `json:"has_more"`
}

// FetchPage implements extract.PageFetcher over /transactions/sync. Records dated outside the window are
// dropped; the source order of the remaining records is kept.
func (c *Client) FetchPage(ctx context.Context, window extract.Window, cursor string) (extract.Page, error) {
	body := map[string]any{}
	if cursor != "" {
		body["cursor"] = cursor
	}

	data, err := c.post(ctx, "/transactions/sync", body)
	if err != nil {
		return extract.Page{}, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var resp syncResponse
	if err := dec.Decode(&resp); err != nil {
		return extract.Page{}, fmt.Errorf("decode /transactions/sync response: %w", err)
	}

	page := extract.Page{Records: make([]domain.RawRecord, 0, len(resp.Added))}
	for _, rec := range resp.Added {
		if inWindow(rec, window) {
			page.Records = append(page.Records, rec)
		}
	}
	if resp.HasMore {
		page.NextCursor = resp.NextCursor
	}
	return page, nil
}

func inWindow(rec domain.RawRecord, w extract.Window) bool {
	if w.Start.IsZero() && w.End.IsZero() {
		return true
	}
	d, err := time.Parse(time.DateOnly, rec.String("date"))
	if err != nil {
		// Undated records are passed through; the transform rejects them as malformed.
		return true
	}
	if !w.Start.IsZero() && d.Before(domain.DateOnly(w.Start)) {
		return false
	}
	return w.End.IsZero() || !d.After(domain.DateOnly(w.End))
}
