// Package pagination encodes opaque keyset cursors for list endpoints.
package pagination

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

// EncodeMultiFieldToken joins fields with "|" and base64-encodes the result.
func EncodeMultiFieldToken(fields ...string) string {
	return base64.StdEncoding.EncodeToString([]byte(strings.Join(fields, "|")))
}

// DecodeMultiFieldToken decodes a token into exactly want fields.
func DecodeMultiFieldToken(token string, want int) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.Split(string(decodedBytes), "|")
	if len(parts) != want {
		return nil, fmt.Errorf("invalid pagination token format: expected %d fields, got %d", want, len(parts))
	}
	return parts, nil
}

// EventCursor is the keyset position of an audit event in a newest-first listing.
type EventCursor struct {
	StartedAt time.Time
	EventID   string
}

// EncodeEventToken creates the token pointing after the given event.
func EncodeEventToken(startedAt time.Time, eventID string) string {
	return EncodeMultiFieldToken(startedAt.UTC().Format(timeFormat), eventID)
}

// DecodeEventToken parses a token produced by EncodeEventToken.
func DecodeEventToken(token string) (EventCursor, error) {
	parts, err := DecodeMultiFieldToken(token, 2)
	if err != nil {
		return EventCursor{}, err
	}
	startedAt, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return EventCursor{}, fmt.Errorf("invalid pagination token format (started_at parse): %w", err)
	}
	if parts[1] == "" {
		return EventCursor{}, fmt.Errorf("invalid pagination token format: empty event id")
	}
	return EventCursor{StartedAt: startedAt, EventID: parts[1]}, nil
}

// Before reports whether an event sorts after the cursor in newest-first order.
func (c EventCursor) Before(startedAt time.Time, eventID string) bool {
	if !startedAt.Equal(c.StartedAt) {
		return startedAt.Before(c.StartedAt)
	}
	return eventID < c.EventID
}
