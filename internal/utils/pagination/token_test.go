package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeEventToken(t *testing.T) {
	startedAt := time.Date(2024, 3, 31, 14, 30, 45, 123456789, time.UTC)

	token := EncodeEventToken(startedAt, "evt-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeEventToken(token)
	require.NoError(t, err)
	assert.True(t, startedAt.Equal(cursor.StartedAt), "Started at should match after decode")
	assert.Equal(t, "evt-42", cursor.EventID)

	// Non-UTC input is normalized
	local := startedAt.In(time.FixedZone("IST", 5*3600+1800))
	cursor, err = DecodeEventToken(EncodeEventToken(local, "evt-42"))
	require.NoError(t, err)
	assert.True(t, startedAt.Equal(cursor.StartedAt))
}

func TestDecodeEventToken_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not base64", "!!!"},
		{"single field", EncodeMultiFieldToken("2024-01-01T00:00:00Z")},
		{"bad time", EncodeMultiFieldToken("yesterday", "evt-1")},
		{"empty id", EncodeMultiFieldToken("2024-01-01T00:00:00Z", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEventToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestEventCursor_Before(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := EventCursor{StartedAt: base, EventID: "m"}

	assert.True(t, c.Before(base.Add(-time.Second), "z"), "older events come after the cursor")
	assert.False(t, c.Before(base.Add(time.Second), "a"))
	assert.True(t, c.Before(base, "a"), "ties break on event id")
	assert.False(t, c.Before(base, "m"))
}

func TestMultiFieldToken(t *testing.T) {
	token := EncodeMultiFieldToken("a", "b", "c")
	parts, err := DecodeMultiFieldToken(token, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, parts)

	_, err = DecodeMultiFieldToken(token, 2)
	assert.Error(t, err)
}
