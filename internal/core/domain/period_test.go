package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		label     string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"2024Q1", day(2024, 1, 1), day(2024, 3, 31)},
		{"2024Q2", day(2024, 4, 1), day(2024, 6, 30)},
		{"2024Q3", day(2024, 7, 1), day(2024, 9, 30)},
		{"2024Q4", day(2024, 10, 1), day(2024, 12, 31)},
		{"2024-02", day(2024, 2, 1), day(2024, 2, 29)},
		{"2023-12", day(2023, 12, 1), day(2023, 12, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			p, err := domain.ParsePeriod(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.label, p.Label)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)
		})
	}
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, label := range []string{"", "2024Q5", "2024-13", "24Q1", "2024q1", "Q1-2024"} {
		_, err := domain.ParsePeriod(label)
		assert.Error(t, err, label)
	}
}

func TestPeriod_Contains(t *testing.T) {
	p, err := domain.ParsePeriod("2024Q1")
	require.NoError(t, err)

	assert.True(t, p.Contains(day(2024, 1, 1)))
	assert.True(t, p.Contains(time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, p.Contains(day(2023, 12, 31)))
	assert.False(t, p.Contains(day(2024, 4, 1)))
}
