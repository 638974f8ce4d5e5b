package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEtlEventMapping_OptionalColumns(t *testing.T) {
	started := time.Date(2024, 4, 1, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))

	m, err := ToModelEtlEvent(domain.EtlEvent{EventID: "e1", EventType: domain.EventIngest, StartedAt: started, FinishedAt: started})
	require.NoError(t, err)
	assert.Nil(t, m.ItemID)
	assert.Nil(t, m.Period)
	assert.JSONEq(t, `{}`, string(m.RowCounts))
	assert.Equal(t, time.UTC, m.StartedAt.Location())

	back, err := ToDomainEtlEvent(m)
	require.NoError(t, err)
	assert.Equal(t, "", back.ItemID)
	assert.Empty(t, back.RowCounts)
	assert.True(t, started.Equal(back.StartedAt))
}

func TestEtlEventMapping_RowCounts(t *testing.T) {
	m, err := ToModelEtlEvent(domain.EtlEvent{
		EventID:   "e2",
		EventType: domain.EventLoad,
		ItemID:    "item-1",
		RowCounts: domain.RowCounts{Attempted: 3, Inserted: 2, Skipped: 1}.AsMap(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"attempted":3,"inserted":2,"skipped":1,"source_accounts":0}`, string(m.RowCounts))
	require.NotNil(t, m.ItemID)
	assert.Equal(t, "item-1", *m.ItemID)

	m.RowCounts = []byte(`not json`)
	_, err = ToDomainEtlEvent(m)
	assert.Error(t, err)
}

func TestJournalMapping_TruncatesDate(t *testing.T) {
	d := domain.JournalEntry{TxnID: "t1", TxnDate: time.Date(2024, 1, 15, 13, 45, 0, 0, time.UTC)}
	m := ToModelJournalEntry(d)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), m.TxnDate)

	line := ToDomainJournalLine(ToModelJournalLine(domain.JournalLine{
		LineID: "l1", AccountID: "a1", Side: domain.Credit, Amount: decimal.RequireFromString("9.99"),
	}), "Assets:Bank:Checking")
	assert.Equal(t, "Assets:Bank:Checking", line.AccountCode)
	assert.Equal(t, domain.Credit, line.Side)
	assert.Equal(t, "9.99", line.Amount.String())
}
