package domain_test

import (
	"testing"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalEntry_IsBalanced(t *testing.T) {
	amt := decimal.RequireFromString("25.00")
	entry := domain.JournalEntry{
		TxnID: "txn_1",
		Lines: []domain.JournalLine{
			{AccountCode: "Expenses:Dining:Restaurants", Side: domain.Debit, Amount: amt},
			{AccountCode: "Assets:Bank:Checking", Side: domain.Credit, Amount: amt},
		},
	}
	assert.True(t, entry.IsBalanced())

	entry.Lines[1].Amount = decimal.RequireFromString("24.99")
	assert.False(t, entry.IsBalanced())
	d, c := entry.Totals()
	assert.Equal(t, "25", d.String())
	assert.Equal(t, "24.99", c.String())
}

func TestJournalEntry_HasLineage(t *testing.T) {
	assert.True(t, domain.JournalEntry{SourceHash: "abc", TransformVersion: 1}.HasLineage())
	assert.False(t, domain.JournalEntry{SourceHash: "", TransformVersion: 1}.HasLineage())
	assert.False(t, domain.JournalEntry{SourceHash: "abc", TransformVersion: 0}.HasLineage())
}

func TestChart_Lookup(t *testing.T) {
	chart := domain.NewChart([]domain.Account{
		{AccountID: "a1", Code: "Assets:Bank:Checking", AccountType: domain.Asset, IsCash: true},
		{AccountID: "a2", Code: "Income:Salary", AccountType: domain.Revenue},
	})

	acc, ok := chart.ByCode("Assets:Bank:Checking")
	assert.True(t, ok)
	assert.Equal(t, "a1", acc.AccountID)

	_, ok = chart.ByCode("Assets:Bank:Unknown")
	assert.False(t, ok)

	acc, ok = chart.ByID("a2")
	assert.True(t, ok)
	assert.Equal(t, "Income:Salary", acc.Code)
	assert.Equal(t, 2, chart.Len())
}
