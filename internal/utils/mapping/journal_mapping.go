package mapping

import (
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to its header row. Lines are mapped separately.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		TxnID:            d.TxnID,
		TxnDate:          domain.DateOnly(d.TxnDate),
		Description:      d.Description,
		CurrencyCode:     d.CurrencyCode,
		ItemID:           d.ItemID,
		SourceHash:       d.SourceHash,
		TransformVersion: d.TransformVersion,
	}
}

// ToDomainJournalEntry converts a header row to a domain JournalEntry without lines.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		TxnID:            m.TxnID,
		TxnDate:          domain.DateOnly(m.TxnDate),
		Description:      m.Description,
		CurrencyCode:     m.CurrencyCode,
		ItemID:           m.ItemID,
		SourceHash:       m.SourceHash,
		TransformVersion: m.TransformVersion,
	}
}

// ToModelJournalLine converts a domain JournalLine to a journal_lines row.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:    d.LineID,
		EntryID:   d.EntryID,
		AccountID: d.AccountID,
		Side:      string(d.Side),
		Amount:    d.Amount,
	}
}

// ToDomainJournalLine converts a journal_lines row, attaching the account code resolved by the query.
func ToDomainJournalLine(m models.JournalLine, accountCode string) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		AccountCode: accountCode,
		Side:        domain.Side(m.Side),
		Amount:      m.Amount,
	}
}
