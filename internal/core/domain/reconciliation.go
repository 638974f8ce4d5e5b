package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSnapshot is a point-in-time, read-only view of the ledger used by the reconciliation engine.
// Entries carry their lines; every line carries its account id.
type LedgerSnapshot struct {
	Entries []JournalEntry
}

// AccountVariance compares one mapped cash account's AS-OF ledger balance with its external balance.
type AccountVariance struct {
	SourceAccountID string          `json:"sourceAccountID"`
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode"`
	LedgerBalance   decimal.Decimal `json:"ledgerBalance"`
	ExternalBalance decimal.Decimal `json:"externalBalance"`
	Variance        decimal.Decimal `json:"variance"` // ledger - external
}

// CoverageCheck reports mapped cash accounts without an external balance.
type CoverageCheck struct {
	Passed  bool     `json:"passed"`
	Missing []string `json:"missing"`
	Ignored []string `json:"ignored"` // Balances supplied for unmapped accounts
}

// CashVarianceCheck is the tolerance gate over the summed per-account variances.
type CashVarianceCheck struct {
	Passed        bool              `json:"passed"`
	TotalVariance decimal.Decimal   `json:"totalVariance"`
	Tolerance     decimal.Decimal   `json:"tolerance"`
	ByAccount     []AccountVariance `json:"byAccount"`
}

// UnbalancedEntry names an entry whose debits and credits differ.
type UnbalancedEntry struct {
	TxnID   string          `json:"txnID"`
	Debits  decimal.Decimal `json:"debits"`
	Credits decimal.Decimal `json:"credits"`
}

// EntryBalanceCheck verifies every in-scope entry balances.
type EntryBalanceCheck struct {
	Passed            bool              `json:"passed"`
	EntriesChecked    int               `json:"entriesChecked"`
	UnbalancedEntries []UnbalancedEntry `json:"unbalancedEntries"`
}

// LineageCheck counts in-scope entries missing a source hash or transform version.
type LineageCheck struct {
	Passed         bool     `json:"passed"`
	EntriesChecked int      `json:"entriesChecked"`
	MissingLineage int      `json:"missingLineage"`
	Offenders      []string `json:"offenders"`
}

// ReconciliationChecks groups the per-gate outcomes.
type ReconciliationChecks struct {
	Coverage     CoverageCheck     `json:"coverage"`
	EntryBalance EntryBalanceCheck `json:"entryBalance"`
	CashVariance CashVarianceCheck `json:"cashVariance"`
	Lineage      LineageCheck      `json:"lineage"`
}

// ReconciliationResult is the structured report produced by a reconciliation run.
type ReconciliationResult struct {
	Period      string               `json:"period"`
	PeriodStart time.Time            `json:"periodStart"`
	PeriodEnd   time.Time            `json:"periodEnd"`
	ItemID      string               `json:"itemID"`
	Success     bool                 `json:"success"`
	Checks      ReconciliationChecks `json:"checks"`
}

// ChecksMap renders the checks in the shape stored on reconcile audit events.
func (r *ReconciliationResult) ChecksMap() map[string]any {
	return map[string]any{
		"coverage":       r.Checks.Coverage,
		"entry_balance":  r.Checks.EntryBalance,
		"cash_variance":  r.Checks.CashVariance,
		"lineage":        r.Checks.Lineage,
		"success":        r.Success,
		"total_variance": r.Checks.CashVariance.TotalVariance.StringFixed(2),
	}
}
