// Package reconcile compares AS-OF ledger balances with externally reported balances and evaluates the
// audit gates. It performs no I/O.
package reconcile

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// DefaultTolerance is the inclusive bound on |total variance|.
var DefaultTolerance = decimal.New(1, -2)

// ErrInvalidInput is returned for malformed input; no result is produced.
var ErrInvalidInput = fmt.Errorf("invalid reconciliation input: %w", apperrors.ErrValidation)

// CoverageError lists mapped cash accounts that have no external balance.
type CoverageError struct {
	Missing []string
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("missing external balances for mapped cash accounts: %s", strings.Join(e.Missing, ", "))
}

func (e *CoverageError) Unwrap() error { return apperrors.ErrCoverage }

// Input is everything a reconciliation needs. Ledger must be a consistent point-in-time view.
type Input struct {
	Period             domain.Period
	ItemID             string // Empty means every item
	MappedCashAccounts []domain.MappedCashAccount
	ExternalBalances   map[string]decimal.Decimal // Keyed by source account id
	Ledger             *domain.LedgerSnapshot
	Tolerance          decimal.NullDecimal // DefaultTolerance when not set
}

// Reconcile evaluates coverage, cash variance, entry balance and lineage.
//
// A failed gate is reported in the result, never as an error. Missing coverage returns the complete
// result together with a *CoverageError so callers can both persist the report and classify the run.
func Reconcile(in Input) (*domain.ReconciliationResult, error) {
	tolerance, err := validate(in)
	if err != nil {
		return nil, err
	}

	result := &domain.ReconciliationResult{
		Period:      in.Period.Label,
		PeriodStart: in.Period.Start,
		PeriodEnd:   in.Period.End,
		ItemID:      in.ItemID,
	}

	mapped := slices.Clone(in.MappedCashAccounts)
	slices.SortFunc(mapped, func(a, b domain.MappedCashAccount) int {
		return strings.Compare(a.SourceAccountID, b.SourceAccountID)
	})

	result.Checks.Coverage = checkCoverage(mapped, in.ExternalBalances)
	result.Checks.CashVariance = checkCashVariance(in, mapped, tolerance)
	result.Checks.EntryBalance, result.Checks.Lineage = checkEntries(in)

	c := result.Checks
	result.Success = c.Coverage.Passed && c.CashVariance.Passed && c.EntryBalance.Passed && c.Lineage.Passed

	if !c.Coverage.Passed {
		return result, &CoverageError{Missing: c.Coverage.Missing}
	}
	return result, nil
}

func validate(in Input) (decimal.Decimal, error) {
	var errs []error
	if in.Period.Start.IsZero() || in.Period.End.IsZero() || in.Period.End.Before(in.Period.Start) {
		errs = append(errs, errors.New("period is not set"))
	}
	if in.Ledger == nil {
		errs = append(errs, errors.New("ledger snapshot is nil"))
	}
	tolerance := DefaultTolerance
	if in.Tolerance.Valid {
		tolerance = in.Tolerance.Decimal
		if tolerance.IsNegative() {
			errs = append(errs, fmt.Errorf("tolerance %s is negative", tolerance))
		}
	}
	seen := make(map[string]struct{}, len(in.MappedCashAccounts))
	for _, m := range in.MappedCashAccounts {
		if m.SourceAccountID == "" || m.AccountID == "" {
			errs = append(errs, fmt.Errorf("mapped cash account %q/%q is incomplete", m.SourceAccountID, m.AccountID))
			continue
		}
		if _, dup := seen[m.SourceAccountID]; dup {
			errs = append(errs, fmt.Errorf("source account %s mapped twice", m.SourceAccountID))
		}
		seen[m.SourceAccountID] = struct{}{}
	}
	if len(errs) > 0 {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return tolerance, nil
}

func checkCoverage(mapped []domain.MappedCashAccount, balances map[string]decimal.Decimal) domain.CoverageCheck {
	check := domain.CoverageCheck{Missing: []string{}, Ignored: []string{}}
	mappedIDs := make(map[string]struct{}, len(mapped))
	for _, m := range mapped {
		mappedIDs[m.SourceAccountID] = struct{}{}
		if _, ok := balances[m.SourceAccountID]; !ok {
			check.Missing = append(check.Missing, m.SourceAccountID)
		}
	}
	for id := range balances {
		if _, ok := mappedIDs[id]; !ok {
			check.Ignored = append(check.Ignored, id)
		}
	}
	slices.Sort(check.Ignored)
	check.Passed = len(check.Missing) == 0
	return check
}

func inScope(in Input, e domain.JournalEntry) bool {
	return in.ItemID == "" || e.ItemID == in.ItemID
}

// checkCashVariance sums debits minus credits per mapped account over every in-scope entry dated on or
// before the period end. There is no lower bound.
func checkCashVariance(in Input, mapped []domain.MappedCashAccount, tolerance decimal.Decimal) domain.CashVarianceCheck {
	ledger := make(map[string]decimal.Decimal, len(mapped))
	for _, m := range mapped {
		ledger[m.AccountID] = decimal.Zero
	}
	for _, e := range in.Ledger.Entries {
		if !inScope(in, e) || domain.DateOnly(e.TxnDate).After(in.Period.End) {
			continue
		}
		for _, l := range e.Lines {
			if bal, ok := ledger[l.AccountID]; ok {
				ledger[l.AccountID] = bal.Add(accounting.SignedAmount(l))
			}
		}
	}

	check := domain.CashVarianceCheck{
		TotalVariance: decimal.Zero,
		Tolerance:     tolerance,
		ByAccount:     []domain.AccountVariance{},
	}
	for _, m := range mapped {
		external, ok := in.ExternalBalances[m.SourceAccountID]
		if !ok {
			continue
		}
		v := domain.AccountVariance{
			SourceAccountID: m.SourceAccountID,
			AccountID:       m.AccountID,
			AccountCode:     m.AccountCode,
			LedgerBalance:   ledger[m.AccountID],
			ExternalBalance: external,
			Variance:        ledger[m.AccountID].Sub(external),
		}
		check.ByAccount = append(check.ByAccount, v)
		check.TotalVariance = check.TotalVariance.Add(v.Variance)
	}
	check.Passed = check.TotalVariance.Abs().LessThanOrEqual(tolerance)
	return check
}

// checkEntries runs the entry-balance and lineage gates over in-scope entries dated within the period.
func checkEntries(in Input) (domain.EntryBalanceCheck, domain.LineageCheck) {
	bal := domain.EntryBalanceCheck{UnbalancedEntries: []domain.UnbalancedEntry{}}
	lin := domain.LineageCheck{Offenders: []string{}}

	for _, e := range in.Ledger.Entries {
		if !inScope(in, e) || !in.Period.Contains(e.TxnDate) {
			continue
		}
		bal.EntriesChecked++
		lin.EntriesChecked++
		if d, c := e.Totals(); !d.Equal(c) {
			bal.UnbalancedEntries = append(bal.UnbalancedEntries, domain.UnbalancedEntry{TxnID: e.TxnID, Debits: d, Credits: c})
		}
		if !e.HasLineage() {
			lin.Offenders = append(lin.Offenders, e.TxnID)
		}
	}

	slices.SortFunc(bal.UnbalancedEntries, func(a, b domain.UnbalancedEntry) int { return strings.Compare(a.TxnID, b.TxnID) })
	slices.Sort(lin.Offenders)
	lin.MissingLineage = len(lin.Offenders)
	bal.Passed = len(bal.UnbalancedEntries) == 0
	lin.Passed = lin.MissingLineage == 0
	return bal, lin
}
