package accounting

import (
	"errors"
	"fmt"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ErrUnbalanced is returned when an entry's debits and credits differ.
var ErrUnbalanced = errors.New("journal entry does not balance")

// SignedAmount returns a line's contribution to a debit-normal balance:
// DEBIT -> Positive (+), CREDIT -> Negative (-).
func SignedAmount(line domain.JournalLine) decimal.Decimal {
	if line.Side == domain.Credit {
		return line.Amount.Neg()
	}
	return line.Amount
}

// NaturalBalance converts a debit-normal balance into the account type's natural sign.
// Liability, equity and revenue accounts carry credit balances, so their debit-normal figure is negated.
func NaturalBalance(debitNormal decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debitNormal, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return debitNormal.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// ValidateEntryBalance checks that an entry has at least two lines with valid sides and non-negative
// amounts, and that its debits equal its credits exactly.
func ValidateEntryBalance(entry domain.JournalEntry) error {
	if len(entry.Lines) < 2 {
		return fmt.Errorf("entry %s must have at least two lines, got %d", entry.TxnID, len(entry.Lines))
	}

	sum := decimal.Zero
	for i, line := range entry.Lines {
		if line.Side != domain.Debit && line.Side != domain.Credit {
			return fmt.Errorf("entry %s line %d: invalid side %q", entry.TxnID, i, line.Side)
		}
		if line.Amount.IsNegative() {
			return fmt.Errorf("entry %s line %d: amount must be non-negative, got %s", entry.TxnID, i, line.Amount)
		}
		sum = sum.Add(SignedAmount(line))
	}

	if !sum.IsZero() {
		d, c := entry.Totals()
		return fmt.Errorf("%w: entry %s debits %s != credits %s", ErrUnbalanced, entry.TxnID, d, c)
	}
	return nil
}
