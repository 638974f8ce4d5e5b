package transform

import (
	"errors"
	"fmt"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
)

var (
	// ErrMalformedRecord is returned for records missing required fields or carrying unparsable values.
	ErrMalformedRecord = fmt.Errorf("malformed source record: %w", apperrors.ErrValidation)
	// ErrUnbalancedEntry means the transform produced lines that do not balance. It is a defect.
	ErrUnbalancedEntry = errors.New("transform produced an unbalanced entry")
)

// UnmappedAccountError is returned when a source account's type/subtype has no ledger route.
type UnmappedAccountError struct {
	TxnID           string
	SourceAccountID string
	Type            string
	Subtype         string
}

func (e *UnmappedAccountError) Error() string {
	return fmt.Sprintf("Unmapped Plaid account type/subtype: %s/%s (account %s, txn %s)",
		e.Type, e.Subtype, e.SourceAccountID, e.TxnID)
}

func (e *UnmappedAccountError) Unwrap() error { return apperrors.ErrUnmappedAccount }

// UnknownSourceAccountError is returned when a record references an account with no metadata.
type UnknownSourceAccountError struct {
	TxnID           string
	SourceAccountID string
}

func (e *UnknownSourceAccountError) Error() string {
	return fmt.Sprintf("no account metadata for source account %s (txn %s)", e.SourceAccountID, e.TxnID)
}

func (e *UnknownSourceAccountError) Unwrap() error { return apperrors.ErrUnmappedAccount }

// AccountLinkError is returned when a source account cannot be posted through its ledger link: the
// link is missing, points at an account of the wrong class, or no linked cash account can fund a
// liability payment.
type AccountLinkError struct {
	TxnID           string
	SourceAccountID string
	AccountCode     string // linked ledger account, empty when no link exists
	Reason          string
}

func (e *AccountLinkError) Error() string {
	if e.AccountCode == "" {
		return fmt.Sprintf("Plaid account %s %s (txn %s)", e.SourceAccountID, e.Reason, e.TxnID)
	}
	return fmt.Sprintf("Plaid account %s linked to %s %s (txn %s)", e.SourceAccountID, e.AccountCode, e.Reason, e.TxnID)
}

func (e *AccountLinkError) Unwrap() error { return apperrors.ErrUnmappedAccount }
