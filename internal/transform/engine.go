// Package transform converts raw source transactions into balanced double-entry journal entries.
package transform

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/accounting"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/canonical"
	"github.com/shopspring/decimal"
)

// SkipReason explains why a record produced no entry.
type SkipReason string

const (
	NotSkipped  SkipReason = ""
	SkipPending SkipReason = "pending"
	SkipZero    SkipReason = "zero_amount"
)

// Result is the outcome of transforming one record. Entry is nil when Skipped is set.
type Result struct {
	Entry   *domain.JournalEntry
	Skipped SkipReason
}

// Stats counts what TransformAll did with its input.
type Stats struct {
	Input       int `json:"input"`
	Transformed int `json:"transformed"`
	Pending     int `json:"pending"`
	Zero        int `json:"zero"`
}

// Engine applies a Mapping. It holds no other state and is safe for concurrent use.
type Engine struct {
	mapping *Mapping
}

// NewEngine returns an engine over m.
func NewEngine(m *Mapping) *Engine {
	return &Engine{mapping: m}
}

// Mapping returns the table the engine routes with.
func (e *Engine) Mapping() *Mapping { return e.mapping }

// Transform converts one raw record into a balanced two-line entry.
//
// The source account must have a mapping route for its type/subtype and a link to a ledger account of
// the route's class; the account side of the entry posts to the linked account. Plaid amounts are
// positive for money leaving the account. On asset accounts an outflow debits an expense and credits
// the account; an inflow debits the account and credits income. On liability accounts a purchase
// debits an expense and credits the liability; a negative amount debits the liability and credits
// either the item's linked cash account (payments) or the refund income account.
func (e *Engine) Transform(raw domain.RawRecord, accounts Accounts) (Result, error) {
	txnID := raw.TxnID()
	if txnID == "" {
		return Result{}, fmt.Errorf("%w: missing transaction_id", ErrMalformedRecord)
	}
	if raw.Bool("pending") {
		return Result{Skipped: SkipPending}, nil
	}

	sourceID := raw.String("account_id")
	if sourceID == "" {
		return Result{}, fmt.Errorf("txn %s: %w: missing account_id", txnID, ErrMalformedRecord)
	}
	amount, err := parseAmount(raw["amount"])
	if err != nil {
		return Result{}, fmt.Errorf("txn %s: %w: %v", txnID, ErrMalformedRecord, err)
	}
	txnDate, err := time.Parse(time.DateOnly, raw.String("date"))
	if err != nil {
		return Result{}, fmt.Errorf("txn %s: %w: invalid date %q", txnID, ErrMalformedRecord, raw.String("date"))
	}

	acct, ok := accounts.Source(sourceID)
	if !ok {
		return Result{}, &UnknownSourceAccountError{TxnID: txnID, SourceAccountID: sourceID}
	}
	route, ok := e.mapping.Route(acct.Type, acct.Subtype)
	if !ok {
		return Result{}, &UnmappedAccountError{TxnID: txnID, SourceAccountID: sourceID, Type: acct.Type, Subtype: acct.Subtype}
	}

	amount = amount.Round(2)
	if amount.IsZero() {
		return Result{Skipped: SkipZero}, nil
	}

	link, ok := accounts.Link(sourceID)
	if !ok {
		return Result{}, &AccountLinkError{TxnID: txnID, SourceAccountID: sourceID, Reason: "is not linked to a ledger account"}
	}
	if link.AccountType != route.Class {
		return Result{}, &AccountLinkError{TxnID: txnID, SourceAccountID: sourceID, AccountCode: link.AccountCode,
			Reason: fmt.Sprintf("must be linked to a %s account, got %s", route.Class, link.AccountType)}
	}

	fund := func() (string, error) {
		cash, ok := accounts.fundingAccount(acct.ItemID, e.mapping.PaymentCashAccount())
		if !ok {
			return "", &AccountLinkError{TxnID: txnID, SourceAccountID: sourceID, AccountCode: link.AccountCode,
				Reason: "has a payment but the item has no single linked cash account to fund it"}
		}
		return cash.AccountCode, nil
	}
	debit, credit, err := e.route(route.Class, link.AccountCode, amount, Categories(raw), fund)
	if err != nil {
		return Result{}, err
	}

	hash, canon, err := canonical.Hash(raw)
	if err != nil {
		return Result{}, fmt.Errorf("txn %s: %w: %v", txnID, ErrMalformedRecord, err)
	}

	abs := amount.Abs()
	entry := &domain.JournalEntry{
		TxnID:            txnID,
		TxnDate:          txnDate,
		Description:      description(raw),
		CurrencyCode:     currency(raw, acct),
		SourceHash:       hash,
		TransformVersion: e.mapping.Version(),
		ItemID:           acct.ItemID,
		RawPayload:       canon,
		Lines: []domain.JournalLine{
			{AccountCode: debit, Side: domain.Debit, Amount: abs},
			{AccountCode: credit, Side: domain.Credit, Amount: abs},
		},
	}
	if err := accounting.ValidateEntryBalance(*entry); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnbalancedEntry, err)
	}
	return Result{Entry: entry}, nil
}

func (e *Engine) route(class domain.AccountType, own string, amount decimal.Decimal, categories []string,
	fund func() (string, error)) (debit, credit string, err error) {
	m := e.mapping
	outflow := amount.IsPositive()

	if class == domain.Liability {
		switch {
		case outflow:
			return m.ExpenseAccount(categories), own, nil
		case m.PaymentRule().IsPayment(categories):
			cash, err := fund()
			return own, cash, err
		default:
			return own, m.RefundAccount(), nil
		}
	}

	if outflow {
		return m.ExpenseAccount(categories), own, nil
	}
	return own, m.IncomeAccount(categories), nil
}

// TransformAll transforms records in order, aborting on the first error. Skipped records are counted.
func (e *Engine) TransformAll(records []domain.RawRecord, accounts Accounts) ([]domain.JournalEntry, Stats, error) {
	stats := Stats{Input: len(records)}
	entries := make([]domain.JournalEntry, 0, len(records))
	for _, raw := range records {
		res, err := e.Transform(raw, accounts)
		if err != nil {
			return nil, stats, err
		}
		switch res.Skipped {
		case SkipPending:
			stats.Pending++
		case SkipZero:
			stats.Zero++
		default:
			entries = append(entries, *res.Entry)
			stats.Transformed++
		}
	}
	return entries, stats, nil
}

// SortDeterministically orders entries by (txn_date, txn_id) in place and returns them.
func SortDeterministically(entries []domain.JournalEntry) []domain.JournalEntry {
	slices.SortStableFunc(entries, func(a, b domain.JournalEntry) int {
		if c := a.TxnDate.Compare(b.TxnDate); c != 0 {
			return c
		}
		return cmp.Compare(a.TxnID, b.TxnID)
	})
	return entries
}

// Categories extracts normalized categories, most specific first: the personal finance category
// (detailed, then primary) and then the legacy category hierarchy from leaf to root.
func Categories(raw domain.RawRecord) []string {
	var out []string
	add := func(s string) {
		if n := Normalize(s); n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	if pfc, ok := raw["personal_finance_category"].(map[string]any); ok {
		if s, ok := pfc["detailed"].(string); ok {
			add(s)
		}
		if s, ok := pfc["primary"].(string); ok {
			add(s)
		}
	}
	if legacy, ok := raw["category"].([]any); ok {
		for i := len(legacy) - 1; i >= 0; i-- {
			if s, ok := legacy[i].(string); ok {
				add(s)
			}
		}
	}
	return out
}

func parseAmount(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case json.Number:
		return decimal.NewFromString(x.String())
	case string:
		return decimal.NewFromString(x)
	case float64:
		return decimal.NewFromFloat(x), nil
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int64:
		return decimal.NewFromInt(x), nil
	case nil:
		return decimal.Zero, fmt.Errorf("missing amount")
	}
	return decimal.Zero, fmt.Errorf("unsupported amount type %T", v)
}

func description(raw domain.RawRecord) string {
	for _, k := range []string{"name", "merchant_name"} {
		if s := raw.String(k); s != "" {
			return s
		}
	}
	return raw.TxnID()
}

func currency(raw domain.RawRecord, acct domain.SourceAccount) string {
	if acct.CurrencyCode != "" {
		return acct.CurrencyCode
	}
	if c := raw.String("iso_currency_code"); c != "" {
		return c
	}
	return "USD"
}
