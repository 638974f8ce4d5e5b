package transform_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/transform"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/canonical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceAccounts() []domain.SourceAccount {
	return []domain.SourceAccount{
		{SourceAccountID: "plaid_checking_123", ItemID: "item_1", Type: "depository", Subtype: "checking", CurrencyCode: "USD"},
		{SourceAccountID: "plaid_card_9", ItemID: "item_1", Type: "credit", Subtype: "credit card", CurrencyCode: "USD"},
		{SourceAccountID: "plaid_cad", ItemID: "item_1", Type: "depository", Subtype: "checking", CurrencyCode: "CAD"},
		{SourceAccountID: "acc_unknown", ItemID: "item_1", Type: "mystery", Subtype: "void", CurrencyCode: "USD"},
	}
}

func links() []domain.LinkedAccount {
	return []domain.LinkedAccount{
		{SourceAccountID: "plaid_checking_123", AccountCode: "Assets:Bank:Checking", AccountType: domain.Asset, IsCash: true},
		{SourceAccountID: "plaid_card_9", AccountCode: "Liabilities:CreditCard", AccountType: domain.Liability},
		{SourceAccountID: "plaid_cad", AccountCode: "Assets:Bank:CheckingCAD", AccountType: domain.Asset, IsCash: true},
	}
}

func accounts() transform.Accounts {
	return transform.NewAccounts(sourceAccounts(), links())
}

func newEngine(t *testing.T) *transform.Engine {
	t.Helper()
	m, err := transform.DefaultMapping()
	require.NoError(t, err)
	return transform.NewEngine(m)
}

func txn(id, account, amount, date string, extra map[string]any) domain.RawRecord {
	r := domain.RawRecord{
		"transaction_id": id,
		"account_id":     account,
		"amount":         json.Number(amount),
		"date":           date,
		"name":           "Txn " + id,
		"pending":        false,
	}
	for k, v := range extra {
		r[k] = v
	}
	return r
}

func legacy(categories ...string) map[string]any {
	out := make([]any, len(categories))
	for i, c := range categories {
		out[i] = c
	}
	return map[string]any{"category": out}
}

func sides(e *domain.JournalEntry) (debit, credit string) {
	for _, l := range e.Lines {
		if l.Side == domain.Debit {
			debit = l.AccountCode
		} else {
			credit = l.AccountCode
		}
	}
	return debit, credit
}

func TestTransform_Routing(t *testing.T) {
	eng := newEngine(t)

	tests := []struct {
		name       string
		raw        domain.RawRecord
		wantDebit  string
		wantCredit string
	}{
		{
			name:       "checking outflow to category expense",
			raw:        txn("t1", "plaid_checking_123", "25.00", "2024-01-15", legacy("Food and Drink", "Restaurants")),
			wantDebit:  "Expenses:Dining:Restaurants",
			wantCredit: "Assets:Bank:Checking",
		},
		{
			name:       "checking outflow with unknown category falls back",
			raw:        txn("t2", "plaid_checking_123", "12.00", "2024-01-15", legacy("Alien Artifacts")),
			wantDebit:  "Expenses:Miscellaneous",
			wantCredit: "Assets:Bank:Checking",
		},
		{
			name:       "checking inflow to income",
			raw:        txn("t3", "plaid_checking_123", "-100.00", "2024-01-16", legacy("Transfer", "Payroll")),
			wantDebit:  "Assets:Bank:Checking",
			wantCredit: "Income:Salary",
		},
		{
			name:       "checking inflow without category falls back to generic income",
			raw:        txn("t4", "plaid_checking_123", "-5", "2024-01-16", nil),
			wantDebit:  "Assets:Bank:Checking",
			wantCredit: "Income:Other",
		},
		{
			name: "card purchase uses personal finance category",
			raw: txn("t5", "plaid_card_9", "40.10", "2024-02-01", map[string]any{
				"personal_finance_category": map[string]any{"primary": "FOOD_AND_DRINK", "detailed": "FOOD_AND_DRINK_COFFEE"},
			}),
			wantDebit:  "Expenses:Dining:Restaurants",
			wantCredit: "Liabilities:CreditCard",
		},
		{
			name:       "card payment routes to cash",
			raw:        txn("t6", "plaid_card_9", "-200.00", "2024-02-05", legacy("Payment", "Credit Card")),
			wantDebit:  "Liabilities:CreditCard",
			wantCredit: "Assets:Bank:Checking",
		},
		{
			name:       "card refund routes to refund income",
			raw:        txn("t7", "plaid_card_9", "-15.00", "2024-02-06", legacy("Shops")),
			wantDebit:  "Liabilities:CreditCard",
			wantCredit: "Income:Refunds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := eng.Transform(tt.raw, accounts())
			require.NoError(t, err)
			require.NotNil(t, res.Entry)

			debit, credit := sides(res.Entry)
			assert.Equal(t, tt.wantDebit, debit)
			assert.Equal(t, tt.wantCredit, credit)
			assert.True(t, res.Entry.IsBalanced())
			assert.True(t, res.Entry.HasLineage())
		})
	}
}

func TestTransform_EntryFields(t *testing.T) {
	raw := txn("txn_1", "plaid_checking_123", "12.345", "2024-01-15", nil)

	res, err := newEngine(t).Transform(raw, accounts())
	require.NoError(t, err)
	e := res.Entry

	assert.Equal(t, "txn_1", e.TxnID)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), e.TxnDate)
	assert.Equal(t, "USD", e.CurrencyCode)
	assert.Equal(t, "item_1", e.ItemID)
	assert.Equal(t, "Txn txn_1", e.Description)
	assert.Equal(t, 1, e.TransformVersion)
	for _, l := range e.Lines {
		assert.Equal(t, "12.35", l.Amount.StringFixed(2))
	}

	wantHash, wantBytes, err := canonical.Hash(raw)
	require.NoError(t, err)
	assert.Equal(t, wantHash, e.SourceHash)
	assert.Equal(t, wantBytes, e.RawPayload)
}

func TestTransform_CurrencyFromAccount(t *testing.T) {
	res, err := newEngine(t).Transform(txn("t1", "plaid_cad", "30.00", "2024-01-16", nil), accounts())
	require.NoError(t, err)
	assert.Equal(t, "CAD", res.Entry.CurrencyCode)
}

func TestTransform_HashIndependentOfKeyOrder(t *testing.T) {
	eng := newEngine(t)
	a, err := canonical.Decode([]byte(`{"transaction_id":"t1","account_id":"plaid_checking_123","amount":25.00,"date":"2024-01-15","pending":false}`))
	require.NoError(t, err)
	b, err := canonical.Decode([]byte(`{"pending":false,"date":"2024-01-15","amount":25.00,"account_id":"plaid_checking_123","transaction_id":"t1"}`))
	require.NoError(t, err)

	ra, err := eng.Transform(domain.RawRecord(a.(map[string]any)), accounts())
	require.NoError(t, err)
	rb, err := eng.Transform(domain.RawRecord(b.(map[string]any)), accounts())
	require.NoError(t, err)

	assert.Equal(t, ra.Entry.SourceHash, rb.Entry.SourceHash)
}

func TestTransform_Skips(t *testing.T) {
	eng := newEngine(t)

	res, err := eng.Transform(txn("t1", "plaid_checking_123", "12.00", "2024-01-15", map[string]any{"pending": true}), accounts())
	require.NoError(t, err)
	assert.Equal(t, transform.SkipPending, res.Skipped)
	assert.Nil(t, res.Entry)

	res, err = eng.Transform(txn("t2", "plaid_checking_123", "0.001", "2024-01-15", nil), accounts())
	require.NoError(t, err)
	assert.Equal(t, transform.SkipZero, res.Skipped)
}

func TestTransform_UnmappedAccountFailsFast(t *testing.T) {
	_, err := newEngine(t).Transform(txn("t1", "acc_unknown", "50.00", "2024-01-15", nil), accounts())

	var unmapped *transform.UnmappedAccountError
	require.ErrorAs(t, err, &unmapped)
	assert.Equal(t, "mystery", unmapped.Type)
	assert.Equal(t, "void", unmapped.Subtype)
	assert.ErrorIs(t, err, apperrors.ErrUnmappedAccount)
	assert.Contains(t, err.Error(), "Unmapped Plaid account type/subtype")
	assert.Equal(t, 1, apperrors.ExitCode(err))
}

func TestTransform_UnknownSourceAccount(t *testing.T) {
	_, err := newEngine(t).Transform(txn("t1", "nope", "50.00", "2024-01-15", nil), accounts())

	var unknown *transform.UnknownSourceAccountError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nope", unknown.SourceAccountID)
}

func TestTransform_PostsToLinkedAccount(t *testing.T) {
	eng := newEngine(t)
	accts := transform.NewAccounts(
		[]domain.SourceAccount{
			{SourceAccountID: "acc-1", ItemID: "item_1", Type: "depository", Subtype: "checking"},
			{SourceAccountID: "acc-2", ItemID: "item_1", Type: "depository", Subtype: "checking"},
		},
		[]domain.LinkedAccount{
			{SourceAccountID: "acc-1", AccountCode: "Assets:Bank:Checking", AccountType: domain.Asset, IsCash: true},
			{SourceAccountID: "acc-2", AccountCode: "Assets:Bank:Joint", AccountType: domain.Asset, IsCash: true},
		},
	)

	first, err := eng.Transform(txn("t1", "acc-1", "25.00", "2024-01-15", nil), accts)
	require.NoError(t, err)
	second, err := eng.Transform(txn("t2", "acc-2", "10.00", "2024-01-15", nil), accts)
	require.NoError(t, err)

	_, credit := sides(first.Entry)
	assert.Equal(t, "Assets:Bank:Checking", credit)
	_, credit = sides(second.Entry)
	assert.Equal(t, "Assets:Bank:Joint", credit)
}

func TestTransform_UnlinkedAccountFailsFast(t *testing.T) {
	accts := transform.NewAccounts(sourceAccounts(), nil)

	_, err := newEngine(t).Transform(txn("t1", "plaid_checking_123", "50.00", "2024-01-15", nil), accts)

	var linkErr *transform.AccountLinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "plaid_checking_123", linkErr.SourceAccountID)
	assert.Empty(t, linkErr.AccountCode)
	assert.ErrorIs(t, err, apperrors.ErrUnmappedAccount)
	assert.Equal(t, 1, apperrors.ExitCode(err))
}

func TestTransform_LinkClassMustMatchRoute(t *testing.T) {
	accts := transform.NewAccounts(sourceAccounts(), []domain.LinkedAccount{
		{SourceAccountID: "plaid_card_9", AccountCode: "Assets:Bank:Checking", AccountType: domain.Asset, IsCash: true},
	})

	_, err := newEngine(t).Transform(txn("t1", "plaid_card_9", "50.00", "2024-01-15", nil), accts)

	var linkErr *transform.AccountLinkError
	require.ErrorAs(t, err, &linkErr)
	assert.Equal(t, "Assets:Bank:Checking", linkErr.AccountCode)
	assert.ErrorContains(t, err, "liability")
}

func TestTransform_PaymentFunding(t *testing.T) {
	eng := newEngine(t)
	payment := txn("t1", "plaid_card_9", "-200.00", "2024-02-05", legacy("Payment", "Credit Card"))
	card := domain.LinkedAccount{SourceAccountID: "plaid_card_9", AccountCode: "Liabilities:CreditCard", AccountType: domain.Liability}

	t.Run("single linked cash account funds the payment", func(t *testing.T) {
		accts := transform.NewAccounts(sourceAccounts(), []domain.LinkedAccount{
			card,
			{SourceAccountID: "plaid_cad", AccountCode: "Assets:Bank:CheckingCAD", AccountType: domain.Asset, IsCash: true},
		})
		res, err := eng.Transform(payment, accts)
		require.NoError(t, err)
		_, credit := sides(res.Entry)
		assert.Equal(t, "Assets:Bank:CheckingCAD", credit)
	})

	t.Run("ambiguous cash accounts fail", func(t *testing.T) {
		accts := transform.NewAccounts(sourceAccounts(), []domain.LinkedAccount{
			card,
			{SourceAccountID: "plaid_checking_123", AccountCode: "Assets:Bank:Joint", AccountType: domain.Asset, IsCash: true},
			{SourceAccountID: "plaid_cad", AccountCode: "Assets:Bank:CheckingCAD", AccountType: domain.Asset, IsCash: true},
		})
		_, err := eng.Transform(payment, accts)
		var linkErr *transform.AccountLinkError
		require.ErrorAs(t, err, &linkErr)
		assert.ErrorIs(t, err, apperrors.ErrUnmappedAccount)
	})

	t.Run("no cash account fails", func(t *testing.T) {
		accts := transform.NewAccounts(sourceAccounts(), []domain.LinkedAccount{card})
		_, err := eng.Transform(payment, accts)
		assert.ErrorIs(t, err, apperrors.ErrUnmappedAccount)
	})
}

func TestTransform_MalformedRecords(t *testing.T) {
	eng := newEngine(t)
	records := []domain.RawRecord{
		{"account_id": "plaid_checking_123", "amount": json.Number("1"), "date": "2024-01-15"},
		{"transaction_id": "t1", "amount": json.Number("1"), "date": "2024-01-15"},
		{"transaction_id": "t1", "account_id": "plaid_checking_123", "date": "2024-01-15"},
		{"transaction_id": "t1", "account_id": "plaid_checking_123", "amount": "abc", "date": "2024-01-15"},
		{"transaction_id": "t1", "account_id": "plaid_checking_123", "amount": json.Number("1"), "date": "15/01/2024"},
	}
	for _, raw := range records {
		_, err := eng.Transform(raw, accounts())
		assert.ErrorIs(t, err, transform.ErrMalformedRecord)
	}
}

func TestTransformAll_CountsAndAborts(t *testing.T) {
	eng := newEngine(t)
	records := []domain.RawRecord{
		txn("t1", "plaid_checking_123", "25.50", "2024-01-15", nil),
		txn("t2", "plaid_checking_123", "-100", "2024-01-16", nil),
		txn("t3", "plaid_checking_123", "8", "2024-01-16", map[string]any{"pending": true}),
		txn("t4", "plaid_checking_123", "0", "2024-01-16", nil),
	}

	entries, stats, err := eng.TransformAll(records, accounts())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, transform.Stats{Input: 4, Transformed: 2, Pending: 1, Zero: 1}, stats)
	for _, e := range entries {
		assert.True(t, e.IsBalanced(), e.TxnID)
	}

	records = append(records, txn("t5", "acc_unknown", "1", "2024-01-17", nil))
	entries, _, err = eng.TransformAll(records, accounts())
	assert.ErrorIs(t, err, apperrors.ErrUnmappedAccount)
	assert.Nil(t, entries)
}

func TestSortDeterministically(t *testing.T) {
	eng := newEngine(t)
	entries, _, err := eng.TransformAll([]domain.RawRecord{
		txn("txn_b", "plaid_checking_123", "10", "2024-01-15", nil),
		txn("txn_a", "plaid_checking_123", "20", "2024-01-15", nil),
		txn("txn_c", "plaid_checking_123", "30", "2024-01-14", nil),
	}, accounts())
	require.NoError(t, err)

	sorted := transform.SortDeterministically(entries)
	got := []string{sorted[0].TxnID, sorted[1].TxnID, sorted[2].TxnID}
	assert.Equal(t, []string{"txn_c", "txn_a", "txn_b"}, got)
}
