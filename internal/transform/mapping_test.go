package transform_test

import (
	"testing"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "credit_card", transform.Normalize("Credit Card"))
	assert.Equal(t, "money_market", transform.Normalize("money market"))
	assert.Equal(t, "food_and_drink", transform.Normalize("Food and Drink"))
	assert.Equal(t, "food_and_drink_coffee", transform.Normalize("FOOD_AND_DRINK_COFFEE"))
	assert.Equal(t, "rent___utilities", transform.Normalize("Rent & Utilities"))
	assert.Equal(t, "__cd_", transform.Normalize("  CD "))
	assert.Equal(t, "__", transform.Normalize("--"))

	m, err := transform.DefaultMapping()
	require.NoError(t, err)
	_, ok := m.Route("Depository", "Cash-Management")
	assert.True(t, ok)
	_, ok = m.Route("depository", "cash  management")
	assert.False(t, ok, "each separator becomes its own underscore")
}

func TestDefaultMapping_Routes(t *testing.T) {
	m, err := transform.DefaultMapping()
	require.NoError(t, err)

	r, ok := m.Route("depository", "checking")
	require.True(t, ok)
	assert.Equal(t, "Assets:Bank:Checking", r.Code)
	assert.Equal(t, domain.Asset, r.Class)

	r, ok = m.Route("Credit", "Credit Card")
	require.True(t, ok)
	assert.Equal(t, domain.Liability, r.Class)

	_, ok = m.Route("mystery", "void")
	assert.False(t, ok)

	assert.Equal(t, "Expenses:Miscellaneous", m.ExpenseAccount([]string{"unknown"}))
	assert.Equal(t, "Income:Other", m.IncomeAccount(nil))
	assert.Contains(t, m.Codes(), "Assets:Bank:Checking")
	assert.Contains(t, m.Codes(), "Income:Refunds")
	assert.Equal(t, transform.ModeCategoryList, m.PaymentRule().Mode())
}

func TestLoadMapping_Validation(t *testing.T) {
	_, err := transform.LoadMapping([]byte("version: 0\n"))
	assert.Error(t, err)

	_, err = transform.LoadMapping([]byte(`
version: 1
accounts:
  depository:
    checking: {code: "Assets:Bank:Checking", class: expense}
defaults: {expense: "E", income: "I", refund: "R"}
payments: {cash_account: "C", rule: {mode: category_list, categories: [payment]}}
`))
	assert.ErrorContains(t, err, "class must be asset or liability")

	_, err = transform.LoadMapping([]byte(`
version: 1
defaults: {expense: "E", income: "I", refund: "R"}
payments: {cash_account: "C", rule: {mode: regex}}
`))
	assert.ErrorContains(t, err, "unknown payment rule mode")
}

func TestLoadMapping_SubstringRuleChangesRefundClassification(t *testing.T) {
	yamlDoc := `
version: 2
accounts:
  credit:
    credit_card: {code: "Liabilities:CreditCard", class: liability}
defaults: {expense: "Expenses:Miscellaneous", income: "Income:Other", refund: "Income:Refunds"}
payments:
  cash_account: "Assets:Bank:Checking"
  rule:
    mode: category_substring
    substrings: [payment]
`
	m, err := transform.LoadMapping([]byte(yamlDoc))
	require.NoError(t, err)
	eng := transform.NewEngine(m)

	raw := txn("t1", "plaid_card_9", "-50", "2024-02-01", legacy("Loan Payments"))
	res, err := eng.Transform(raw, accounts())
	require.NoError(t, err)
	_, credit := sides(res.Entry)
	assert.Equal(t, "Assets:Bank:Checking", credit)
	assert.Equal(t, 2, res.Entry.TransformVersion)
}

func TestPaymentRules(t *testing.T) {
	list := transform.NewCategoryListRule("Payment", "transfer_out")
	assert.True(t, list.IsPayment([]string{"credit_card", "payment"}))
	assert.False(t, list.IsPayment([]string{"loan_payments"}))

	sub := transform.NewCategorySubstringRule("payment")
	assert.True(t, sub.IsPayment([]string{"loan_payments"}))
	assert.False(t, sub.IsPayment([]string{"shops"}))
}
