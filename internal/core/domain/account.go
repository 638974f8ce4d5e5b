package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// Valid reports whether t is one of the five chart classifications.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is an entry of the canonical chart of accounts.
// Accounts are created by seed/admin actions and referenced by journal lines; they are never deleted
// while referenced.
type Account struct {
	AccountID    string      `json:"accountID"`
	Code         string      `json:"code"` // Unique, e.g. "Assets:Bank:Checking"
	Name         string      `json:"name"`
	AccountType  AccountType `json:"accountType"`
	IsCash       bool        `json:"isCash"`
	CurrencyCode string      `json:"currencyCode"`
}

// Chart is an immutable, code-indexed view of the chart of accounts loaded once per run.
type Chart struct {
	byCode map[string]Account
	byID   map[string]Account
}

// NewChart indexes accounts by code and id. Later duplicates of a code win.
func NewChart(accounts []Account) Chart {
	c := Chart{
		byCode: make(map[string]Account, len(accounts)),
		byID:   make(map[string]Account, len(accounts)),
	}
	for _, a := range accounts {
		c.byCode[a.Code] = a
		if a.AccountID != "" {
			c.byID[a.AccountID] = a
		}
	}
	return c
}

// ByCode resolves an account code.
func (c Chart) ByCode(code string) (Account, bool) {
	a, ok := c.byCode[code]
	return a, ok
}

// ByID resolves an account id.
func (c Chart) ByID(id string) (Account, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Len returns the number of accounts in the chart.
func (c Chart) Len() int { return len(c.byCode) }
