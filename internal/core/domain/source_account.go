package domain

// SourceAccount is raw account metadata reported by the external system.
// It is upserted on every ingestion, keyed by SourceAccountID.
type SourceAccount struct {
	SourceAccountID string `json:"sourceAccountID"`
	ItemID          string `json:"itemID"`
	Name            string `json:"name"`
	Type            string `json:"type"`    // e.g. "depository", "credit"
	Subtype         string `json:"subtype"` // e.g. "checking", "credit card"
	CurrencyCode    string `json:"currencyCode"`
}

// AccountLink is the explicit 1:1 mapping of a source account onto a ledger account.
// Links are only created by the explicit mapping operation, never by ingestion.
type AccountLink struct {
	SourceAccountID string `json:"sourceAccountID"`
	AccountID       string `json:"accountID"`
}

// MappedCashAccount is a linked source account whose ledger account is a cash account.
// It is the unit of cash-variance reconciliation.
type MappedCashAccount struct {
	SourceAccountID string `json:"sourceAccountID"`
	AccountID       string `json:"accountID"`
	AccountCode     string `json:"accountCode"`
}

// LinkedAccount is a source account link resolved against the chart of accounts.
// The transform engine posts the source account's side of every entry to AccountCode.
type LinkedAccount struct {
	SourceAccountID string      `json:"sourceAccountID"`
	AccountID       string      `json:"accountID"`
	AccountCode     string      `json:"accountCode"`
	AccountType     AccountType `json:"accountType"`
	IsCash          bool        `json:"isCash"`
}
