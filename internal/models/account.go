package models

import "time"

// Account is a row of the accounts table.
type Account struct {
	AccountID    string    `db:"account_id"`
	Code         string    `db:"code"` // Unique
	Name         string    `db:"name"`
	AccountType  string    `db:"type"` // CHECK: asset, liability, equity, revenue, expense
	IsCash       bool      `db:"is_cash"`
	CurrencyCode string    `db:"currency_code"`
	CreatedAt    time.Time `db:"created_at"`
}

// SourceAccount is a row of the plaid_accounts table.
type SourceAccount struct {
	PlaidAccountID string    `db:"plaid_account_id"`
	ItemID         string    `db:"item_id"`
	Name           string    `db:"name"`
	Type           string    `db:"type"`
	Subtype        string    `db:"subtype"`
	CurrencyCode   string    `db:"currency_code"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// AccountLink is a row of the account_links table. plaid_account_id is unique.
type AccountLink struct {
	LinkID         string    `db:"link_id"`
	PlaidAccountID string    `db:"plaid_account_id"`
	AccountID      string    `db:"account_id"`
	CreatedAt      time.Time `db:"created_at"`
}
