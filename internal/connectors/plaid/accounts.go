package plaid

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/shopspring/decimal"
)

type accountBalances struct {
	Current         decimal.NullDecimal `json:"current"`
	Available       decimal.NullDecimal `json:"available"`
	ISOCurrencyCode string              `json:"iso_currency_code"`
}

type account struct {
	AccountID string          `json:"account_id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Subtype   string          `json:"subtype"`
	Balances  accountBalances `json:"balances"`
}

type accountsResponse struct {
	Accounts []account `json:"accounts"`
	Item     struct {
		ItemID string `json:"item_id"`
	} `json:"item"`
}

func (c *Client) accounts(ctx context.Context, path string) (*accountsResponse, error) {
	data, err := c.post(ctx, path, map[string]any{})
	if err != nil {
		return nil, err
	}
	var resp accountsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return &resp, nil
}

// SourceAccounts returns account metadata for the item via /accounts/get.
func (c *Client) SourceAccounts(ctx context.Context) ([]domain.SourceAccount, error) {
	resp, err := c.accounts(ctx, "/accounts/get")
	if err != nil {
		return nil, err
	}
	out := make([]domain.SourceAccount, 0, len(resp.Accounts))
	for _, a := range resp.Accounts {
		currency := a.Balances.ISOCurrencyCode
		if currency == "" {
			currency = "USD"
		}
		out = append(out, domain.SourceAccount{
			SourceAccountID: a.AccountID,
			ItemID:          resp.Item.ItemID,
			Name:            a.Name,
			Type:            a.Type,
			Subtype:         a.Subtype,
			CurrencyCode:    currency,
		})
	}
	return out, nil
}

// Balances returns current balances keyed by source account id via /accounts/balance/get.
// Accounts without a current balance are omitted so coverage checks report them as missing.
func (c *Client) Balances(ctx context.Context) (map[string]decimal.Decimal, error) {
	resp, err := c.accounts(ctx, "/accounts/balance/get")
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(resp.Accounts))
	for _, a := range resp.Accounts {
		if a.Balances.Current.Valid {
			out[a.AccountID] = a.Balances.Current.Decimal
		}
	}
	return out, nil
}
