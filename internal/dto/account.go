package dto

import (
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// AccountResponse defines the data returned for a chart account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID    string             `json:"accountID"`
	Code         string             `json:"code"`
	Name         string             `json:"name"`
	AccountType  domain.AccountType `json:"accountType"`
	IsCash       bool               `json:"isCash"`
	CurrencyCode string             `json:"currencyCode"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    acc.AccountID,
		Code:         acc.Code,
		Name:         acc.Name,
		AccountType:  acc.AccountType,
		IsCash:       acc.IsCash,
		CurrencyCode: acc.CurrencyCode,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc) // Reuse the single converter
	}
	return res
}

// LinkAccountRequest maps a source account onto a ledger account code.
type LinkAccountRequest struct {
	SourceAccountID string `json:"sourceAccountID" binding:"required"`
	AccountCode     string `json:"accountCode" binding:"required"`
}

// AccountLinkResponse echoes the stored link.
type AccountLinkResponse struct {
	SourceAccountID string `json:"sourceAccountID"`
	AccountID       string `json:"accountID"`
	AccountCode     string `json:"accountCode"`
}

// ListSourceAccountsParams defines the query parameters for listing source accounts.
type ListSourceAccountsParams struct {
	ItemID  string `form:"itemID" binding:"required"`
	Refresh bool   `form:"refresh"` // fetch and upsert from Plaid before listing
}

// SourceAccountResponse is a source account with the ledger account it is linked to, if any.
type SourceAccountResponse struct {
	SourceAccountID   string `json:"sourceAccountID"`
	ItemID            string `json:"itemID"`
	Name              string `json:"name"`
	Type              string `json:"type"`
	Subtype           string `json:"subtype"`
	CurrencyCode      string `json:"currencyCode"`
	LinkedAccountCode string `json:"linkedAccountCode,omitempty"`
}

// ToSourceAccountResponses joins source accounts with their links.
func ToSourceAccountResponses(accounts []domain.SourceAccount, links []domain.LinkedAccount) []SourceAccountResponse {
	linked := make(map[string]string, len(links))
	for _, l := range links {
		linked[l.SourceAccountID] = l.AccountCode
	}
	res := make([]SourceAccountResponse, len(accounts))
	for i, a := range accounts {
		res[i] = SourceAccountResponse{
			SourceAccountID:   a.SourceAccountID,
			ItemID:            a.ItemID,
			Name:              a.Name,
			Type:              a.Type,
			Subtype:           a.Subtype,
			CurrencyCode:      a.CurrencyCode,
			LinkedAccountCode: linked[a.SourceAccountID],
		}
	}
	return res
}
