package mapping

import (
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:    d.AccountID,
		Code:         d.Code,
		Name:         d.Name,
		AccountType:  string(d.AccountType),
		IsCash:       d.IsCash,
		CurrencyCode: d.CurrencyCode,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:    m.AccountID,
		Code:         m.Code,
		Name:         m.Name,
		AccountType:  domain.AccountType(m.AccountType),
		IsCash:       m.IsCash,
		CurrencyCode: m.CurrencyCode,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelSourceAccount converts a domain SourceAccount to its plaid_accounts row.
func ToModelSourceAccount(d domain.SourceAccount) models.SourceAccount {
	return models.SourceAccount{
		PlaidAccountID: d.SourceAccountID,
		ItemID:         d.ItemID,
		Name:           d.Name,
		Type:           d.Type,
		Subtype:        d.Subtype,
		CurrencyCode:   d.CurrencyCode,
	}
}

// ToDomainSourceAccount converts a plaid_accounts row to a domain SourceAccount.
func ToDomainSourceAccount(m models.SourceAccount) domain.SourceAccount {
	return domain.SourceAccount{
		SourceAccountID: m.PlaidAccountID,
		ItemID:          m.ItemID,
		Name:            m.Name,
		Type:            m.Type,
		Subtype:         m.Subtype,
		CurrencyCode:    m.CurrencyCode,
	}
}
