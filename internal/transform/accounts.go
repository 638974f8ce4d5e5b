package transform

import (
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// Accounts holds the source account metadata of a run and the ledger links of those accounts.
type Accounts struct {
	source map[string]domain.SourceAccount
	links  map[string]domain.LinkedAccount
}

// NewAccounts indexes source accounts and links by source account id.
func NewAccounts(source []domain.SourceAccount, links []domain.LinkedAccount) Accounts {
	a := Accounts{
		source: make(map[string]domain.SourceAccount, len(source)),
		links:  make(map[string]domain.LinkedAccount, len(links)),
	}
	for _, s := range source {
		a.source[s.SourceAccountID] = s
	}
	for _, l := range links {
		a.links[l.SourceAccountID] = l
	}
	return a
}

// Source returns the metadata of a source account.
func (a Accounts) Source(sourceAccountID string) (domain.SourceAccount, bool) {
	s, ok := a.source[sourceAccountID]
	return s, ok
}

// Link returns the ledger account a source account is linked to.
func (a Accounts) Link(sourceAccountID string) (domain.LinkedAccount, bool) {
	l, ok := a.links[sourceAccountID]
	return l, ok
}

// fundingAccount picks the linked cash account of the item that pays liability balances: the one
// whose code is preferred, otherwise the only one.
func (a Accounts) fundingAccount(itemID, preferred string) (domain.LinkedAccount, bool) {
	var candidates []domain.LinkedAccount
	for id, l := range a.links {
		if !l.IsCash || l.AccountType != domain.Asset {
			continue
		}
		if src, ok := a.source[id]; !ok || src.ItemID != itemID {
			continue
		}
		if l.AccountCode == preferred {
			return l, true
		}
		candidates = append(candidates, l)
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return domain.LinkedAccount{}, false
}
