// Package memory provides in-process repositories with the same constraints as the PostgreSQL schema.
// It backs tests and dry runs.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/pagination"
	"github.com/google/uuid"
)

// Store holds every table. All repositories returned by Provider share it.
type Store struct {
	mu             sync.RWMutex
	accounts       map[string]domain.Account // by code
	sourceAccounts map[string]domain.SourceAccount
	links          map[string]string // source account id -> account id
	entries        map[string]domain.JournalEntry
	rawPayloads    map[string][]byte
	events         []domain.EtlEvent
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:       map[string]domain.Account{},
		sourceAccounts: map[string]domain.SourceAccount{},
		links:          map[string]string{},
		entries:        map[string]domain.JournalEntry{},
		rawPayloads:    map[string][]byte{},
	}
}

// Provider exposes the store through the repository ports.
func (s *Store) Provider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       s,
		SourceAccountRepo: s,
		LedgerRepo:        s,
		EventRepo:         s,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade       = (*Store)(nil)
	_ portsrepo.SourceAccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade        = (*Store)(nil)
	_ portsrepo.EventRepository               = (*Store)(nil)
)

// --- accounts ---

func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b domain.Account) int { return cmp.Compare(a.Code, b.Code) })
	return out, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[code]
	if !ok {
		return nil, apperrors.NewNotFoundError("account with code " + code)
	}
	return &a, nil
}

func (s *Store) UpsertAccounts(ctx context.Context, accounts []domain.Account) ([]domain.Account, error) {
	for _, a := range accounts {
		if !a.AccountType.Valid() {
			return nil, fmt.Errorf("account %s has invalid type %q: %w", a.Code, a.AccountType, apperrors.ErrValidation)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		if existing, ok := s.accounts[a.Code]; ok {
			a.AccountID = existing.AccountID
		} else if a.AccountID == "" {
			a.AccountID = uuid.NewString()
		}
		s.accounts[a.Code] = a
		out = append(out, a)
	}
	return out, nil
}

func (s *Store) accountByIDLocked(id string) (domain.Account, bool) {
	for _, a := range s.accounts {
		if a.AccountID == id {
			return a, true
		}
	}
	return domain.Account{}, false
}

// --- source accounts ---

func (s *Store) FindSourceAccountByID(ctx context.Context, sourceAccountID string) (*domain.SourceAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.sourceAccounts[sourceAccountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("source account " + sourceAccountID)
	}
	return &a, nil
}

func (s *Store) ListSourceAccounts(ctx context.Context, itemID string) ([]domain.SourceAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.SourceAccount
	for _, a := range s.sourceAccounts {
		if itemID == "" || a.ItemID == itemID {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b domain.SourceAccount) int { return cmp.Compare(a.SourceAccountID, b.SourceAccountID) })
	return out, nil
}

func (s *Store) ListMappedCashAccounts(ctx context.Context, itemID string) ([]domain.MappedCashAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MappedCashAccount
	for _, l := range s.linksLocked(itemID) {
		if l.IsCash {
			out = append(out, domain.MappedCashAccount{SourceAccountID: l.SourceAccountID, AccountID: l.AccountID, AccountCode: l.AccountCode})
		}
	}
	return out, nil
}

func (s *Store) ListAccountLinks(ctx context.Context, itemID string) ([]domain.LinkedAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.linksLocked(itemID), nil
}

func (s *Store) linksLocked(itemID string) []domain.LinkedAccount {
	var out []domain.LinkedAccount
	for sourceID, accountID := range s.links {
		src, ok := s.sourceAccounts[sourceID]
		if !ok || (itemID != "" && src.ItemID != itemID) {
			continue
		}
		acc, ok := s.accountByIDLocked(accountID)
		if !ok {
			continue
		}
		out = append(out, domain.LinkedAccount{
			SourceAccountID: sourceID,
			AccountID:       acc.AccountID,
			AccountCode:     acc.Code,
			AccountType:     acc.AccountType,
			IsCash:          acc.IsCash,
		})
	}
	slices.SortFunc(out, func(a, b domain.LinkedAccount) int { return cmp.Compare(a.SourceAccountID, b.SourceAccountID) })
	return out
}

func (s *Store) UpsertSourceAccounts(ctx context.Context, accounts []domain.SourceAccount) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		if a.SourceAccountID == "" {
			return 0, fmt.Errorf("source account id is required: %w", apperrors.ErrValidation)
		}
		s.sourceAccounts[a.SourceAccountID] = a
	}
	return len(accounts), nil
}

func (s *Store) SaveAccountLink(ctx context.Context, link domain.AccountLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sourceAccounts[link.SourceAccountID]; !ok {
		return apperrors.NewNotFoundError("source account " + link.SourceAccountID)
	}
	if _, ok := s.accountByIDLocked(link.AccountID); !ok {
		return apperrors.NewNotFoundError("account " + link.AccountID)
	}
	for sourceID, accountID := range s.links {
		if accountID == link.AccountID && sourceID != link.SourceAccountID {
			return fmt.Errorf("%w: ledger account %s is already linked to source account %s", apperrors.ErrDuplicate, link.AccountID, sourceID)
		}
	}
	s.links[link.SourceAccountID] = link.AccountID
	return nil
}

// --- ledger ---

func (s *Store) InsertEntry(ctx context.Context, entry domain.JournalEntry) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.TxnID]; exists {
		return false, nil
	}
	for _, line := range entry.Lines {
		if _, ok := s.accountByIDLocked(line.AccountID); !ok {
			return false, &apperrors.IntegrityError{TxnID: entry.TxnID, AccountCode: line.AccountCode, AccountID: line.AccountID}
		}
		if line.Amount.IsNegative() {
			return false, fmt.Errorf("txn %s: negative line amount: %w", entry.TxnID, apperrors.ErrValidation)
		}
		if line.Side != domain.Debit && line.Side != domain.Credit {
			return false, fmt.Errorf("txn %s: invalid side %q: %w", entry.TxnID, line.Side, apperrors.ErrValidation)
		}
	}
	entry.Lines = slices.Clone(entry.Lines)
	if entry.RawPayload != nil {
		s.rawPayloads[entry.TxnID] = slices.Clone(entry.RawPayload)
		entry.RawPayload = nil
	}
	s.entries[entry.TxnID] = entry
	return true, nil
}

func (s *Store) Snapshot(ctx context.Context, itemID string, asOf time.Time) (*domain.LedgerSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cutoff := domain.DateOnly(asOf)
	snap := &domain.LedgerSnapshot{}
	for _, e := range s.entries {
		if itemID != "" && e.ItemID != itemID {
			continue
		}
		if domain.DateOnly(e.TxnDate).After(cutoff) {
			continue
		}
		e.Lines = slices.Clone(e.Lines)
		snap.Entries = append(snap.Entries, e)
	}
	slices.SortFunc(snap.Entries, func(a, b domain.JournalEntry) int {
		if c := a.TxnDate.Compare(b.TxnDate); c != 0 {
			return c
		}
		return cmp.Compare(a.TxnID, b.TxnID)
	})
	return snap, nil
}

func (s *Store) CountEntries(ctx context.Context, itemID string) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, lines := 0, 0
	for _, e := range s.entries {
		if itemID == "" || e.ItemID == itemID {
			entries++
			lines += len(e.Lines)
		}
	}
	return entries, lines, nil
}

// RawPayload returns the stored canonical payload of a transaction.
func (s *Store) RawPayload(txnID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.rawPayloads[txnID]
	return p, ok
}

// --- events ---

func (s *Store) SaveEvent(ctx context.Context, event domain.EtlEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EtlEvent, *string, error) {
	var cursor *pagination.EventCursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeEventToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := make([]domain.EtlEvent, 0, len(s.events))
	for _, e := range s.events {
		if filter.ItemID != "" && e.ItemID != filter.ItemID {
			continue
		}
		if filter.EventType != "" && e.EventType != filter.EventType {
			continue
		}
		if cursor != nil && !cursor.Before(e.StartedAt, e.EventID) {
			continue
		}
		matched = append(matched, e)
	}
	s.mu.RUnlock()

	slices.SortFunc(matched, func(a, b domain.EtlEvent) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.EventID, a.EventID)
	})

	if filter.Limit <= 0 || len(matched) <= filter.Limit {
		return matched, nil, nil
	}
	page := matched[:filter.Limit]
	last := page[len(page)-1]
	next := pagination.EncodeEventToken(last.StartedAt, last.EventID)
	return page, &next, nil
}
