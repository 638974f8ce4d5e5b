package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/utils/accounting"
	"github.com/google/uuid"
)

type loaderService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	sourceRepo  portsrepo.SourceAccountWriter
	ledgerRepo  portsrepo.LedgerWriter
	audit       portssvc.AuditSvc
}

// NewLoaderService creates the idempotent ledger loader.
func NewLoaderService(
	accountRepo portsrepo.AccountReader,
	sourceRepo portsrepo.SourceAccountWriter,
	ledgerRepo portsrepo.LedgerWriter,
	audit portssvc.AuditSvc,
) portssvc.LoaderSvc {
	return &loaderService{
		accountRepo: accountRepo,
		sourceRepo:  sourceRepo,
		ledgerRepo:  ledgerRepo,
		audit:       audit,
	}
}

var _ portssvc.LoaderSvc = (*loaderService)(nil)

func (s *loaderService) Load(ctx context.Context, req portssvc.LoadRequest) (domain.RowCounts, error) {
	event := domain.EtlEvent{EventType: domain.EventLoad, ItemID: req.ItemID, StartedAt: s.Now()}
	counts := domain.RowCounts{Attempted: len(req.Entries)}

	err := s.load(ctx, req, &counts)
	event.RowCounts = counts.AsMap()
	err = recordRun(ctx, &s.BaseService, s.audit, event, err)
	if err != nil {
		return counts, err
	}

	s.LogInfo(ctx, "Load completed",
		slog.String("item_id", req.ItemID),
		slog.Int("attempted", counts.Attempted),
		slog.Int("inserted", counts.Inserted),
		slog.Int("skipped", counts.Skipped))
	return counts, nil
}

func (s *loaderService) load(ctx context.Context, req portssvc.LoadRequest, counts *domain.RowCounts) error {
	if len(req.SourceAccounts) > 0 {
		n, err := s.sourceRepo.UpsertSourceAccounts(ctx, req.SourceAccounts)
		if err != nil {
			s.LogError(ctx, err, "Failed to upsert source accounts", slog.String("item_id", req.ItemID))
			return err
		}
		counts.SourceAccounts = n
	}

	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		return err
	}
	chart := domain.NewChart(accounts)

	for _, entry := range req.Entries {
		// Cancellation is only honored between entries.
		if err := ctx.Err(); err != nil {
			return err
		}

		resolved, err := resolveEntry(entry, chart)
		if err != nil {
			s.LogError(ctx, err, "Entry references unknown account", slog.String("txn_id", entry.TxnID))
			return err
		}

		inserted, err := s.ledgerRepo.InsertEntry(ctx, resolved)
		if err != nil {
			s.LogError(ctx, err, "Failed to insert entry", slog.String("txn_id", entry.TxnID))
			return err
		}
		if inserted {
			counts.Inserted++
		} else {
			counts.Skipped++
			s.LogDebug(ctx, "Entry already present, skipped", slog.String("txn_id", entry.TxnID))
		}
	}
	return nil
}

// resolveEntry assigns ids and binds every line to a chart account, failing on the first unknown code.
func resolveEntry(entry domain.JournalEntry, chart domain.Chart) (domain.JournalEntry, error) {
	if !entry.HasLineage() {
		return entry, fmt.Errorf("entry %s is missing lineage: %w", entry.TxnID, apperrors.ErrValidation)
	}
	if err := accounting.ValidateEntryBalance(entry); err != nil {
		return entry, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}

	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	lines := make([]domain.JournalLine, len(entry.Lines))
	for i, line := range entry.Lines {
		var (
			acc domain.Account
			ok  bool
		)
		if line.AccountCode != "" {
			acc, ok = chart.ByCode(line.AccountCode)
		} else {
			acc, ok = chart.ByID(line.AccountID)
		}
		if !ok {
			return entry, &apperrors.IntegrityError{TxnID: entry.TxnID, AccountCode: line.AccountCode, AccountID: line.AccountID}
		}
		line.AccountID = acc.AccountID
		line.AccountCode = acc.Code
		line.EntryID = entry.EntryID
		if line.LineID == "" {
			line.LineID = uuid.NewString()
		}
		lines[i] = line
	}
	entry.Lines = lines
	return entry, nil
}
