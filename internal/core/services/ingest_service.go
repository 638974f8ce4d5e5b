package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/internal/extract"
	"github.com/SscSPs/plaid_ledger_recon/internal/transform"
)

// DefaultMaxPages bounds a single extraction when the request does not.
const DefaultMaxPages = 100

// IngestSource is an upstream that can describe its accounts and page through transactions.
type IngestSource interface {
	portssvc.AccountSource
	extract.PageFetcher
}

// IngestConnector opens an IngestSource. It is called once per run so credentials are only required
// when an ingest actually happens.
type IngestConnector func() (IngestSource, error)

type ingestService struct {
	BaseService
	connect     IngestConnector
	engine      *transform.Engine
	sourceRepo  portsrepo.SourceAccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerReader
	loader      portssvc.LoaderSvc
	audit       portssvc.AuditSvc
	extractOpts []extract.Option
	maxPages    int
}

// IngestOption configures the ingest service.
type IngestOption func(*ingestService)

// WithExtractOptions passes options to every extractor the service creates.
func WithExtractOptions(opts ...extract.Option) IngestOption {
	return func(s *ingestService) { s.extractOpts = append(s.extractOpts, opts...) }
}

// WithMaxPages sets the page limit used when a request does not carry one.
func WithMaxPages(n int) IngestOption {
	return func(s *ingestService) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// NewIngestService creates the extract-transform-load pipeline.
func NewIngestService(
	connect IngestConnector,
	engine *transform.Engine,
	sourceRepo portsrepo.SourceAccountRepositoryFacade,
	ledgerRepo portsrepo.LedgerReader,
	loader portssvc.LoaderSvc,
	audit portssvc.AuditSvc,
	opts ...IngestOption,
) portssvc.IngestSvc {
	s := &ingestService{
		connect:    connect,
		engine:     engine,
		sourceRepo: sourceRepo,
		ledgerRepo: ledgerRepo,
		loader:     loader,
		audit:      audit,
		maxPages:   DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.IngestSvc = (*ingestService)(nil)

func (s *ingestService) Run(ctx context.Context, req dto.IngestRequest) (*domain.IngestSummary, error) {
	from, to, err := req.Dates()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUsage, err)
	}
	if req.ItemID == "" {
		return nil, fmt.Errorf("item id is required: %w", apperrors.ErrUsage)
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = s.maxPages
	}

	summary := &domain.IngestSummary{ItemID: req.ItemID, StartedAt: s.Now()}
	event := domain.EtlEvent{EventType: domain.EventIngest, ItemID: req.ItemID, StartedAt: summary.StartedAt}

	runErr := s.run(ctx, req.ItemID, extract.Window{Start: from, End: to}, maxPages, summary)
	event.RowCounts = map[string]any{
		"source_accounts": summary.SourceAccounts,
		"extracted":       summary.Extracted,
		"pending_skipped": summary.PendingSkipped,
		"zero_skipped":    summary.ZeroSkipped,
		"inserted":        summary.Load.Inserted,
		"skipped":         summary.Load.Skipped,
	}
	if runErr != nil {
		event.RowCounts["error"] = runErr.Error()
	}
	if err := recordRun(ctx, &s.BaseService, s.audit, event, runErr); err != nil {
		return summary, err
	}
	summary.FinishedAt = s.Now()

	s.LogInfo(ctx, "Ingest completed",
		slog.String("item_id", req.ItemID),
		slog.Int("extracted", summary.Extracted),
		slog.Int("inserted", summary.Load.Inserted),
		slog.Int("skipped", summary.Load.Skipped),
		slog.Int("ledger_entries", summary.LedgerEntries))
	return summary, nil
}

// SyncAccounts fetches the item's source accounts and upserts their metadata so they can be listed
// and linked before the first successful ingest.
func (s *ingestService) SyncAccounts(ctx context.Context, itemID string) ([]domain.SourceAccount, error) {
	if itemID == "" {
		return nil, fmt.Errorf("item id is required: %w", apperrors.ErrUsage)
	}
	source, err := s.connect()
	if err != nil {
		s.LogError(ctx, err, "Failed to open upstream connection")
		return nil, err
	}
	return s.syncAccounts(ctx, source, itemID)
}

func (s *ingestService) syncAccounts(ctx context.Context, source portssvc.AccountSource, itemID string) ([]domain.SourceAccount, error) {
	accounts, err := source.SourceAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch source accounts", slog.String("item_id", itemID))
		return nil, fmt.Errorf("%w: fetch accounts: %w", apperrors.ErrExtraction, err)
	}
	for i := range accounts {
		accounts[i].ItemID = itemID
	}
	if _, err := s.sourceRepo.UpsertSourceAccounts(ctx, accounts); err != nil {
		s.LogError(ctx, err, "Failed to upsert source accounts", slog.String("item_id", itemID))
		return nil, err
	}
	s.LogDebug(ctx, "Source accounts synced", slog.String("item_id", itemID), slog.Int("accounts", len(accounts)))
	return accounts, nil
}

func (s *ingestService) run(ctx context.Context, itemID string, window extract.Window, maxPages int, summary *domain.IngestSummary) error {
	source, err := s.connect()
	if err != nil {
		s.LogError(ctx, err, "Failed to open upstream connection")
		return err
	}

	accounts, err := s.syncAccounts(ctx, source, itemID)
	if err != nil {
		return err
	}
	summary.SourceAccounts = len(accounts)
	links, err := s.sourceRepo.ListAccountLinks(ctx, itemID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load account links", slog.String("item_id", itemID))
		return err
	}

	opts := append([]extract.Option{extract.WithLogger(s.GetLogger(ctx))}, s.extractOpts...)
	records, err := extract.Collect(extract.New(source, opts...).FetchAll(ctx, window, maxPages))
	summary.Extracted = len(records)
	if err != nil {
		s.LogError(ctx, err, "Extraction failed", slog.String("item_id", itemID))
		return err
	}

	entries, stats, err := s.engine.TransformAll(records, transform.NewAccounts(accounts, links))
	summary.PendingSkipped = stats.Pending
	summary.ZeroSkipped = stats.Zero
	if err != nil {
		s.LogError(ctx, err, "Transform failed", slog.String("item_id", itemID))
		return err
	}

	counts, err := s.loader.Load(ctx, portssvc.LoadRequest{
		ItemID:  itemID,
		Entries: transform.SortDeterministically(entries),
	})
	summary.Load = counts
	if err != nil {
		return err
	}

	summary.LedgerEntries, summary.LedgerLines, err = s.ledgerRepo.CountEntries(ctx, itemID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count ledger entries", slog.String("item_id", itemID))
	}
	return err
}

func noIngestSource() (IngestSource, error) {
	return nil, fmt.Errorf("no upstream configured: %w", apperrors.ErrMissingCredentials)
}
