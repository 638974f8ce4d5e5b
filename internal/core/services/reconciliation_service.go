package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/internal/reconcile"
	"github.com/shopspring/decimal"
)

// BalanceConnector opens a live balance source.
type BalanceConnector func() (portssvc.BalanceSource, error)

// FileBalanceSource reads balances from a JSON object mapping source account ids to decimal amounts.
type FileBalanceSource struct {
	Path string
}

func (f FileBalanceSource) Balances(_ context.Context) (map[string]decimal.Decimal, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read balances file: %w", err)
	}
	balances := map[string]decimal.Decimal{}
	if err := json.Unmarshal(data, &balances); err != nil {
		return nil, fmt.Errorf("%w: balances file %s: %w", apperrors.ErrValidation, f.Path, err)
	}
	return balances, nil
}

type reconciliationService struct {
	BaseService
	sourceRepo  portsrepo.SourceAccountReader
	ledgerRepo  portsrepo.LedgerReader
	audit       portssvc.AuditSvc
	liveBalance BalanceConnector
	tolerance   decimal.NullDecimal
}

// ReconciliationOption configures the reconciliation service.
type ReconciliationOption func(*reconciliationService)

// WithTolerance overrides reconcile.DefaultTolerance.
func WithTolerance(t decimal.Decimal) ReconciliationOption {
	return func(s *reconciliationService) { s.tolerance = decimal.NewNullDecimal(t) }
}

// NewReconciliationService creates the reconciliation service. live may be nil when no upstream is
// configured; requests for live balances then fail with apperrors.ErrMissingCredentials.
func NewReconciliationService(
	sourceRepo portsrepo.SourceAccountReader,
	ledgerRepo portsrepo.LedgerReader,
	audit portssvc.AuditSvc,
	live BalanceConnector,
	opts ...ReconciliationOption,
) portssvc.ReconciliationSvc {
	s := &reconciliationService{
		sourceRepo:  sourceRepo,
		ledgerRepo:  ledgerRepo,
		audit:       audit,
		liveBalance: live,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

func (s *reconciliationService) Reconcile(ctx context.Context, req dto.ReconcileRequest) (*domain.ReconciliationResult, error) {
	if n := req.BalanceSourceCount(); n != 1 {
		return nil, fmt.Errorf("exactly one balance source is required, got %d: %w", n, apperrors.ErrUsage)
	}
	if req.ItemID == "" {
		return nil, fmt.Errorf("item id is required: %w", apperrors.ErrUsage)
	}
	period, err := domain.ParsePeriod(req.Period)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUsage, err)
	}

	event := domain.EtlEvent{
		EventType: domain.EventReconcile,
		ItemID:    req.ItemID,
		Period:    period.Label,
		StartedAt: s.Now(),
	}

	result, runErr := s.reconcile(ctx, req, period)
	if result != nil {
		event.RowCounts = result.ChecksMap()
		if req.OutputPath != "" {
			if err := writeReport(req.OutputPath, result); err != nil {
				s.LogError(ctx, err, "Failed to write reconciliation report", slog.String("path", req.OutputPath))
				if runErr == nil {
					runErr = err
				}
			}
		}
		if runErr == nil && !result.Success {
			runErr = apperrors.ErrGateFailed
		}
	} else if runErr != nil {
		event.RowCounts = map[string]any{"error": runErr.Error()}
	}

	err = recordRun(ctx, &s.BaseService, s.audit, event, runErr)
	if result != nil {
		s.LogInfo(ctx, "Reconciliation completed",
			slog.String("item_id", req.ItemID),
			slog.String("period", period.Label),
			slog.Bool("success", result.Success),
			slog.String("total_variance", result.Checks.CashVariance.TotalVariance.String()))
	}
	return result, err
}

func (s *reconciliationService) reconcile(ctx context.Context, req dto.ReconcileRequest, period domain.Period) (*domain.ReconciliationResult, error) {
	mapped, err := s.sourceRepo.ListMappedCashAccounts(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if len(mapped) == 0 {
		return nil, fmt.Errorf("no linked cash accounts for item %s: %w", req.ItemID, apperrors.ErrScopeUnresolved)
	}

	balances, err := s.balances(ctx, req)
	if err != nil {
		s.LogError(ctx, err, "Failed to load external balances", slog.String("item_id", req.ItemID))
		return nil, err
	}

	snapshot, err := s.ledgerRepo.Snapshot(ctx, req.ItemID, period.End)
	if err != nil {
		return nil, err
	}

	result, err := reconcile.Reconcile(reconcile.Input{
		Period:             period,
		ItemID:             req.ItemID,
		MappedCashAccounts: mapped,
		ExternalBalances:   balances,
		Ledger:             snapshot,
		Tolerance:          s.tolerance,
	})
	var coverageErr *reconcile.CoverageError
	if err != nil && !errors.As(err, &coverageErr) {
		return nil, err
	}
	return result, err
}

func (s *reconciliationService) balances(ctx context.Context, req dto.ReconcileRequest) (map[string]decimal.Decimal, error) {
	switch {
	case req.Balances != nil:
		return req.Balances, nil
	case req.BalancesFile != "":
		return FileBalanceSource{Path: req.BalancesFile}.Balances(ctx)
	}
	if s.liveBalance == nil {
		return nil, fmt.Errorf("live balances are not configured: %w", apperrors.ErrMissingCredentials)
	}
	source, err := s.liveBalance()
	if err != nil {
		return nil, err
	}
	balances, err := source.Balances(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch balances: %w", apperrors.ErrExtraction, err)
	}
	return balances, nil
}

func writeReport(path string, result *domain.ReconciliationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
