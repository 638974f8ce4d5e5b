package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/chart"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
)

type chartService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	sourceRepo    portsrepo.SourceAccountRepositoryFacade
	chartAccounts []domain.Account
	mappedCodes   []string
}

// NewChartService creates the chart service. Seed refuses charts that lack any code in mappedCodes.
func NewChartService(
	accountRepo portsrepo.AccountRepositoryFacade,
	sourceRepo portsrepo.SourceAccountRepositoryFacade,
	chartAccounts []domain.Account,
	mappedCodes []string,
) portssvc.ChartSvcFacade {
	return &chartService{
		accountRepo:   accountRepo,
		sourceRepo:    sourceRepo,
		chartAccounts: chartAccounts,
		mappedCodes:   mappedCodes,
	}
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func (s *chartService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

func (s *chartService) ListSourceAccounts(ctx context.Context, itemID string) ([]dto.SourceAccountResponse, error) {
	if itemID == "" {
		return nil, fmt.Errorf("item id is required: %w", apperrors.ErrUsage)
	}
	accounts, err := s.sourceRepo.ListSourceAccounts(ctx, itemID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list source accounts", slog.String("item_id", itemID))
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no Plaid accounts found for item_id %s; ingest or sync it first: %w", itemID, apperrors.ErrScopeUnresolved)
	}
	links, err := s.sourceRepo.ListAccountLinks(ctx, itemID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account links", slog.String("item_id", itemID))
		return nil, err
	}
	return dto.ToSourceAccountResponses(accounts, links), nil
}

func (s *chartService) Seed(ctx context.Context) ([]domain.Account, error) {
	if missing := chart.MissingCodes(s.chartAccounts, s.mappedCodes); len(missing) > 0 {
		return nil, fmt.Errorf("chart lacks mapped codes %s: %w", strings.Join(missing, ", "), apperrors.ErrValidation)
	}
	stored, err := s.accountRepo.UpsertAccounts(ctx, s.chartAccounts)
	if err != nil {
		s.LogError(ctx, err, "Failed to seed chart of accounts")
		return nil, err
	}
	s.LogInfo(ctx, "Chart of accounts seeded", slog.Int("accounts", len(stored)))
	return stored, nil
}

func (s *chartService) LinkAccount(ctx context.Context, req dto.LinkAccountRequest) (*dto.AccountLinkResponse, error) {
	if req.SourceAccountID == "" || req.AccountCode == "" {
		return nil, fmt.Errorf("source account id and account code are required: %w", apperrors.ErrUsage)
	}
	source, err := s.sourceRepo.FindSourceAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByCode(ctx, req.AccountCode)
	if err != nil {
		return nil, err
	}
	if account.AccountType != domain.Asset && account.AccountType != domain.Liability {
		return nil, fmt.Errorf("source accounts link to asset or liability accounts, %s is %s: %w",
			account.Code, account.AccountType, apperrors.ErrValidation)
	}

	link := domain.AccountLink{SourceAccountID: source.SourceAccountID, AccountID: account.AccountID}
	if err := s.sourceRepo.SaveAccountLink(ctx, link); err != nil {
		s.LogError(ctx, err, "Failed to save account link",
			slog.String("source_account_id", source.SourceAccountID),
			slog.String("account_code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Source account linked",
		slog.String("source_account_id", source.SourceAccountID),
		slog.String("account_code", account.Code))
	return &dto.AccountLinkResponse{
		SourceAccountID: source.SourceAccountID,
		AccountID:       account.AccountID,
		AccountCode:     account.Code,
	}, nil
}
