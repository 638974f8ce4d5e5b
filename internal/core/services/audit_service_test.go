package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	portsrepo "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock EventRepository ---
type MockEventRepository struct {
	mock.Mock
}

var _ portsrepo.EventRepository = (*MockEventRepository)(nil)

func (m *MockEventRepository) SaveEvent(ctx context.Context, event domain.EtlEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.EtlEvent, *string, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.Get(1).(string)
		next = &token
	}
	return args.Get(0).([]domain.EtlEvent), next, args.Error(2)
}

func TestAuditService_Record(t *testing.T) {
	ctx := context.Background()
	started := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("assigns id and defaults row counts", func(t *testing.T) {
		repo := new(MockEventRepository)
		repo.On("SaveEvent", ctx, mock.MatchedBy(func(e domain.EtlEvent) bool {
			return e.EventID != "" && e.RowCounts != nil && e.EventType == domain.EventLoad
		})).Return(nil).Once()

		svc := services.NewAuditService(repo)
		saved, err := svc.Record(ctx, domain.EtlEvent{EventType: domain.EventLoad, ItemID: "item-1", StartedAt: started, FinishedAt: started.Add(time.Second), Success: true})
		require.NoError(t, err)
		assert.NotEmpty(t, saved.EventID)
		assert.Empty(t, saved.RowCounts)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid events", func(t *testing.T) {
		repo := new(MockEventRepository)
		svc := services.NewAuditService(repo)

		_, err := svc.Record(ctx, domain.EtlEvent{EventType: "delete", StartedAt: started})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = svc.Record(ctx, domain.EtlEvent{EventType: domain.EventIngest})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = svc.Record(ctx, domain.EtlEvent{EventType: domain.EventIngest, StartedAt: started, FinishedAt: started.Add(-time.Minute)})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		repo.AssertNotCalled(t, "SaveEvent", mock.Anything, mock.Anything)
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		repo := new(MockEventRepository)
		storageErr := apperrors.NewAppError(500, "failed to insert event", errors.New("disk full"))
		repo.On("SaveEvent", ctx, mock.Anything).Return(storageErr).Once()

		svc := services.NewAuditService(repo)
		_, err := svc.Record(ctx, domain.EtlEvent{EventType: domain.EventReconcile, StartedAt: started})
		assert.ErrorIs(t, err, storageErr)
		assert.Equal(t, apperrors.ExitInfra, apperrors.ExitCode(err))
	})
}

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockEventRepository)
	events := []domain.EtlEvent{{EventID: "e2"}, {EventID: "e1"}}

	repo.On("ListEvents", ctx, domain.EventFilter{ItemID: "item-1", EventType: domain.EventLoad, Limit: 20}).
		Return(events, "next-token", nil).Once()

	svc := services.NewAuditService(repo)
	resp, err := svc.List(ctx, dto.ListEventsParams{ItemID: "item-1", EventType: "load"})
	require.NoError(t, err)
	assert.Equal(t, events, resp.Events)
	require.NotNil(t, resp.NextToken)
	assert.Equal(t, "next-token", *resp.NextToken)
	repo.AssertExpectations(t)
}

func TestRunEventsRecordedAfterCancellation(t *testing.T) {
	store := memory.NewStore()
	repo := new(MockEventRepository)
	repo.On("SaveEvent",
		mock.MatchedBy(func(ctx context.Context) bool { return ctx.Err() == nil }),
		mock.MatchedBy(func(e domain.EtlEvent) bool { return e.EventType == domain.EventLoad && !e.Success }),
	).Return(nil).Once()

	loader := services.NewLoaderService(store, store, store, services.NewAuditService(repo))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	amt := decimal.NewFromInt(1)
	_, err := loader.Load(ctx, portssvc.LoadRequest{
		ItemID: "item-1",
		Entries: []domain.JournalEntry{{
			TxnID: "t1", TxnDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ItemID: "item-1", SourceHash: "h", TransformVersion: 1,
			Lines: []domain.JournalLine{
				{AccountCode: "Expenses:Miscellaneous", Side: domain.Debit, Amount: amt},
				{AccountCode: "Assets:Bank:Checking", Side: domain.Credit, Amount: amt},
			},
		}},
	})

	assert.ErrorIs(t, err, context.Canceled)
	repo.AssertExpectations(t)
}
