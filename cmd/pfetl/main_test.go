package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFail_ExitStatus(t *testing.T) {
	assert.Equal(t, subcommands.ExitUsageError, fail(nil, "reconcile", apperrors.ErrUsage))
	assert.Equal(t, subcommands.ExitFailure, fail(nil, "reconcile", fmt.Errorf("x: %w", apperrors.ErrCoverage)))
	assert.Equal(t, subcommands.ExitStatus(3), fail(nil, "ingest", errors.New("connection refused")))
}

func TestCommands_RejectBadFlagsBeforeConnecting(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, subcommands.ExitUsageError, (&ingestCmd{from: "2024-01-01", to: "2024-03-31"}).Execute(ctx, nil))
	assert.Equal(t, subcommands.ExitUsageError, (&ingestCmd{itemID: "item-1", from: "2024-03-31", to: "2024-01-01"}).Execute(ctx, nil))
	assert.Equal(t, subcommands.ExitUsageError, (&reconcileCmd{itemID: "item-1", period: "2024Q1"}).Execute(ctx, nil))
	assert.Equal(t, subcommands.ExitUsageError, (&reconcileCmd{itemID: "item-1", period: "2024Q1", balancesFile: "b.json", live: true}).Execute(ctx, nil))
	assert.Equal(t, subcommands.ExitUsageError, (&mapAccountCmd{sourceAccountID: "acc-1"}).Execute(ctx, nil))
	assert.Equal(t, subcommands.ExitUsageError, (&listAccountsCmd{refresh: true}).Execute(ctx, nil))
}

func TestDependencies_DefaultTables(t *testing.T) {
	mapping, err := loadMapping()
	assert.NoError(t, err)
	accounts, err := loadChart()
	assert.NoError(t, err)
	assert.NotEmpty(t, accounts)
	assert.Positive(t, mapping.Version())
}

func TestDependencies_CarryConfig(t *testing.T) {
	deps, err := dependencies(&config.Config{ExtractMaxPages: 7, ReconcileTolerance: decimal.RequireFromString("0.25")})
	require.NoError(t, err)
	assert.Equal(t, 7, deps.MaxPages)
	require.True(t, deps.Tolerance.Valid)
	assert.Equal(t, "0.25", deps.Tolerance.Decimal.String())
}

func TestSwaggerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	setupSwaggerRoutes(r, &config.Config{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/source-accounts"`)
	assert.Contains(t, w.Body.String(), `"basePath": "/api/v1"`)

	prod := gin.New()
	setupSwaggerRoutes(prod, &config.Config{IsProduction: true})
	w = httptest.NewRecorder()
	prod.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
