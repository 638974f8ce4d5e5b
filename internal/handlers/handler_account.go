package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler serves the chart of accounts and account links.
type accountHandler struct {
	chartService  portssvc.ChartSvcFacade
	ingestService portssvc.IngestSvc
}

func registerAccountRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade, ingestService portssvc.IngestSvc) {
	h := &accountHandler{chartService: chartService, ingestService: ingestService}
	rg.GET("/accounts", h.listAccounts)
	rg.GET("/source-accounts", h.listSourceAccounts)
	rg.POST("/account-links", h.linkAccount)
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Description Lists every ledger account ordered by code
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.LoggerFrom(c.Request.Context())
	accounts, err := h.chartService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// listSourceAccounts godoc
// @Summary List Plaid accounts of an item
// @Description Lists the item's known Plaid accounts with the ledger account each is linked to. With refresh=true the accounts are fetched from Plaid first.
// @Tags accounts
// @Produce json
// @Param itemID query string true "Plaid item ID"
// @Param refresh query bool false "Fetch accounts from Plaid before listing"
// @Success 200 {array} dto.SourceAccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No accounts known for the item"
// @Failure 502 {object} map[string]string "Plaid request failed"
// @Security BearerAuth
// @Router /source-accounts [get]
func (h *accountHandler) listSourceAccounts(c *gin.Context) {
	logger := middleware.LoggerFrom(c.Request.Context())
	var params dto.ListSourceAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for source accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if params.Refresh {
		if _, err := h.ingestService.SyncAccounts(c.Request.Context(), params.ItemID); err != nil {
			respondError(c, logger, err, "Failed to sync source accounts")
			return
		}
	}
	accounts, err := h.chartService.ListSourceAccounts(c.Request.Context(), params.ItemID)
	if err != nil {
		respondError(c, logger, err, "Failed to list source accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// linkAccount godoc
// @Summary Link a Plaid account to a ledger account
// @Description Maps a Plaid account onto an asset or liability ledger account, replacing its existing link. A ledger account can be linked to one Plaid account only.
// @Tags accounts
// @Accept json
// @Produce json
// @Param link body dto.LinkAccountRequest true "Link details"
// @Success 201 {object} dto.AccountLinkResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Plaid account or ledger account not found"
// @Failure 409 {object} map[string]string "Ledger account already linked"
// @Security BearerAuth
// @Router /account-links [post]
func (h *accountHandler) linkAccount(c *gin.Context) {
	logger := middleware.LoggerFrom(c.Request.Context())
	var req dto.LinkAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for account link", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	link, err := h.chartService.LinkAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Failed to link account")
		return
	}

	logger.Info("Account link saved",
		slog.String("source_account_id", link.SourceAccountID),
		slog.String("account_code", link.AccountCode))
	c.JSON(http.StatusCreated, link)
}
