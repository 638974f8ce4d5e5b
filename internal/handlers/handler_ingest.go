package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ingestHandler handles HTTP requests that trigger extract-transform-load runs.
type ingestHandler struct {
	ingestService portssvc.IngestSvc
}

func registerIngestRoutes(rg *gin.RouterGroup, ingestService portssvc.IngestSvc) {
	h := &ingestHandler{ingestService: ingestService}
	rg.POST("/ingest", h.runIngest)
}

// runIngest godoc
// @Summary Run an ingest
// @Description Extracts the item's transactions for the window, transforms them into journal entries and loads them. Re-running a window is safe: existing transactions are skipped.
// @Tags pipeline
// @Accept json
// @Produce json
// @Param ingest body dto.IngestRequest true "Item and date window"
// @Success 200 {object} domain.IngestSummary
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 422 {object} map[string]string "Unmapped or unlinked Plaid account"
// @Failure 502 {object} map[string]string "Plaid extraction failed"
// @Failure 503 {object} map[string]string "Plaid credentials missing"
// @Security BearerAuth
// @Router /ingest [post]
func (h *ingestHandler) runIngest(c *gin.Context) {
	logger := middleware.LoggerFrom(c.Request.Context())
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ingest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("item_id", req.ItemID))
	logger.Info("Received ingest request", slog.String("from", req.From), slog.String("to", req.To))

	summary, err := h.ingestService.Run(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err, "Ingest failed")
		return
	}
	c.JSON(http.StatusOK, summary)
}
