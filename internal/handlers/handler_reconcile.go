package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/internal/middleware"
	"github.com/gin-gonic/gin"
)

type reconcileHandler struct {
	reconciliationService portssvc.ReconciliationSvc
}

func registerReconcileRoutes(rg *gin.RouterGroup, svc portssvc.ReconciliationSvc) {
	h := &reconcileHandler{reconciliationService: svc}
	rg.POST("/reconcile", h.reconcile)
}

// reconcile godoc
// @Summary Reconcile a period
// @Description Runs coverage, entry balance, cash variance and lineage checks for the period. The report is returned with 200 when every gate passes and 422 when one fails.
// @Tags pipeline
// @Accept json
// @Produce json
// @Param reconcile body dto.ReconcileRequest true "Period, item and balance source"
// @Success 200 {object} domain.ReconciliationResult
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No linked cash accounts for the item"
// @Failure 422 {object} domain.ReconciliationResult "Gate failed"
// @Security BearerAuth
// @Router /reconcile [post]
func (h *reconcileHandler) reconcile(c *gin.Context) {
	logger := middleware.LoggerFrom(c.Request.Context())
	var req dto.ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for reconcile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("item_id", req.ItemID), slog.String("period", req.Period))
	logger.Info("Received reconcile request")

	result, err := h.reconciliationService.Reconcile(c.Request.Context(), req)
	if result != nil {
		status := http.StatusOK
		if err != nil {
			status = apperrors.HTTPStatus(err)
			logger.Warn("Reconciliation gate failed", slog.String("error", err.Error()))
		}
		c.JSON(status, result)
		return
	}
	respondError(c, logger, err, "Reconciliation failed")
}
