package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/dto"
	"github.com/SscSPs/plaid_ledger_recon/internal/middleware"
	"github.com/gin-gonic/gin"
)

type eventHandler struct {
	auditService portssvc.AuditSvc
}

func registerEventRoutes(rg *gin.RouterGroup, auditService portssvc.AuditSvc) {
	h := &eventHandler{auditService: auditService}
	rg.GET("/events", h.listEvents)
}

// listEvents godoc
// @Summary List audit events
// @Description Pages through the ETL audit log, newest first
// @Tags events
// @Produce json
// @Param itemID query string false "Plaid item ID"
// @Param eventType query string false "Event type" Enums(ingest, load, reconcile)
// @Param limit query int false "Page size" minimum(1) maximum(100)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEventsResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list events"
// @Security BearerAuth
// @Router /events [get]
func (h *eventHandler) listEvents(c *gin.Context) {
	logger := middleware.LoggerFrom(c.Request.Context())
	var params dto.ListEventsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for events", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.auditService.List(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list events")
		return
	}
	c.JSON(http.StatusOK, resp)
}
