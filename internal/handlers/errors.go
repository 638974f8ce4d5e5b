package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps err to a status code. Server-side failures are logged and their details hidden.
func respondError(c *gin.Context, logger *slog.Logger, err error, msg string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusServiceUnavailable {
		logger.Error(msg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn(msg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error()})
}
