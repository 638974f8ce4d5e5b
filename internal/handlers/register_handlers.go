package handlers

import (
	"fmt"
	"net/http"

	portssvc "github.com/SscSPs/plaid_ledger_recon/internal/core/ports/services"
	"github.com/SscSPs/plaid_ledger_recon/internal/middleware"
	"github.com/SscSPs/plaid_ledger_recon/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	if err := RegisterValidators(); err != nil {
		return err
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("configure rate limit: %w", err)
	}

	// Every v1 route is authenticated and rate limited
	v1 := r.Group("/api/v1", middleware.RateLimit(limiter), middleware.AuthMiddleware(cfg.JWTSecret))

	registerIngestRoutes(v1, services.Ingest)
	registerReconcileRoutes(v1, services.Reconciliation)
	registerEventRoutes(v1, services.Audit)
	registerAccountRoutes(v1, services.Chart, services.Ingest)
	return nil
}
