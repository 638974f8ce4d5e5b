package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/cmd/pfetl/docs"
	"github.com/SscSPs/plaid_ledger_recon/internal/handlers"
	"github.com/SscSPs/plaid_ledger_recon/internal/middleware"
	"github.com/SscSPs/plaid_ledger_recon/internal/platform/config"
	"github.com/SscSPs/plaid_ledger_recon/migrations"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type serveCmd struct {
	skipMigrations bool
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the admin API" }
func (*serveCmd) Usage() string {
	return `pfetl serve [-skip-migrations]

  Applies pending migrations and serves the admin API on PORT until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.skipMigrations, "skip-migrations", false, "Do not apply migrations on startup.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx, false)
	if err != nil {
		return fail(nil, "serve", err)
	}
	defer a.Close()
	logger := a.logger

	if !c.skipMigrations {
		logger.Info("Running database migrations...")
		if err := migrations.Up(a.cfg.DatabaseURL, logger); err != nil {
			return fail(logger, "serve", err)
		}
	}

	if a.cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.CORS(a.cfg.CORSAllowedOrigins))
	if err := r.SetTrustedProxies(nil); err != nil {
		return fail(logger, "serve", err)
	}
	if err := handlers.RegisterRoutes(r, a.cfg, a.services); err != nil {
		return fail(logger, "serve", err)
	}
	setupSwaggerRoutes(r, a.cfg)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", a.cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fail(logger, "serve", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fail(logger, "serve", err)
		}
	}
	return subcommands.ExitSuccess
}

func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
