// Package main implements the read-only engine encyclopedia API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WessleyAI/wessley-engines/engine/catalog"
	"github.com/WessleyAI/wessley-engines/engine/lint"
	"github.com/WessleyAI/wessley-engines/pkg/config"
	"github.com/WessleyAI/wessley-engines/pkg/mid"
	"github.com/WessleyAI/wessley-engines/pkg/telemetry"
)

func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

// checkCatalog lints cat once at startup. Pages with lint errors are not served.
func checkCatalog(cat *catalog.Catalog, metrics *telemetry.Metrics, logger *slog.Logger) error {
	report := lint.Catalog(cat)
	for _, f := range report.Findings {
		metrics.ObserveFinding(f.Rule, string(f.Severity))
	}
	for _, f := range report.Warnings() {
		logger.Warn("content lint", "brand", f.Brand, "engine", f.Engine, "rule", f.Rule, "msg", f.Message)
	}
	for _, f := range report.Errors() {
		logger.Error("content lint", "brand", f.Brand, "engine", f.Engine, "rule", f.Rule, "msg", f.Message)
	}
	return report.Err()
}

func newHandler(cfg config.Config, cat *catalog.Catalog, metrics *telemetry.Metrics, logger *slog.Logger) http.Handler {
	limiter := mid.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	return mid.Chain(routes(cat, metrics, logger),
		mid.Recover(logger),
		mid.OTel(cfg.ServiceName),
		mid.Logger(logger),
		mid.Metrics(metrics),
		mid.RateLimit(limiter, func(*http.Request) { metrics.RateLimited.Inc() }),
		mid.CORS(cfg.CORSOrigin),
	)
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.Open(cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	metrics := telemetry.New()
	metrics.CatalogEngines.Set(float64(cat.Len()))
	if err := checkCatalog(cat, metrics, logger); err != nil {
		return err
	}
	logger.Info("catalog loaded", "brands", len(cat.Brands()), "engines", cat.Len(), "dir", cfg.ContentDir)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newHandler(cfg, cat, metrics, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
