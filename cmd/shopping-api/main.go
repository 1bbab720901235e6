// cmd/shopping-api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shopping-agent/internal/api"
	"shopping-agent/internal/catalog"
	"shopping-agent/internal/common/config"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/common/observability"
	"shopping-agent/internal/pipeline"
	"shopping-agent/internal/session"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	if l, err := logger.FromOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err == nil {
		zapLog = l
	}
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "shopping-api"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New("shopping-api")
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	products, closeCatalog, err := catalog.Open(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("catalog unavailable", zap.Error(err))
	}
	defer closeCatalog()

	store, closeStore, err := session.Open(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("session store unavailable", zap.Error(err))
	}
	defer closeStore()

	sessions := session.NewManager(store, session.OptionsFromConfig(cfg.Session), log)
	sessions.StartSweeper(ctx, cfg.Session.SweepInterval())

	stages, err := pipeline.NewStages(log)
	if err != nil {
		zapLog.Fatal("failed to build pipeline stages", zap.Error(err))
	}
	orchestrator := pipeline.New(stages, products, sessions, log, pipeline.WithRecorder(obs))

	handler := api.New(orchestrator, cfg.App.Version, log)
	apiServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewRouter(handler, config.GetDuration(cfg.Server.WriteTimeout)),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: metricsMux}

	for _, srv := range []*http.Server{apiServer, metricsServer} {
		go func(srv *http.Server) {
			zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				zapLog.Error("HTTP server failed", zap.String("address", srv.Addr), zap.Error(err))
				stop()
			}
		}(srv)
	}

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping API server", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping otel meter provider", zap.Error(err))
	}

	zapLog.Info("Shopping API stopped gracefully")
}
