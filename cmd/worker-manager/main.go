// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"shopping-agent/internal/common/camunda"
	"shopping-agent/internal/common/config"
	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/common/observability"
	"shopping-agent/internal/pipeline"
	"shopping-agent/pkg/registry"
)

// validatedHandler checks job variables against the activity input schema before the stage runs.
type validatedHandler struct {
	activity   *registry.Activity
	next       camunda.JobHandler
	errHandler *apperrors.ErrorHandler
}

func (v *validatedHandler) Handle(client worker.JobClient, job entities.Job) {
	if err := v.activity.ValidateInput(job.Variables); err != nil {
		camunda.FailJob(context.Background(), client, job, err, v.errHandler)
		return
	}
	v.next.Handle(client, job)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting worker manager...")

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
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{"service": "worker-manager"})

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Warn("otel metrics disabled", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Init Zeebe Client with retry ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Stage handlers ---
	stages, err := pipeline.NewStages(log)
	if err != nil {
		zapLog.Fatal("failed to build stage handlers", zap.Error(err))
	}
	handlers := stages.JobHandlers()

	reg := registry.Default()
	errHandler := apperrors.NewErrorHandler(log)

	var jobWorkers []worker.JobWorker
	for i := range reg.Activities {
		activity := &reg.Activities[i]
		handler, ok := handlers[activity.TaskType]
		if !ok {
			zapLog.Fatal("no handler for registered activity", zap.String("taskType", activity.TaskType))
		}
		wcfg := config.GetWorkerConfig(cfg, activity.TaskType)
		jw := camunda.StartWorker(zeebe.GetClient(), activity.TaskType, wcfg, &validatedHandler{
			activity:   activity,
			next:       handler,
			errHandler: errHandler,
		}, log)
		if jw != nil {
			jobWorkers = append(jobWorkers, jw)
		}
	}
	zapLog.Info(fmt.Sprintf("%d of %d workers registered", len(jobWorkers), len(reg.Activities)))

	// --- Health & Metrics Server ---
	var ready atomic.Bool
	ready.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"workers": len(jobWorkers),
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		body := map[string]string{"status": "ready", "time": time.Now().Format(time.RFC3339)}
		if err := zeebe.HealthCheck(r.Context()); err != nil || !ready.Load() {
			status = http.StatusServiceUnavailable
			body["status"] = "not ready"
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})
	mux.Handle("/metrics", promhttp.Handler())

	metricsAddr := cfg.Server.MetricsAddress
	srv := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", metricsAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	ready.Store(false)

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, jw := range jobWorkers {
		jw.Close()
		jw.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping otel meter provider", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
