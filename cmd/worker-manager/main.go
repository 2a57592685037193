// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"career-chat-workers/internal/bootstrap"
	"career-chat-workers/internal/common/camunda"
	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/common/logger"
	"career-chat-workers/internal/common/observability"
	"career-chat-workers/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	if err := config.ValidateWorkerHost(cfg); err != nil {
		zapLog.Fatal("invalid worker configuration", zap.Error(err))
	}

	obs := observability.New(cfg.Observability.ServiceName+"-workers", cfg.Observability.JaegerEndpoint)
	defer obs.Shutdown()

	ctx := context.Background()

	var zeebeClient *camunda.Client
	err = bootstrap.RetryWithBackoff(func() error {
		var err error
		zeebeClient, err = camunda.NewClient(ctx, cfg.Camunda)
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	deps, err := bootstrap.Connect(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("dependencies failed", zap.Error(err))
	}
	defer deps.Close()

	regs, err := buildRegistrations(cfg, deps, log)
	if err != nil {
		zapLog.Fatal("worker setup failed", zap.Error(err))
	}
	checkRegistry(cfg.Registry.Path, regs, log)

	workers := startAll(zeebeClient.GetClient(), regs, log)
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Ready(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err := zeebeClient.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: ":8080", Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebeClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about task types served here but missing from the
// activity registry, and the reverse.
func checkRegistry(path string, regs []registration, log logger.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{"path": path, "error": err.Error()})
		return
	}
	missing, unserved := reg.CrossCheck(taskTypes(regs))
	if len(missing) > 0 {
		log.Warn("task types missing from activity registry", map[string]interface{}{"taskTypes": missing})
	}
	if len(unserved) > 0 {
		log.Warn("registered task types without a worker", map[string]interface{}{"taskTypes": unserved})
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
