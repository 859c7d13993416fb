// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"qa-workers/internal/common/camunda"
	"qa-workers/internal/common/config"
	"qa-workers/internal/common/logger"
	"qa-workers/internal/common/observability"
	"qa-workers/internal/llm"
	"qa-workers/internal/pipeline"

	epc "qa-workers/internal/workers/qa/extract-page-content"
	gsq "qa-workers/internal/workers/qa/generate-search-query"
	sp "qa-workers/internal/workers/qa/summarize-pages"
	sa "qa-workers/internal/workers/qa/synthesize-answer"
	ws "qa-workers/internal/workers/qa/web-search"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("mode", string(cfg.Mode())))

	obs, err := observability.New(cfg.Observability)
	if err != nil {
		zapLog.Fatal("observability setup failed", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.Dial(ctx, cfg.Camunda)
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected", zap.String("gateway", zeebe.Address()))

	res, err := pipeline.OpenResources(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("resource setup failed", zap.Error(err))
	}

	generator, err := llm.New(cfg.Mode(), cfg.Models, cfg.APIKeys.GeminiAPIKey)
	if err != nil {
		zapLog.Fatal("model backend setup failed", zap.Error(err))
	}

	var extractorOpts []epc.Option
	if res.PageCache != nil {
		extractorOpts = append(extractorOpts, epc.WithPageCache(res.PageCache))
	}

	handlers := map[string]camunda.JobHandler{
		gsq.TaskType: gsq.NewHandler(gsq.LoadConfig(cfg), generator, log),
		ws.TaskType:  ws.NewHandler(ws.LoadConfig(cfg), log),
		epc.TaskType: epc.NewHandler(epc.LoadConfig(cfg), log, extractorOpts...),
		sp.TaskType:  sp.NewHandler(sp.LoadConfig(cfg), generator, log),
		sa.TaskType:  sa.NewHandler(sa.LoadConfig(cfg), generator, log),
	}

	var workers []*camunda.CamundaWorker
	for _, taskType := range []string{gsq.TaskType, ws.TaskType, epc.TaskType, sp.TaskType, sa.TaskType} {
		if !config.IsWorkerEnabled(cfg, taskType) {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			continue
		}
		w := camunda.NewWorker(zeebe, taskType, config.GetWorkerConfig(cfg, taskType), handlers[taskType], log)
		w.Start()
		workers = append(workers, w)
	}
	zapLog.Info("Stage workers registered", zap.Int("count", len(workers)))

	var ready atomic.Bool
	ready.Store(true)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			writeStatus(w, http.StatusServiceUnavailable, "stopping")
			return
		}
		checkCtx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if _, err := zeebe.Brokers(checkCtx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "broker unreachable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	ready.Store(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}
	if err := res.Close(); err != nil {
		zapLog.Error("Error closing resources", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
