// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"recruiter-allocation/internal/app"
	"recruiter-allocation/internal/common/camunda"
	"recruiter-allocation/internal/common/config"
	"recruiter-allocation/internal/common/logger"
	"recruiter-allocation/internal/common/observability"

	afp "recruiter-allocation/internal/workers/allocation/allocate-candidates-for-project"
	afr "recruiter-allocation/internal/workers/allocation/allocate-candidates-for-role"
	cce "recruiter-allocation/internal/workers/allocation/check-candidate-eligibility"
	fec "recruiter-allocation/internal/workers/allocation/find-eligible-candidates"
	rac "recruiter-allocation/internal/workers/allocation/reset-allocation-cursor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("logger init failed", zap.Error(err))
	}
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New("worker-manager")
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	core, err := app.Build(ctx, cfg, obs, log)
	if err != nil {
		zapLog.Fatal("allocation core init failed", zap.Error(err))
	}
	defer core.Close()

	// --- Init Zeebe Client with retry ---
	zeebe, err := camunda.NewClient(ctx, camunda.ClientConfigFrom(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully")

	workers := startWorkers(zeebe.GetClient(), cfg, core, log)

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           app.NewRouter(core.Ready),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error flushing telemetry", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorkers(client zbc.Client, cfg *config.Config, core *app.App, log logger.Logger) []*camunda.Worker {
	roleCfg := afr.LoadConfig()
	roleCfg.DefaultBatchSize = cfg.Allocation.DefaultBatchSize
	projectCfg := afp.LoadConfig()
	projectCfg.DefaultBatchSize = cfg.Allocation.DefaultBatchSize

	handlers := []struct {
		taskType string
		handler  camunda.JobHandler
	}{
		{afr.TaskType, afr.NewHandler(roleCfg, core.Orchestrator, core.Recruiters, core.Validator, log)},
		{afp.TaskType, afp.NewHandler(projectCfg, core.Orchestrator, core.Recruiters, core.Validator, log)},
		{fec.TaskType, fec.NewHandler(fec.LoadConfig(), core.Orchestrator, core.Validator, log)},
		{cce.TaskType, cce.NewHandler(cce.LoadConfig(), core.Orchestrator, core.Validator, log)},
		{rac.TaskType, rac.NewHandler(rac.LoadConfig(), core.Orchestrator, core.Validator, log)},
	}

	var workers []*camunda.Worker
	for _, h := range handlers {
		wcfg := config.GetWorkerConfig(cfg, h.taskType)
		if !wcfg.Enabled {
			log.Info("worker disabled", map[string]interface{}{"taskType": h.taskType})
			continue
		}
		workers = append(workers, camunda.NewWorker(client, h.taskType, h.handler, camunda.WorkerOptions{
			MaxJobsActive: wcfg.MaxJobsActive,
			Timeout:       config.GetDuration(wcfg.Timeout),
		}, log))
	}
	return workers
}
