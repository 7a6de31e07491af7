// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"property-matching/internal/common/camunda"
	"property-matching/internal/common/config"
	"property-matching/internal/common/logger"
	"property-matching/internal/common/observability"
	"property-matching/internal/matching"

	cpm "property-matching/internal/workers/property/calculate-property-match"
	cms "property-matching/internal/workers/property/compute-market-stats"
	fpm "property-matching/internal/workers/property/find-property-matches"
	fsp "property-matching/internal/workers/property/find-similar-properties"
	ppq "property-matching/internal/workers/property/parse-property-query"
	rp "property-matching/internal/workers/property/recommend-properties"
	sp "property-matching/internal/workers/property/search-properties"
)

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
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("environment", cfg.App.Environment),
		zap.String("backend", cfg.Search.Backend),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Tracing.Enabled {
		err := obs.EnableTracing(observability.TracingOptions{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Endpoint:       cfg.Tracing.JaegerEndpoint,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if err != nil {
			zapLog.Fatal("tracing setup failed", zap.Error(err))
		}
	}

	ctx := context.Background()

	repos, err := openRepositories(ctx, cfg, zapLog, log)
	if err != nil {
		zapLog.Fatal("repository setup failed", zap.Error(err))
	}
	defer repos.Close()

	engine := matching.NewEngine(cfg.MatchingConfig(), repos.Properties, repos.Users, log)

	// --- Init Zeebe Client ---
	client, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      10 * time.Second,
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: cfg.Camunda.ConnectRetries,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Register workers ---
	zb := client.GetClient()
	var workers []worker.JobWorker
	register := func(taskType string, handler worker.JobHandler) {
		if w := camunda.StartWorker(zb, taskType, config.GetWorkerConfig(cfg, taskType), handler, log); w != nil {
			workers = append(workers, w)
		}
	}

	register(ppq.TaskType, ppq.NewHandler(ppq.LoadConfig(cfg), engine, obs, log).Handle)
	register(sp.TaskType, sp.NewHandler(sp.LoadConfig(cfg), engine, obs, log).Handle)
	register(fsp.TaskType, fsp.NewHandler(fsp.LoadConfig(cfg), engine, obs, log).Handle)
	register(cpm.TaskType, cpm.NewHandler(cpm.LoadConfig(cfg), engine, obs, log).Handle)
	register(fpm.TaskType, fpm.NewHandler(fpm.LoadConfig(cfg), engine, obs, log).Handle)
	register(rp.TaskType, rp.NewHandler(rp.LoadConfig(cfg), engine, obs, log).Handle)
	register(cms.TaskType, cms.NewHandler(cms.LoadConfig(cfg), engine, obs, log).Handle)

	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HealthPort),
		Handler:           newHealthMux(repos.Checks(client)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

	camunda.StopWorkers(workers)

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := client.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
