package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/reality-check/internal/bootstrap"
	"github.com/kirillkom/reality-check/internal/config"
	"github.com/kirillkom/reality-check/internal/observability/logging"
	"github.com/kirillkom/reality-check/internal/observability/metrics"
)

const serviceName = "reality-check-worker"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)

	app, err := bootstrap.New(ctx, cfg, logger, workerMetrics)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeResumeIngested(ctx, func(handlerCtx context.Context, resumeID string) error {
		if resume, err := app.Repo.GetByID(handlerCtx, resumeID); err == nil {
			workerMetrics.ObserveQueueLag(time.Since(resume.CreatedAt))
		}

		processCtx, cancel := context.WithTimeout(handlerCtx, cfg.ProcessTimeout())
		defer cancel()

		start := time.Now()
		workerMetrics.StartResume()
		err := app.ProcessUC.ProcessByID(processCtx, resumeID)
		workerMetrics.FinishResume(time.Since(start), err)

		if err != nil {
			return err
		}
		logger.Info("resume_processed", "resume_id", resumeID, "duration_ms", time.Since(start).Milliseconds())
		return nil
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
