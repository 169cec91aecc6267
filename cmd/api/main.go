package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/kirillkom/reality-check/internal/adapters/http"
	"github.com/kirillkom/reality-check/internal/bootstrap"
	"github.com/kirillkom/reality-check/internal/config"
	"github.com/kirillkom/reality-check/internal/observability/logging"
	"github.com/kirillkom/reality-check/internal/observability/metrics"
)

const serviceName = "reality-check-api"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)

	app, err := bootstrap.New(ctx, cfg, logger, httpMetrics)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	opts := []httpadapter.Option{
		httpadapter.WithLogger(logger),
		httpadapter.WithScoreRecorder(httpMetrics),
		httpadapter.WithBreakerStatus(app.Executor.OpenBreakers),
	}
	if cfg.OpenAPIValidation {
		doc, err := httpadapter.LoadOpenAPI(ctx)
		if err != nil {
			logger.Error("openapi_load_failed", "error", err)
			os.Exit(1)
		}
		opts = append(opts, httpadapter.WithOpenAPI(doc))
	}

	api, err := httpadapter.NewRouter(cfg, httpadapter.Services{
		Ingest:   app.IngestUC,
		Reader:   app.QueryUC,
		Verifier: app.QueryUC,
		Reports:  app.QueryUC,
		Invites:  app.InviteUC,
	}, opts...).Handler()
	if err != nil {
		logger.Error("router_init_failed", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", httpMetrics.Handler())
	mux.Handle("/", httpMetrics.Middleware(api))

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_failed", "error", err)
	}
}
