package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/reality-check/internal/config"
	"github.com/kirillkom/reality-check/internal/core/claims"
	"github.com/kirillkom/reality-check/internal/core/ports"
	"github.com/kirillkom/reality-check/internal/core/usecase"
	"github.com/kirillkom/reality-check/internal/infrastructure/cache"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence/github"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence/linkedin"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence/twitter"
	"github.com/kirillkom/reality-check/internal/infrastructure/extractor/document"
	"github.com/kirillkom/reality-check/internal/infrastructure/queue/nats"
	"github.com/kirillkom/reality-check/internal/infrastructure/report/xlsx"
	"github.com/kirillkom/reality-check/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/reality-check/internal/infrastructure/resilience"
	"github.com/kirillkom/reality-check/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Executor  *resilience.Executor
	Queue     ports.MessageQueue
	Repo      ports.ResumeRepository
	Pipeline  *usecase.Pipeline
	IngestUC  ports.ResumeIngestor
	ProcessUC ports.ResumeProcessor
	QueryUC   *usecase.ResumeQueryUseCase
	InviteUC  ports.InviteSender

	closeFn func()
}

// New wires the full service: Postgres, NATS, local storage and the
// verification pipeline.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, observer ports.SourceObserver) (*App, error) {
	executor := newExecutor(logger)

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewResumeRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		InviteSubject:      cfg.NATSInviteSubject,
		ResilienceExecutor: executor,
		Logger:             logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	pipeline := newPipeline(cfg, logger, observer, executor)

	return &App{
		Config:   cfg,
		Executor: executor,
		Queue:    queue,
		Repo:     repo,
		Pipeline: pipeline,

		IngestUC:  usecase.NewIngestResumeUseCase(repo, storage, queue),
		ProcessUC: usecase.NewProcessResumeUseCase(repo, storage, pipeline),
		QueryUC:   usecase.NewResumeQueryUseCase(repo, pipeline, xlsx.NewRenderer()),
		InviteUC:  usecase.NewInviteUseCase(repo, queue),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewPipeline builds only the extraction and verification core, for the
// CLI and the MCP server which keep no state.
func NewPipeline(cfg config.Config, logger *slog.Logger, observer ports.SourceObserver) *usecase.Pipeline {
	return newPipeline(cfg, logger, observer, newExecutor(logger))
}

func newPipeline(cfg config.Config, logger *slog.Logger, observer ports.SourceObserver, executor *resilience.Executor) *usecase.Pipeline {
	client := evidence.NewClient(evidence.ClientConfig{
		Timeout:       cfg.SourceTimeout(),
		RetryAttempts: uint(max(cfg.SourceRetryAttempts, 1)),
		RatePerSecond: float64(cfg.SourceRatePerSecond),
		Burst:         cfg.SourceRateBurst,
	}, logger)

	sources := []ports.EvidenceSource{
		github.New(
			github.WithBaseURL(cfg.GitHubBaseURL),
			github.WithToken(cfg.GitHubToken),
			github.WithMockOnNotFound(cfg.GitHubMockOnNotFound),
			github.WithClient(client),
			github.WithLogger(logger),
		),
		twitter.New(logger),
		linkedin.New(
			linkedin.WithRealLookup(cfg.LinkedInRealLookup, cfg.LinkedInAccessToken),
			linkedin.WithRapidAPIKey(cfg.RapidAPIKey),
			linkedin.WithProxycurlKey(cfg.ProxycurlAPIKey),
			linkedin.WithClient(client),
			linkedin.WithLogger(logger),
		),
	}

	var evidenceCache *cache.EvidenceCache
	if ttl := cfg.EvidenceCacheTTL(); ttl > 0 {
		evidenceCache = cache.NewEvidenceCache(ttl, 2*ttl)
	}
	for i, source := range sources {
		source = evidence.WithResilience(source, executor)
		if evidenceCache != nil {
			source = evidence.WithCache(source, evidenceCache, logger)
		}
		sources[i] = source
	}

	opts := claims.DefaultOptions()
	opts.InferSoftSkills = cfg.InferSoftSkills

	return usecase.NewPipeline(
		document.New(logger),
		claims.NewExtractor(logger, opts),
		sources,
		usecase.PipelineConfig{SourceTimeout: cfg.SourceTimeout(), Observer: observer},
		logger,
	)
}

// newExecutor keeps retries out of evidence lookups, which the evidence
// client already retries per request; queue publishes get an extra attempt.
func newExecutor(logger *slog.Logger) *resilience.Executor {
	base := resilience.DefaultConfig()
	publish := base
	publish.RetryMaxAttempts = 3

	return resilience.NewExecutor(
		base,
		resilience.WithPolicy(evidence.OperationPrefix, resilience.BreakerOnly(base)),
		resilience.WithPolicy("nats.", publish),
		resilience.WithLogger(logger),
		resilience.WithStateObserver(func(op string, from, to gobreaker.State) {
			logger.Warn("circuit_breaker_state_change",
				"operation", op,
				"from", from.String(),
				"to", to.String(),
				"at", time.Now().UTC(),
			)
		}),
	)
}
