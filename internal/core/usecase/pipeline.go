package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
	"github.com/kirillkom/reality-check/internal/core/scoring"
)

const defaultSourceTimeout = 60 * time.Second

// Source fetch outcomes reported to the observer.
const (
	OutcomeOK       = "ok"
	OutcomeMocked   = "mocked"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
)

type PipelineConfig struct {
	SourceTimeout time.Duration
	Observer      ports.SourceObserver
}

// Pipeline turns an uploaded document into claims, checks the claims
// against every evidence source and scores the result.
type Pipeline struct {
	text    ports.TextExtractor
	claims  ports.ClaimExtractor
	sources []ports.EvidenceSource

	sourceTimeout time.Duration
	observer      ports.SourceObserver
	logger        *slog.Logger
}

func NewPipeline(
	text ports.TextExtractor,
	claims ports.ClaimExtractor,
	sources []ports.EvidenceSource,
	cfg PipelineConfig,
	logger *slog.Logger,
) *Pipeline {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = defaultSourceTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		text:          text,
		claims:        claims,
		sources:       sources,
		sourceTimeout: cfg.SourceTimeout,
		observer:      cfg.Observer,
		logger:        logger,
	}
}

func (p *Pipeline) ExtractClaims(ctx context.Context, content []byte, extension string) (domain.Claims, error) {
	text, err := p.text.Extract(ctx, domain.RawDocument{Content: content, Extension: extension})
	if err != nil {
		return domain.Claims{}, err
	}

	claims := p.claims.Extract(ctx, text.Cleaned)

	raw := text.Raw
	if strings.TrimSpace(raw) == "" {
		raw = text.Cleaned
	}
	if err := p.claims.CheckResume(claims, raw); err != nil {
		return domain.Claims{}, err
	}

	p.logger.InfoContext(ctx, "claims_extracted",
		"skills", len(claims.Skills),
		"projects", len(claims.Projects),
		"experience", len(claims.Experience),
		"education", len(claims.Education),
	)
	return claims, nil
}

// Verify queries every source that has a username, concurrently, and
// merges the snapshots against the claims. Blank usernames fall back to the
// ones found in the resume. A failing source yields an error snapshot and
// never fails the verification. Claims are deduplicated case-insensitively
// first, so every remaining skill and project lands in exactly one bucket.
func (p *Pipeline) Verify(ctx context.Context, claims domain.Claims, usernames domain.Usernames) domain.VerificationResult {
	claims = claims.Deduplicated()
	usernames = usernames.Resolve(claims)
	projects := claims.ProjectNames()

	snapshots := make([]*domain.EvidenceSnapshot, len(p.sources))
	var wg sync.WaitGroup
	for i, src := range p.sources {
		username := usernames.For(src.Name())
		if username == "" {
			p.observe(src.Name(), OutcomeSkipped, 0)
			continue
		}
		wg.Add(1)
		go func(i int, src ports.EvidenceSource, username string) {
			defer wg.Done()
			snap := p.verifySource(ctx, src, username, claims.Skills, projects)
			snapshots[i] = &snap
		}(i, src, username)
	}
	wg.Wait()

	merged := make(map[domain.SourceKind]domain.EvidenceSnapshot, len(snapshots))
	for _, snap := range snapshots {
		if snap != nil {
			merged[snap.Source] = *snap
		}
	}
	return scoring.Categorize(claims, merged)
}

func (p *Pipeline) Score(result domain.VerificationResult) domain.ScoreBreakdown {
	return scoring.Score(result)
}

func (p *Pipeline) verifySource(
	ctx context.Context,
	src ports.EvidenceSource,
	username string,
	skills, projects []string,
) (snap domain.EvidenceSnapshot) {
	kind := src.Name()
	op := string(kind) + ".verify"
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err := domain.WrapError(domain.ErrSourceUnavailable, op, fmt.Errorf("panic: %v", r))
			p.logger.ErrorContext(ctx, "evidence_source_panic", "source", kind, "panic", fmt.Sprint(r))
			snap = errorSnapshot(kind, username, err)
			p.observe(kind, OutcomeError, time.Since(started))
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, p.sourceTimeout)
	defer cancel()

	raw, err := src.Fetch(fetchCtx, username)
	if err != nil {
		wrapped := domain.WrapError(domain.ErrSourceUnavailable, op, err)
		p.logger.WarnContext(ctx, "evidence_source_failed", "source", kind, "username", username, "error", err)
		snap = errorSnapshot(kind, username, wrapped)
		snap.Evidence.UserNotFound = domain.IsKind(err, domain.ErrUserNotFound)
		if snap.Evidence.UserNotFound {
			p.observe(kind, OutcomeNotFound, time.Since(started))
		} else {
			p.observe(kind, OutcomeError, time.Since(started))
		}
		return snap
	}

	match := src.Match(skills, projects, raw)
	snap = domain.EvidenceSnapshot{
		Source:           kind,
		Username:         username,
		VerifiedSkills:   nonNil(match.VerifiedSkills),
		VerifiedProjects: nonNil(match.VerifiedProjects),
		Proof:            match.Proof,
		Evidence:         raw,
	}
	if snap.Proof == nil {
		snap.Proof = map[string][]string{}
	}

	outcome := OutcomeOK
	if raw.Mocked {
		outcome = OutcomeMocked
	}
	p.observe(kind, outcome, time.Since(started))
	p.logger.InfoContext(ctx, "evidence_source_verified",
		"source", kind,
		"username", username,
		"mocked", raw.Mocked,
		"verified_skills", len(snap.VerifiedSkills),
		"verified_projects", len(snap.VerifiedProjects),
	)
	return snap
}

func (p *Pipeline) observe(kind domain.SourceKind, outcome string, d time.Duration) {
	if p.observer != nil {
		p.observer.ObserveSourceFetch(kind, outcome, d)
	}
}

func errorSnapshot(kind domain.SourceKind, username string, err error) domain.EvidenceSnapshot {
	return domain.EvidenceSnapshot{
		Source:           kind,
		Username:         username,
		VerifiedSkills:   []string{},
		VerifiedProjects: []string{},
		Proof:            map[string][]string{},
		Evidence:         domain.RawEvidence{Username: username},
		Error:            err.Error(),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
