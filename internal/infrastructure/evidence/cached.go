package evidence

import (
	"context"
	"log/slog"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
	"github.com/kirillkom/reality-check/internal/infrastructure/cache"
)

// CachedSource serves repeated fetches for the same username from memory.
// Failed fetches are not cached.
type CachedSource struct {
	ports.EvidenceSource
	cache  *cache.EvidenceCache
	logger *slog.Logger
}

func WithCache(source ports.EvidenceSource, c *cache.EvidenceCache, logger *slog.Logger) ports.EvidenceSource {
	if c == nil {
		return source
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{EvidenceSource: source, cache: c, logger: logger}
}

func (s *CachedSource) Fetch(ctx context.Context, username string) (domain.RawEvidence, error) {
	if raw, ok := s.cache.Get(s.Name(), username); ok {
		s.logger.DebugContext(ctx, "evidence_cache_hit", "source", s.Name(), "username", username)
		return raw, nil
	}
	raw, err := s.EvidenceSource.Fetch(ctx, username)
	if err != nil {
		return domain.RawEvidence{}, err
	}
	s.cache.Set(s.Name(), username, raw)
	return raw, nil
}
