package evidence

import (
	"context"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
	"github.com/kirillkom/reality-check/internal/infrastructure/resilience"
)

// OperationPrefix names every breaker guarding an evidence lookup.
const OperationPrefix = "evidence."

// GuardedSource runs Fetch through the shared executor so a failing
// upstream trips its own breaker instead of slowing every verification.
type GuardedSource struct {
	ports.EvidenceSource
	exec *resilience.Executor
}

func WithResilience(source ports.EvidenceSource, exec *resilience.Executor) ports.EvidenceSource {
	if exec == nil {
		return source
	}
	return &GuardedSource{EvidenceSource: source, exec: exec}
}

func (s *GuardedSource) Fetch(ctx context.Context, username string) (domain.RawEvidence, error) {
	return resilience.Call(ctx, s.exec, OperationPrefix+string(s.Name())+".fetch", func(ctx context.Context) (domain.RawEvidence, error) {
		return s.EvidenceSource.Fetch(ctx, username)
	}, ClassifyError)
}
