package cache

import (
	"testing"
	"time"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

func TestEvidenceCacheKeysBySourceAndUsername(t *testing.T) {
	c := NewEvidenceCache(time.Minute, time.Minute)
	c.Set(domain.SourceCodeHost, "JaneDoe", domain.RawEvidence{Username: "JaneDoe", Contributions: 500})

	got, ok := c.Get(domain.SourceCodeHost, " janedoe ")
	if !ok {
		t.Fatalf("Get() miss for case-folded username")
	}
	if got.Contributions != 500 {
		t.Fatalf("Get() contributions = %d, want 500", got.Contributions)
	}
	if _, ok := c.Get(domain.SourceSocial, "janedoe"); ok {
		t.Fatalf("Get() hit for a different source")
	}

	c.Delete(domain.SourceCodeHost, "janedoe")
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after Delete, want 0", c.Len())
	}
}

func TestEvidenceCacheExpires(t *testing.T) {
	c := NewEvidenceCache(10*time.Millisecond, time.Hour)
	c.Set(domain.SourceProfessional, "jane", domain.RawEvidence{Username: "jane"})
	time.Sleep(25 * time.Millisecond)
	if _, ok := c.Get(domain.SourceProfessional, "jane"); ok {
		t.Fatalf("Get() returned an expired entry")
	}
}
