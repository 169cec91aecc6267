package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
)

func newTestPipeline(text *textExtractorFake, claims *claimExtractorFake, cfg PipelineConfig, sources ...ports.EvidenceSource) *Pipeline {
	return NewPipeline(text, claims, sources, cfg, nil)
}

func TestExtractClaimsRunsExtractorThenParser(t *testing.T) {
	text := &textExtractorFake{text: domain.ExtractedText{Cleaned: "clean text", Raw: "raw  text"}}
	claims := &claimExtractorFake{claims: domain.Claims{Skills: []string{"Go"}}}
	p := newTestPipeline(text, claims, PipelineConfig{})

	got, err := p.ExtractClaims(context.Background(), []byte("%PDF"), "pdf")
	if err != nil {
		t.Fatalf("ExtractClaims() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Go"}, got.Skills); diff != "" {
		t.Fatalf("skills mismatch (-want +got):\n%s", diff)
	}
	if text.lastExt != "pdf" || claims.lastText != "clean text" || claims.lastRaw != "raw  text" {
		t.Fatalf("ext = %q text = %q raw = %q", text.lastExt, claims.lastText, claims.lastRaw)
	}
}

func TestExtractClaimsFallsBackToCleanedTextForSanityCheck(t *testing.T) {
	claims := &claimExtractorFake{}
	p := newTestPipeline(&textExtractorFake{text: domain.ExtractedText{Cleaned: "only cleaned"}}, claims, PipelineConfig{})

	if _, err := p.ExtractClaims(context.Background(), nil, "docx"); err != nil {
		t.Fatalf("ExtractClaims() error = %v", err)
	}
	if claims.lastRaw != "only cleaned" {
		t.Fatalf("raw = %q, want cleaned text", claims.lastRaw)
	}
}

func TestExtractClaimsPropagatesTypedErrors(t *testing.T) {
	cases := []struct {
		name   string
		text   *textExtractorFake
		claims *claimExtractorFake
		kind   error
	}{
		{
			name:   "unsupported format",
			text:   &textExtractorFake{err: domain.WrapError(domain.ErrUnsupportedFormat, "extract", errors.New("txt"))},
			claims: &claimExtractorFake{},
			kind:   domain.ErrUnsupportedFormat,
		},
		{
			name:   "not a resume",
			text:   &textExtractorFake{text: domain.ExtractedText{Cleaned: "hello"}},
			claims: &claimExtractorFake{checkErr: domain.WrapError(domain.ErrNotAResume, "check", errors.New("0 signals"))},
			kind:   domain.ErrNotAResume,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newTestPipeline(tc.text, tc.claims, PipelineConfig{}).ExtractClaims(context.Background(), nil, "pdf")
			if !domain.IsKind(err, tc.kind) {
				t.Fatalf("ExtractClaims() error = %v, want kind %v", err, tc.kind)
			}
		})
	}
}

func TestVerifyMergesSourcesAndIsolatesFailures(t *testing.T) {
	codeHost := &sourceFake{
		kind:     domain.SourceCodeHost,
		raw:      domain.RawEvidence{Repositories: []domain.Repository{{Name: "api"}}, Contributions: 500},
		skills:   []string{"go"},
		projects: []string{"Weather Dashboard"},
	}
	social := &sourceFake{kind: domain.SourceSocial, err: errors.New("rate limited")}
	professional := &sourceFake{kind: domain.SourceProfessional, panicMsg: "boom"}
	observer := &observerFake{}

	p := newTestPipeline(&textExtractorFake{}, &claimExtractorFake{}, PipelineConfig{Observer: observer}, codeHost, social, professional)
	claims := domain.Claims{
		Skills:           []string{"Go", "Rust"},
		Projects:         []domain.Project{{Name: "Weather Dashboard"}, {Name: "Chess Engine"}},
		CodeHostUsername: "from-resume",
		SocialUsername:   "tweeter",
		ProfileUsername:  "jane",
	}

	got := p.Verify(context.Background(), claims, domain.Usernames{CodeHost: "override"})

	if diff := cmp.Diff([]string{"override"}, codeHost.calledWith()); diff != "" {
		t.Fatalf("code host usernames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Go"}, got.VerifiedSkills); diff != "" {
		t.Fatalf("verified skills mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Rust"}, got.UnverifiedSkills); diff != "" {
		t.Fatalf("unverified skills mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Chess Engine"}, got.UnverifiedProjects); diff != "" {
		t.Fatalf("unverified projects mismatch (-want +got):\n%s", diff)
	}
	if len(got.Sources) != 3 {
		t.Fatalf("sources = %d, want 3", len(got.Sources))
	}
	for _, kind := range []domain.SourceKind{domain.SourceSocial, domain.SourceProfessional} {
		snap := got.Sources[kind]
		if !strings.Contains(snap.Error, domain.ErrSourceUnavailable.Error()) {
			t.Fatalf("%s error = %q, want source unavailable", kind, snap.Error)
		}
		if len(snap.VerifiedSkills) != 0 || snap.Proof == nil {
			t.Fatalf("%s snapshot = %+v, want empty error snapshot", kind, snap)
		}
	}
	want := map[domain.SourceKind]string{
		domain.SourceCodeHost:     OutcomeOK,
		domain.SourceSocial:       OutcomeError,
		domain.SourceProfessional: OutcomeError,
	}
	if diff := cmp.Diff(want, observer.outcomes); diff != "" {
		t.Fatalf("observer outcomes mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyDeduplicatesClaimsBeforeMatching(t *testing.T) {
	codeHost := &sourceFake{kind: domain.SourceCodeHost, skills: []string{"go"}, projects: []string{"chess engine"}}
	p := newTestPipeline(&textExtractorFake{}, &claimExtractorFake{}, PipelineConfig{}, codeHost)
	claims := domain.Claims{
		Skills:   []string{"Go", "go", "Python", " GO"},
		Projects: []domain.Project{{Name: "Chess Engine"}, {Name: "chess engine"}},
	}

	got := p.Verify(context.Background(), claims, domain.Usernames{CodeHost: "jane"})

	if n := len(got.VerifiedSkills) + len(got.UnverifiedSkills); n != 2 {
		t.Fatalf("skill buckets hold %d claims, want 2", n)
	}
	if diff := cmp.Diff([]string{"Go"}, got.Sources[domain.SourceCodeHost].VerifiedSkills); diff != "" {
		t.Fatalf("snapshot skills mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Chess Engine"}, got.VerifiedProjects); diff != "" {
		t.Fatalf("verified projects mismatch (-want +got):\n%s", diff)
	}
	if len(claims.Skills) != 4 {
		t.Fatalf("caller claims mutated: %v", claims.Skills)
	}
}

func TestVerifySkipsSourcesWithoutUsername(t *testing.T) {
	codeHost := &sourceFake{kind: domain.SourceCodeHost}
	social := &sourceFake{kind: domain.SourceSocial}
	p := newTestPipeline(&textExtractorFake{}, &claimExtractorFake{}, PipelineConfig{}, codeHost, social)

	got := p.Verify(context.Background(), domain.Claims{Skills: []string{"Go"}, SocialUsername: "janecodes"}, domain.Usernames{})

	if len(codeHost.calledWith()) != 0 {
		t.Fatalf("code host called with %v, want no call", codeHost.calledWith())
	}
	if _, ok := got.Snapshot(domain.SourceCodeHost); ok {
		t.Fatalf("snapshot present for skipped source")
	}
	if _, ok := got.Snapshot(domain.SourceSocial); !ok {
		t.Fatalf("snapshot missing for queried source")
	}
}

func TestVerifyAppliesPerSourceTimeout(t *testing.T) {
	slow := &sourceFake{kind: domain.SourceCodeHost, delay: time.Second}
	p := newTestPipeline(&textExtractorFake{}, &claimExtractorFake{}, PipelineConfig{SourceTimeout: 20 * time.Millisecond}, slow)

	started := time.Now()
	got := p.Verify(context.Background(), domain.Claims{}, domain.Usernames{CodeHost: "jane"})
	if elapsed := time.Since(started); elapsed > 500*time.Millisecond {
		t.Fatalf("Verify() took %v, want the source timeout to cut it short", elapsed)
	}
	if !strings.Contains(got.Sources[domain.SourceCodeHost].Error, context.DeadlineExceeded.Error()) {
		t.Fatalf("error = %q, want deadline exceeded", got.Sources[domain.SourceCodeHost].Error)
	}
}

func TestVerifyFlagsUnknownUser(t *testing.T) {
	missing := &sourceFake{
		kind: domain.SourceCodeHost,
		err:  domain.WrapError(domain.ErrUserNotFound, "github.fetch", errors.New("404")),
	}
	observer := &observerFake{}
	p := newTestPipeline(&textExtractorFake{}, &claimExtractorFake{}, PipelineConfig{Observer: observer}, missing)

	got := p.Verify(context.Background(), domain.Claims{}, domain.Usernames{CodeHost: "ghost"})
	snap := got.Sources[domain.SourceCodeHost]
	if !snap.Evidence.UserNotFound || snap.Error == "" {
		t.Fatalf("snapshot = %+v, want user-not-found error snapshot", snap)
	}
	if observer.outcomes[domain.SourceCodeHost] != OutcomeNotFound {
		t.Fatalf("outcome = %q", observer.outcomes[domain.SourceCodeHost])
	}
}

func TestScoreCodeHostSnapshot(t *testing.T) {
	source := &sourceFake{
		kind: domain.SourceCodeHost,
		raw: domain.RawEvidence{
			Repositories:  []domain.Repository{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}},
			Languages:     map[string]int{"Go": 2, "Python": 1, "Rust": 1},
			Contributions: 500,
		},
		skills:   []string{"Go", "Python"},
		projects: []string{"a"},
	}
	p := newTestPipeline(&textExtractorFake{}, &claimExtractorFake{}, PipelineConfig{}, source)
	claims := domain.Claims{Skills: []string{"Go", "Python"}, Projects: []domain.Project{{Name: "a"}}}

	score := p.Score(p.Verify(context.Background(), claims, domain.Usernames{CodeHost: "jane"}))
	if score.CodeHost != 64 {
		t.Fatalf("code host score = %v, want 64", score.CodeHost)
	}
	if score.SkillsRatio != 100 || score.ProjectsRatio != 100 {
		t.Fatalf("ratios = %v/%v, want 100/100", score.SkillsRatio, score.ProjectsRatio)
	}
}
