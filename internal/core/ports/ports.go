package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

// ResumeRepository persists and reads resume state.
type ResumeRepository interface {
	Create(ctx context.Context, resume *domain.Resume) error
	GetByID(ctx context.Context, id string) (*domain.Resume, error)
	UpdateStatus(ctx context.Context, id string, status domain.ResumeStatus, errMessage string) error
	SaveClaims(ctx context.Context, id string, claims domain.Claims) error
	SaveVerification(ctx context.Context, id string, result domain.VerificationResult, score domain.ScoreBreakdown) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes resume ingestion events.
type MessageQueue interface {
	PublishResumeIngested(ctx context.Context, resumeID string) error
	SubscribeResumeIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns an uploaded document into cleaned text.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.RawDocument) (domain.ExtractedText, error)
}

// ClaimExtractor parses cleaned text into claims. Extract never fails;
// CheckResume rejects text that does not look like a resume at all.
type ClaimExtractor interface {
	Extract(ctx context.Context, text string) domain.Claims
	CheckResume(claims domain.Claims, raw string) error
}

// EvidenceSource fetches external evidence for one username and matches claims against it.
type EvidenceSource interface {
	Name() domain.SourceKind
	Fetch(ctx context.Context, username string) (domain.RawEvidence, error)
	Match(skills, projects []string, evidence domain.RawEvidence) domain.MatchResult
}

// SourceObserver records the outcome of each evidence lookup.
type SourceObserver interface {
	ObserveSourceFetch(source domain.SourceKind, outcome string, duration time.Duration)
}

// Notifier delivers interview invitations.
type Notifier interface {
	SendInvite(ctx context.Context, invite domain.Invite) error
}

// ReportRenderer writes a verification report for a scored resume.
type ReportRenderer interface {
	Render(ctx context.Context, resume *domain.Resume, w io.Writer) error
	ContentType() string
}
