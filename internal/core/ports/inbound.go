package ports

import (
	"context"
	"io"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

// UploadRequest is an uploaded resume plus optional account overrides.
type UploadRequest struct {
	Filename  string
	MimeType  string
	Body      io.Reader
	Usernames domain.Usernames
}

// ResumeIngestor is the inbound contract for resume upload orchestration.
type ResumeIngestor interface {
	Upload(ctx context.Context, req UploadRequest) (*domain.Resume, error)
}

// ResumeReader is the inbound read model for resume state.
type ResumeReader interface {
	GetByID(ctx context.Context, id string) (*domain.Resume, error)
}

// ResumeProcessor is the inbound contract for asynchronous resume processing.
type ResumeProcessor interface {
	ProcessByID(ctx context.Context, resumeID string) error
}

// ResumeVerifier re-runs verification for a processed resume with the given usernames.
type ResumeVerifier interface {
	VerifyByID(ctx context.Context, resumeID string, usernames domain.Usernames) (*domain.Resume, error)
}

// ClaimPipeline is the transport-independent core: extract, verify, score.
type ClaimPipeline interface {
	ExtractClaims(ctx context.Context, content []byte, extension string) (domain.Claims, error)
	Verify(ctx context.Context, claims domain.Claims, usernames domain.Usernames) domain.VerificationResult
	Score(result domain.VerificationResult) domain.ScoreBreakdown
}

// InviteSender invites the candidate of a scored resume to an interview.
type InviteSender interface {
	Invite(ctx context.Context, resumeID string, req domain.InviteRequest) (*domain.Invite, error)
}

// ReportExporter renders the verification report of a ready resume.
type ReportExporter interface {
	RenderReport(ctx context.Context, resumeID string, w io.Writer) error
	ReportContentType() string
}
