package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
)

// ResumeQueryUseCase serves reads and synchronous re-verification of
// stored resumes.
type ResumeQueryUseCase struct {
	repo     ports.ResumeRepository
	pipeline ports.ClaimPipeline
	report   ports.ReportRenderer
}

func NewResumeQueryUseCase(
	repo ports.ResumeRepository,
	pipeline ports.ClaimPipeline,
	report ports.ReportRenderer,
) *ResumeQueryUseCase {
	return &ResumeQueryUseCase{repo: repo, pipeline: pipeline, report: report}
}

func (uc *ResumeQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	return uc.repo.GetByID(ctx, id)
}

// VerifyByID re-runs verification for a resume whose claims are already
// extracted. Non-empty usernames override the stored ones.
func (uc *ResumeQueryUseCase) VerifyByID(ctx context.Context, id string, usernames domain.Usernames) (*domain.Resume, error) {
	resume, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resume.Claims == nil {
		return nil, domain.WrapError(
			domain.ErrVerificationNotReady,
			"verify resume",
			fmt.Errorf("resume %s is %s", id, resume.Status),
		)
	}

	merged := mergeUsernames(resume.Usernames, usernames)
	result := uc.pipeline.Verify(ctx, *resume.Claims, merged)
	score := uc.pipeline.Score(result)
	if err := uc.repo.SaveVerification(ctx, id, result, score); err != nil {
		return nil, fmt.Errorf("save verification: %w", err)
	}

	resume.Usernames = merged
	resume.Verification = &result
	resume.Score = &score
	resume.UpdatedAt = time.Now().UTC()
	return resume, nil
}

// RenderReport writes the verification report for a ready resume.
func (uc *ResumeQueryUseCase) RenderReport(ctx context.Context, id string, w io.Writer) error {
	if uc.report == nil {
		return errors.New("report renderer is not configured")
	}
	resume, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if resume.Verification == nil || resume.Score == nil {
		return domain.WrapError(
			domain.ErrVerificationNotReady,
			"render report",
			fmt.Errorf("resume %s is %s", id, resume.Status),
		)
	}
	return uc.report.Render(ctx, resume, w)
}

func (uc *ResumeQueryUseCase) ReportContentType() string {
	if uc.report == nil {
		return "application/octet-stream"
	}
	return uc.report.ContentType()
}

func mergeUsernames(stored, override domain.Usernames) domain.Usernames {
	out := stored
	v := override.Resolve(domain.Claims{})
	if v.CodeHost != "" {
		out.CodeHost = v.CodeHost
	}
	if v.Social != "" {
		out.Social = v.Social
	}
	if v.Professional != "" {
		out.Professional = v.Professional
	}
	return out
}
