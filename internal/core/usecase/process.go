package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
)

const maxDocumentBytes = 20 << 20

// ProcessResumeUseCase moves an uploaded resume through
// processing -> verifying -> ready, or to failed.
type ProcessResumeUseCase struct {
	repo     ports.ResumeRepository
	storage  ports.ObjectStorage
	pipeline ports.ClaimPipeline
}

func NewProcessResumeUseCase(
	repo ports.ResumeRepository,
	storage ports.ObjectStorage,
	pipeline ports.ClaimPipeline,
) *ProcessResumeUseCase {
	return &ProcessResumeUseCase{
		repo:     repo,
		storage:  storage,
		pipeline: pipeline,
	}
}

func (uc *ProcessResumeUseCase) ProcessByID(ctx context.Context, resumeID string) error {
	if err := uc.markStatus(ctx, resumeID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	if err := uc.process(ctx, resumeID); err != nil {
		if failErr := uc.markFailed(ctx, resumeID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, resumeID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

func (uc *ProcessResumeUseCase) process(ctx context.Context, resumeID string) error {
	resume, err := uc.repo.GetByID(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("fetch resume by id: %w", err)
	}

	content, err := uc.readDocument(ctx, resume.StoragePath)
	if err != nil {
		return err
	}

	claims, err := uc.pipeline.ExtractClaims(ctx, content, fileExtension(resume.Filename))
	if err != nil {
		return fmt.Errorf("extract claims: %w", err)
	}
	if err := uc.repo.SaveClaims(ctx, resumeID, claims); err != nil {
		return fmt.Errorf("save claims: %w", err)
	}

	if err := uc.markStatus(ctx, resumeID, domain.StatusVerifying, ""); err != nil {
		return fmt.Errorf("set status=verifying: %w", err)
	}

	result := uc.pipeline.Verify(ctx, claims, resume.Usernames)
	score := uc.pipeline.Score(result)
	if err := uc.repo.SaveVerification(ctx, resumeID, result, score); err != nil {
		return fmt.Errorf("save verification: %w", err)
	}
	return nil
}

func (uc *ProcessResumeUseCase) readDocument(ctx context.Context, key string) ([]byte, error) {
	rc, err := uc.storage.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open stored document: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read stored document: %w", err)
	}
	return content, nil
}

func (uc *ProcessResumeUseCase) markStatus(ctx context.Context, resumeID string, status domain.ResumeStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, resumeID, status, errMessage)
}

func (uc *ProcessResumeUseCase) markFailed(ctx context.Context, resumeID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, resumeID, domain.StatusFailed, processErr.Error())
}
