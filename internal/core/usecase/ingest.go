package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
)

var supportedExtensions = map[string]struct{}{
	"pdf":  {},
	"docx": {},
}

type IngestResumeUseCase struct {
	repo    ports.ResumeRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestResumeUseCase(
	repo ports.ResumeRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestResumeUseCase {
	return &IngestResumeUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

// Upload stores the document, records it as uploaded and queues it for
// processing. Unsupported formats are rejected before anything is written.
func (uc *IngestResumeUseCase) Upload(ctx context.Context, req ports.UploadRequest) (*domain.Resume, error) {
	ext := fileExtension(req.Filename)
	if _, ok := supportedExtensions[ext]; !ok {
		return nil, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"upload resume",
			fmt.Errorf("extension %q is not one of pdf, docx", ext),
		)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(req.Filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, req.Body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	resume := &domain.Resume{
		ID:          id,
		Filename:    req.Filename,
		MimeType:    req.MimeType,
		StoragePath: storageKey,
		Usernames:   req.Usernames.Resolve(domain.Claims{}),
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, resume); err != nil {
		return nil, fmt.Errorf("create resume record: %w", err)
	}

	if err := uc.queue.PublishResumeIngested(ctx, resume.ID); err != nil {
		return nil, fmt.Errorf("publish ingestion event: %w", err)
	}

	return resume, nil
}

func fileExtension(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(name))), ".")
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." {
		return "resume.bin"
	}
	return base
}
