package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

func storedResume() *domain.Resume {
	return &domain.Resume{
		ID:          "r-1",
		Filename:    "cv.PDF",
		StoragePath: "r-1_cv.PDF",
		Usernames:   domain.Usernames{CodeHost: "janedoe"},
		Status:      domain.StatusUploaded,
	}
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &resumeRepoFake{resume: storedResume()}
	text := &textExtractorFake{text: domain.ExtractedText{Cleaned: "resume", Raw: "resume"}}
	claims := &claimExtractorFake{claims: domain.Claims{Skills: []string{"Go"}}}
	source := &sourceFake{kind: domain.SourceCodeHost, raw: domain.RawEvidence{Contributions: 500}, skills: []string{"Go"}}
	pipeline := NewPipeline(text, claims, nil, PipelineConfig{}, nil)
	pipeline.sources = append(pipeline.sources, source)

	uc := NewProcessResumeUseCase(repo, &storageFake{content: "%PDF"}, pipeline)
	if err := uc.ProcessByID(context.Background(), "r-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}

	want := []domain.ResumeStatus{domain.StatusProcessing, domain.StatusVerifying, domain.StatusReady}
	if diff := cmp.Diff(want, repo.statuses()); diff != "" {
		t.Fatalf("status transitions mismatch (-want +got):\n%s", diff)
	}
	if text.lastExt != "pdf" {
		t.Fatalf("extension = %q, want pdf", text.lastExt)
	}
	if diff := cmp.Diff([]string{"janedoe"}, source.calledWith()); diff != "" {
		t.Fatalf("source usernames mismatch (-want +got):\n%s", diff)
	}
	if repo.resume.Score == nil || repo.resume.Verification == nil {
		t.Fatalf("verification not persisted")
	}
	if diff := cmp.Diff([]string{"Go"}, repo.resume.Verification.VerifiedSkills); diff != "" {
		t.Fatalf("verified skills mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessByIDMarksFailed(t *testing.T) {
	cases := []struct {
		name    string
		repo    *resumeRepoFake
		storage *storageFake
		text    *textExtractorFake
		claims  *claimExtractorFake
		want    string
	}{
		{
			name:    "storage",
			repo:    &resumeRepoFake{resume: storedResume()},
			storage: &storageFake{openErr: errors.New("missing object")},
			text:    &textExtractorFake{},
			claims:  &claimExtractorFake{},
			want:    "open stored document",
		},
		{
			name:    "not a resume",
			repo:    &resumeRepoFake{resume: storedResume()},
			storage: &storageFake{content: "%PDF"},
			text:    &textExtractorFake{text: domain.ExtractedText{Cleaned: "grocery list"}},
			claims:  &claimExtractorFake{checkErr: domain.WrapError(domain.ErrNotAResume, "check", errors.New("1 signal"))},
			want:    domain.ErrNotAResume.Error(),
		},
		{
			name:    "save claims",
			repo:    &resumeRepoFake{resume: storedResume(), saveErr: errors.New("db down")},
			storage: &storageFake{content: "%PDF"},
			text:    &textExtractorFake{text: domain.ExtractedText{Cleaned: "resume"}},
			claims:  &claimExtractorFake{},
			want:    "save claims",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pipeline := NewPipeline(tc.text, tc.claims, nil, PipelineConfig{}, nil)
			err := NewProcessResumeUseCase(tc.repo, tc.storage, pipeline).ProcessByID(context.Background(), "r-1")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("ProcessByID() error = %v, want %q", err, tc.want)
			}
			last := tc.repo.statusCalls[len(tc.repo.statusCalls)-1]
			if last.status != domain.StatusFailed || !strings.Contains(last.errMsg, tc.want) {
				t.Fatalf("last status = %+v, want failed with %q", last, tc.want)
			}
		})
	}
}

func TestProcessByIDReportsMarkFailedError(t *testing.T) {
	repo := &resumeRepoFake{resume: storedResume(), failStatusErr: errors.New("status write failed")}
	pipeline := NewPipeline(&textExtractorFake{}, &claimExtractorFake{}, nil, PipelineConfig{}, nil)

	err := NewProcessResumeUseCase(repo, &storageFake{openErr: errors.New("gone")}, pipeline).ProcessByID(context.Background(), "r-1")
	if err == nil || !strings.Contains(err.Error(), "mark failed status") {
		t.Fatalf("ProcessByID() error = %v, want mark failed context", err)
	}
}
