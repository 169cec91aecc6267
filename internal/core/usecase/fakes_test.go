package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

type statusCall struct {
	status domain.ResumeStatus
	errMsg string
}

type resumeRepoFake struct {
	mu            sync.Mutex
	resume        *domain.Resume
	created       *domain.Resume
	createErr     error
	getErr        error
	saveErr       error
	failStatusErr error
	statusCalls   []statusCall
}

func (f *resumeRepoFake) Create(_ context.Context, r *domain.Resume) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *r
	f.created = &cp
	return nil
}

func (f *resumeRepoFake) GetByID(_ context.Context, id string) (*domain.Resume, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.resume == nil || f.resume.ID != id {
		return nil, domain.WrapError(domain.ErrResumeNotFound, "get resume", errors.New(id))
	}
	cp := *f.resume
	return &cp, nil
}

func (f *resumeRepoFake) UpdateStatus(_ context.Context, _ string, status domain.ResumeStatus, errMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.resume != nil {
		f.resume.Status = status
	}
	return nil
}

func (f *resumeRepoFake) SaveClaims(_ context.Context, _ string, claims domain.Claims) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.resume.Claims = &claims
	return nil
}

func (f *resumeRepoFake) SaveVerification(_ context.Context, _ string, result domain.VerificationResult, score domain.ScoreBreakdown) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.resume.Verification = &result
	f.resume.Score = &score
	return nil
}

func (f *resumeRepoFake) statuses() []domain.ResumeStatus {
	out := make([]domain.ResumeStatus, 0, len(f.statusCalls))
	for _, c := range f.statusCalls {
		out = append(out, c.status)
	}
	return out
}

type storageFake struct {
	savedKey  string
	savedBody string
	content   string
	saveErr   error
	openErr   error
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.savedKey = key
	f.savedBody = string(raw)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return io.NopCloser(strings.NewReader(f.content)), nil
}

type queueFake struct {
	resumeID string
	err      error
}

func (f *queueFake) PublishResumeIngested(_ context.Context, resumeID string) error {
	if f.err != nil {
		return f.err
	}
	f.resumeID = resumeID
	return nil
}

func (f *queueFake) SubscribeResumeIngested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

type textExtractorFake struct {
	text    domain.ExtractedText
	err     error
	lastExt string
}

func (f *textExtractorFake) Extract(_ context.Context, doc domain.RawDocument) (domain.ExtractedText, error) {
	f.lastExt = doc.Extension
	if f.err != nil {
		return domain.ExtractedText{}, f.err
	}
	return f.text, nil
}

type claimExtractorFake struct {
	claims   domain.Claims
	checkErr error
	lastText string
	lastRaw  string
}

func (f *claimExtractorFake) Extract(_ context.Context, text string) domain.Claims {
	f.lastText = text
	return f.claims
}

func (f *claimExtractorFake) CheckResume(_ domain.Claims, raw string) error {
	f.lastRaw = raw
	return f.checkErr
}

type sourceFake struct {
	kind     domain.SourceKind
	raw      domain.RawEvidence
	err      error
	delay    time.Duration
	panicMsg string
	skills   []string
	projects []string

	mu    sync.Mutex
	users []string
}

func (f *sourceFake) Name() domain.SourceKind { return f.kind }

func (f *sourceFake) Fetch(ctx context.Context, username string) (domain.RawEvidence, error) {
	f.mu.Lock()
	f.users = append(f.users, username)
	f.mu.Unlock()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.RawEvidence{}, ctx.Err()
		}
	}
	if f.err != nil {
		return domain.RawEvidence{}, f.err
	}
	raw := f.raw
	raw.Username = username
	return raw, nil
}

func (f *sourceFake) Match(skills, projects []string, _ domain.RawEvidence) domain.MatchResult {
	res := domain.NewMatchResult()
	for _, s := range skills {
		for _, v := range f.skills {
			if strings.EqualFold(s, v) {
				res.AddSkill(s, "fake proof")
			}
		}
	}
	for _, p := range projects {
		for _, v := range f.projects {
			if strings.EqualFold(p, v) {
				res.AddProject(p, "fake proof")
			}
		}
	}
	return res
}

func (f *sourceFake) calledWith() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.users...)
}

type observerFake struct {
	mu       sync.Mutex
	outcomes map[domain.SourceKind]string
}

func (f *observerFake) ObserveSourceFetch(source domain.SourceKind, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outcomes == nil {
		f.outcomes = map[domain.SourceKind]string{}
	}
	f.outcomes[source] = outcome
}

type notifierFake struct {
	sent []domain.Invite
	err  error
}

func (f *notifierFake) SendInvite(_ context.Context, invite domain.Invite) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, invite)
	return nil
}
