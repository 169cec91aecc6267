package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
)

const (
	inviteSubject        = "Interview Invitation - Reality Check"
	defaultInviteMessage = "We were impressed with your qualifications and would like to invite you for an interview."
	maxInviteFieldLen    = 2000
)

var inviteTemplate = template.Must(template.New("invite").Parse(`<html>
<body>
<h2>Interview Invitation</h2>
<p>Dear {{.Name}},</p>
<p>{{.Message}}</p>
<p>Your Reality Score: <strong>{{printf "%.1f" .Score}}/100</strong></p>
{{- if .Date}}
<p><strong>Interview Date:</strong> {{.Date}}</p>
{{- end}}
{{- if .Location}}
<p><strong>Interview Location:</strong> {{.Location}}</p>
{{- end}}
<p>Please confirm your availability by replying to this email.</p>
<p>Best regards,<br>Recruitment Team</p>
</body>
</html>
`))

type InviteUseCase struct {
	repo     ports.ResumeRepository
	notifier ports.Notifier
	policy   *bluemonday.Policy
	now      func() time.Time
}

func NewInviteUseCase(repo ports.ResumeRepository, notifier ports.Notifier) *InviteUseCase {
	return &InviteUseCase{
		repo:     repo,
		notifier: notifier,
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
	}
}

// Invite sends an interview invitation to the candidate of a scored resume.
// Recruiter text is stripped of markup before it is rendered.
func (uc *InviteUseCase) Invite(ctx context.Context, resumeID string, req domain.InviteRequest) (*domain.Invite, error) {
	resume, err := uc.repo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, err
	}
	if resume.Claims == nil || resume.Score == nil {
		return nil, domain.WrapError(domain.ErrVerificationNotReady, "send invite",
			fmt.Errorf("resume %s has no score yet", resumeID))
	}

	addr, err := candidateEmail(resume.Claims.Email)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "send invite", err)
	}

	invite := &domain.Invite{
		ID:        uuid.NewString(),
		ResumeID:  resumeID,
		Email:     addr,
		Name:      uc.clean(resume.Claims.Name),
		Score:     resume.Score.Final,
		Message:   uc.clean(req.Message),
		Date:      uc.clean(req.Date),
		Location:  uc.clean(req.Location),
		Subject:   inviteSubject,
		CreatedAt: uc.now().UTC(),
	}
	if invite.Name == "" {
		invite.Name = "Candidate"
	}
	if invite.Message == "" {
		invite.Message = defaultInviteMessage
	}

	var body bytes.Buffer
	if err := inviteTemplate.Execute(&body, invite); err != nil {
		return nil, fmt.Errorf("render invite: %w", err)
	}
	invite.HTMLBody = body.String()

	if err := uc.notifier.SendInvite(ctx, *invite); err != nil {
		return nil, fmt.Errorf("send invite: %w", err)
	}
	return invite, nil
}

// clean drops markup; the template escapes what remains.
func (uc *InviteUseCase) clean(s string) string {
	s = strings.TrimSpace(html.UnescapeString(uc.policy.Sanitize(s)))
	if r := []rune(s); len(r) > maxInviteFieldLen {
		s = string(r[:maxInviteFieldLen])
	}
	return s
}

func candidateEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("candidate email not available")
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", fmt.Errorf("candidate email %q: %w", raw, err)
	}
	return addr.Address, nil
}
