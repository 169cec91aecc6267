// Package github looks up a user's public repositories and matches claimed
// skills and projects against them.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/matching"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
	maxPages       = 30

	// The REST API exposes no contribution count; this is a flat estimate.
	estimatedContributions = 500
)

type config struct {
	baseURL        string
	token          string
	logger         *slog.Logger
	client         *evidence.Client
	tables         *matching.Tables
	mockOnNotFound bool
	mockOnly       bool
}

// Option configures a Source.
type Option func(*config)

func WithBaseURL(u string) Option {
	return func(c *config) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithToken(token string) Option {
	return func(c *config) { c.token = strings.TrimSpace(token) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func WithClient(client *evidence.Client) Option {
	return func(c *config) { c.client = client }
}

func WithTables(t *matching.Tables) Option {
	return func(c *config) { c.tables = t }
}

// WithMockOnNotFound controls whether an unknown user is answered with the
// demo dataset (the default) or reported as not found.
func WithMockOnNotFound(enabled bool) Option {
	return func(c *config) { c.mockOnNotFound = enabled }
}

// WithMockOnly skips the API entirely.
func WithMockOnly(enabled bool) Option {
	return func(c *config) { c.mockOnly = enabled }
}

type Source struct {
	cfg config
}

func New(opts ...Option) *Source {
	cfg := config{
		baseURL:        defaultBaseURL,
		mockOnNotFound: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.client == nil {
		cfg.client = evidence.NewClient(evidence.DefaultClientConfig(), cfg.logger)
	}
	if cfg.tables == nil {
		cfg.tables = matching.DefaultTables()
	}
	return &Source{cfg: cfg}
}

func (s *Source) Name() domain.SourceKind {
	return domain.SourceCodeHost
}

type apiRepo struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	HTMLURL     string  `json:"html_url"`
	Stars       int     `json:"stargazers_count"`
	Forks       int     `json:"forks_count"`
}

func (s *Source) Fetch(ctx context.Context, username string) (domain.RawEvidence, error) {
	username = strings.TrimSpace(username)
	if username == "" || s.cfg.mockOnly {
		return mockEvidence(username, false), nil
	}

	var repos []domain.Repository
	for page := 1; page <= maxPages; page++ {
		batch, err := s.fetchPage(ctx, username, page)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return domain.RawEvidence{}, ctxErr
			}
			if evidence.StatusCode(err) == http.StatusNotFound {
				if s.cfg.mockOnNotFound {
					s.cfg.logger.InfoContext(ctx, "github_user_not_found_using_mock", "username", username)
					return mockEvidence(username, true), nil
				}
				return domain.RawEvidence{Username: username, UserNotFound: true},
					domain.WrapError(domain.ErrUserNotFound, "github.fetch", err)
			}
			if page == 1 {
				s.cfg.logger.WarnContext(ctx, "github_fetch_failed_using_mock",
					"username", username,
					"status", evidence.StatusCode(err),
					"error", err,
				)
				return mockEvidence(username, false), nil
			}
			s.cfg.logger.WarnContext(ctx, "github_fetch_truncated",
				"username", username,
				"page", page,
				"repositories", len(repos),
				"error", err,
			)
			break
		}
		repos = append(repos, batch...)
		if len(batch) < perPage {
			break
		}
	}

	s.cfg.logger.InfoContext(ctx, "github_repositories_fetched", "username", username, "repositories", len(repos))
	return buildEvidence(username, repos), nil
}

func (s *Source) fetchPage(ctx context.Context, username string, page int) ([]domain.Repository, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=%d&page=%d", s.cfg.baseURL, url.PathEscape(username), perPage, page)
	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")
	if s.cfg.token != "" {
		header.Set("Authorization", "token "+s.cfg.token)
	}

	var payload []apiRepo
	if err := s.cfg.client.GetJSON(ctx, endpoint, header, &payload, "github.list_repos"); err != nil {
		return nil, err
	}
	out := make([]domain.Repository, 0, len(payload))
	for _, r := range payload {
		repo := domain.Repository{
			Name:  r.Name,
			URL:   r.HTMLURL,
			Stars: r.Stars,
			Forks: r.Forks,
		}
		if r.Description != nil {
			repo.Description = *r.Description
		}
		if r.Language != nil {
			repo.Language = *r.Language
		}
		out = append(out, repo)
	}
	return out, nil
}

func buildEvidence(username string, repos []domain.Repository) domain.RawEvidence {
	languages := make(map[string]int)
	for _, r := range repos {
		if r.Language != "" {
			languages[r.Language]++
		}
	}
	return domain.RawEvidence{
		Username:      username,
		Repositories:  repos,
		Languages:     languages,
		Contributions: estimatedContributions,
	}
}

func mockEvidence(username string, notFound bool) domain.RawEvidence {
	raw := buildEvidence(username, MockRepositories())
	raw.Mocked = true
	raw.UserNotFound = notFound
	return raw
}

// IsUserNotFound reports whether err came from an unknown username.
func IsUserNotFound(err error) bool {
	return errors.Is(err, domain.ErrUserNotFound)
}
