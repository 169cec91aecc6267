// Package linkedin resolves a professional profile and matches claims
// against its skills, experience, projects and education.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence"
)

// Profile.Method values.
const (
	MethodMock         = "mock_data"
	MethodRapidAPI     = "rapidapi"
	MethodProxycurl    = "proxycurl"
	MethodURLVerified  = "url_verified"
	MethodMockOnly     = "mock_only"
	MethodMockFallback = "mock_fallback"
)

const (
	defaultRapidAPIURL  = "https://linkedin-profiles1.p.rapidapi.com/profiles"
	rapidAPIHost        = "linkedin-profiles1.p.rapidapi.com"
	defaultProxycurlURL = "https://nubela-proxycurl-api.p.rapidapi.com/api/v2/linkedin"
	defaultProfileURL   = "https://linkedin.com/in/"
	browserUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

type config struct {
	realLookup     bool
	accessToken    string
	rapidAPIKey    string
	proxycurlKey   string
	rapidAPIURL    string
	proxycurlURL   string
	profileURLBase string
	client         *evidence.Client
	logger         *slog.Logger
}

type Option func(*config)

// WithRealLookup enables live lookups. They only run when an access token
// is also configured.
func WithRealLookup(enabled bool, accessToken string) Option {
	return func(c *config) {
		c.realLookup = enabled
		c.accessToken = strings.TrimSpace(accessToken)
	}
}

func WithRapidAPIKey(key string) Option {
	return func(c *config) { c.rapidAPIKey = strings.TrimSpace(key) }
}

func WithProxycurlKey(key string) Option {
	return func(c *config) { c.proxycurlKey = strings.TrimSpace(key) }
}

// WithEndpoints overrides the upstream URLs. Empty values keep the defaults.
func WithEndpoints(rapidAPI, proxycurl, profileBase string) Option {
	return func(c *config) {
		if rapidAPI != "" {
			c.rapidAPIURL = rapidAPI
		}
		if proxycurl != "" {
			c.proxycurlURL = proxycurl
		}
		if profileBase != "" {
			c.profileURLBase = profileBase
		}
	}
}

func WithClient(client *evidence.Client) Option {
	return func(c *config) { c.client = client }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

type Source struct {
	cfg config
}

func New(opts ...Option) *Source {
	cfg := config{
		rapidAPIURL:    defaultRapidAPIURL,
		proxycurlURL:   defaultProxycurlURL,
		profileURLBase: defaultProfileURL,
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
	return &Source{cfg: cfg}
}

func (s *Source) Name() domain.SourceKind {
	return domain.SourceProfessional
}

func (s *Source) Fetch(ctx context.Context, username string) (domain.RawEvidence, error) {
	username = strings.TrimSpace(username)
	if !s.cfg.realLookup || s.cfg.accessToken == "" || username == "" {
		return profileEvidence(username, MockProfile(), true), nil
	}

	type lookup struct {
		method string
		key    string
		fn     func(context.Context, string) (*domain.Profile, error)
	}
	for _, l := range []lookup{
		{MethodRapidAPI, s.cfg.rapidAPIKey, s.viaRapidAPI},
		{MethodProxycurl, s.cfg.proxycurlKey, s.viaProxycurl},
	} {
		if l.key == "" {
			continue
		}
		p, err := l.fn(ctx, username)
		if err == nil {
			p.Method = l.method
			return profileEvidence(username, p, false), nil
		}
		if ctx.Err() != nil {
			return domain.RawEvidence{}, ctx.Err()
		}
		s.cfg.logger.WarnContext(ctx, "linkedin_lookup_failed", "method", l.method, "username", username, "error", err)
	}

	p, err := s.verifyProfileURL(ctx, username)
	if err != nil {
		if ctx.Err() != nil {
			return domain.RawEvidence{}, ctx.Err()
		}
		s.cfg.logger.WarnContext(ctx, "linkedin_url_verification_failed", "username", username, "error", err)
	}
	return profileEvidence(username, p, true), nil
}

func profileEvidence(username string, p *domain.Profile, mocked bool) domain.RawEvidence {
	return domain.RawEvidence{Username: username, Profile: p, Mocked: mocked}
}

func publicURL(username string) string {
	return defaultProfileURL + url.PathEscape(username)
}

func (s *Source) viaRapidAPI(ctx context.Context, username string) (*domain.Profile, error) {
	endpoint := s.cfg.rapidAPIURL + "?profiles=" + url.QueryEscape(publicURL(username))
	header := http.Header{}
	header.Set("X-RapidAPI-Key", s.cfg.rapidAPIKey)
	header.Set("X-RapidAPI-Host", rapidAPIHost)

	var payload struct {
		Profiles []struct {
			Name       string          `json:"name"`
			Headline   string          `json:"headline"`
			Skills     skillList       `json:"skills"`
			Experience []apiExperience `json:"experience"`
		} `json:"profiles"`
	}
	if err := s.cfg.client.GetJSON(ctx, endpoint, header, &payload, "linkedin.rapidapi"); err != nil {
		return nil, err
	}
	if len(payload.Profiles) == 0 {
		return nil, fmt.Errorf("linkedin.rapidapi: no profile returned for %q", username)
	}
	p := payload.Profiles[0]
	return &domain.Profile{
		Name:       p.Name,
		Headline:   p.Headline,
		Skills:     p.Skills,
		Experience: toExperience(p.Experience),
	}, nil
}

func (s *Source) viaProxycurl(ctx context.Context, username string) (*domain.Profile, error) {
	endpoint := s.cfg.proxycurlURL + "?url=" + url.QueryEscape(publicURL(username))
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.cfg.proxycurlKey)

	var payload struct {
		FirstName   string          `json:"first_name"`
		LastName    string          `json:"last_name"`
		Headline    string          `json:"headline"`
		Skills      skillList       `json:"skills"`
		Experiences []apiExperience `json:"experiences"`
	}
	if err := s.cfg.client.GetJSON(ctx, endpoint, header, &payload, "linkedin.proxycurl"); err != nil {
		return nil, err
	}
	return &domain.Profile{
		Name:       strings.TrimSpace(payload.FirstName + " " + payload.LastName),
		Headline:   payload.Headline,
		Skills:     payload.Skills,
		Experience: toExperience(payload.Experiences),
	}, nil
}

type apiExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

func toExperience(in []apiExperience) []domain.ProfileExperience {
	out := make([]domain.ProfileExperience, 0, len(in))
	for _, e := range in {
		out = append(out, domain.ProfileExperience(e))
	}
	return out
}

// skillList accepts both ["Go"] and [{"name":"Go"}].
type skillList []string

func (l *skillList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		var name string
		if err := json.Unmarshal(item, &name); err == nil {
			out = append(out, name)
			continue
		}
		var obj struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		out = append(out, obj.Name)
	}
	*l = out
	return nil
}
