package linkedin

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence"
)

// Titles LinkedIn serves with a 200 for profiles that do not exist.
var missingProfileTitles = []string{"page not found", "profile not found"}

// verifyProfileURL checks that the public profile page exists. The profile
// content itself still comes from the demo dataset. The returned profile is
// never nil.
func (s *Source) verifyProfileURL(ctx context.Context, username string) (*domain.Profile, error) {
	profileURL := strings.TrimRight(s.cfg.profileURLBase, "/") + "/" + url.PathEscape(username)
	header := http.Header{}
	header.Set("User-Agent", browserUserAgent)

	p := MockProfile()
	body, err := s.cfg.client.Get(ctx, profileURL, header, "linkedin.profile_page")
	if err != nil {
		if evidence.StatusCode(err) != 0 {
			p.Method = MethodMockOnly
			return p, nil
		}
		p.Method = MethodMockFallback
		return p, err
	}

	title := strings.ToLower(pageTitle(body))
	for _, missing := range missingProfileTitles {
		if strings.Contains(title, missing) {
			p.Method = MethodMockOnly
			return p, nil
		}
	}
	p.Method = MethodURLVerified
	p.ProfileURL = profileURL
	return p, nil
}

// pageTitle returns the text of the first <title> element, or "".
func pageTitle(body []byte) string {
	z := html.NewTokenizer(bytes.NewReader(body))
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = atom.Lookup(name) == atom.Title
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text()))
			}
		case html.EndTagToken:
			inTitle = false
		}
	}
}
