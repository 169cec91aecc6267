package claims

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const handle = `([\w.-]+)`

// Patterns are ordered: profile URL, "Label: value", "Label - value",
// "@handle (Label)".
var (
	codeHostPatterns = compileAll(
		`(?i)github\.com/`+handle,
		`(?i)github\s+username\s*:\s*`+handle,
		`(?i)github\s*:\s*@?`+handle,
		`(?i)github\s+-\s+@?`+handle,
		`(?i)@`+handle+`\s*\(?\s*github\b`,
	)
	socialPatterns = compileAll(
		`(?i)(?:twitter|x)\.com/`+handle,
		`(?i)twitter\s+username\s*:\s*@?`+handle,
		`(?i)(?:twitter|\bx)\s*:\s*@?`+handle,
		`(?i)twitter\s+-\s+@?`+handle,
		`(?i)@`+handle+`\s*\(?\s*twitter\b`,
	)
	profilePatterns = compileAll(
		`(?i)linkedin\.com/in/`+handle,
		`(?i)linkedin\s+username\s*:\s*`+handle,
		`(?i)linkedin\s*:\s*@?`+handle,
		`(?i)linkedin\s+-\s+@?`+handle,
		`(?i)@`+handle+`\s*\(?\s*linkedin\b`,
	)

	codeHostDenylist = []string{"com", "www", "http", "https", "github"}
	socialDenylist   = []string{"com", "www", "http", "https", "twitter", "x", "educa", "education", "tion", "ion"}
	profileDenylist  = []string{"com", "www", "http", "https", "linkedin", "in"}
)

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// extractUsername returns the first pattern match that survives the denylist.
// A rejected match falls through to the next pattern.
func extractUsername(text string, patterns []*regexp.Regexp, denylist []string, minLen int) string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		username := strings.Trim(m[1], ".")
		if username == "" || utf8.RuneCountInString(username) < minLen {
			continue
		}
		if denied(username, denylist) {
			continue
		}
		return username
	}
	return ""
}

func denied(username string, denylist []string) bool {
	lower := strings.ToLower(username)
	for _, d := range denylist {
		if lower == d {
			return true
		}
	}
	return false
}
