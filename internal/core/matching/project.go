// Package matching decides whether a claimed project or skill is backed by
// a piece of evidence such as a repository.
package matching

import (
	"regexp"
	"strings"
)

type MatchType string

const (
	MatchNone        MatchType = ""
	MatchExact       MatchType = "exact"
	MatchContains    MatchType = "contains"
	MatchDescription MatchType = "description"
)

var (
	nonNameChars  = regexp.MustCompile(`[^a-z0-9\s\-_]`)
	separatorRuns = regexp.MustCompile(`[\s_]+`)
	hyphenRuns    = regexp.MustCompile(`-+`)
)

// NormalizeName lower-cases name, drops punctuation and joins words with
// single hyphens.
func NormalizeName(name string) string {
	n := nonNameChars.ReplaceAllString(strings.ToLower(name), "")
	n = separatorRuns.ReplaceAllString(n, "-")
	n = hyphenRuns.ReplaceAllString(n, "-")
	return strings.Trim(n, "-")
}

// Variants returns the spellings a project or repository name is commonly
// written in. Names longer than 50 characters also yield hyphen, underscore
// and joined combinations of their key terms.
func (t *Tables) Variants(name string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	lower := strings.ToLower(name)
	base := NormalizeName(name)
	variants := []string{
		lower,
		base,
		strings.ReplaceAll(base, "-", ""),
		strings.ReplaceAll(base, "-", "_"),
		strings.ReplaceAll(base, "-", " "),
	}
	if strings.Contains(name, " ") {
		variants = append(variants,
			strings.ReplaceAll(lower, " ", "-"),
			strings.ReplaceAll(lower, " ", "_"),
			strings.ReplaceAll(lower, " ", ""),
		)
	}
	if len(name) > 50 {
		variants = append(variants, t.keyTermCombos(lower)...)
	}
	return dedupe(variants)
}

func (t *Tables) keyTermCombos(lower string) []string {
	var keys []string
	for _, w := range strings.Fields(lower) {
		if _, skip := t.filler[w]; skip {
			continue
		}
		if _, ok := t.important[w]; ok || len(w) > 4 {
			keys = append(keys, w)
		}
	}
	if len(keys) < 2 {
		return nil
	}
	var out []string
	for i := 0; i+1 < len(keys); i++ {
		pair := keys[i] + "-" + keys[i+1]
		out = append(out, pair, strings.ReplaceAll(pair, "-", ""), strings.ReplaceAll(pair, "-", "_"))
	}
	if len(keys) >= 3 {
		triple := keys[0] + "-" + keys[1] + "-" + keys[2]
		out = append(out, triple, strings.ReplaceAll(triple, "-", ""))
	}
	return out
}

// MatchProject compares a claimed project with one repository. Checks run
// from strongest to weakest and the first hit decides the type.
func (t *Tables) MatchProject(project, repoName, repoDescription string) MatchType {
	project = strings.TrimSpace(project)
	repoName = strings.TrimSpace(repoName)
	if project == "" || repoName == "" {
		return MatchNone
	}

	repoVariants := toSet(t.Variants(repoName))
	for _, v := range t.Variants(project) {
		if _, ok := repoVariants[v]; ok {
			return MatchExact
		}
	}

	if containsMatch(project, repoName) {
		return MatchContains
	}

	if repoDescription != "" && strings.Contains(strings.ToLower(repoDescription), strings.ToLower(project)) {
		return MatchDescription
	}
	return MatchNone
}

func containsMatch(project, repo string) bool {
	p := strings.ToLower(project)
	r := strings.ToLower(repo)
	switch {
	case strings.Contains(r, p) || strings.Contains(p, r):
		return true
	case len(strings.Fields(p)) > 1 && wordSubset(strings.Fields(p), strings.Fields(r)):
		return true
	case NormalizeName(project) == NormalizeName(repo):
		return true
	default:
		return strings.HasPrefix(r, p+"-") || strings.HasPrefix(r, p+"_") ||
			strings.HasSuffix(r, "-"+p) || strings.HasSuffix(r, "_"+p)
	}
}

func wordSubset(sub, super []string) bool {
	set := toSet(super)
	for _, w := range sub {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
