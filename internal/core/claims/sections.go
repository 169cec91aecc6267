package claims

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// section is the body that follows a recognised heading, up to the next
// terminating heading or the end of the text.
type section struct {
	Heading string
	Start   int
	End     int
	Body    string
}

// headingPattern matches a line made of one of the given phrases, optionally
// followed by a colon and inline content. Phrases are tried longest first.
func headingPattern(phrases []string) *regexp.Regexp {
	sorted := append([]string(nil), phrases...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	alts := make([]string, 0, len(sorted))
	for _, p := range sorted {
		words := strings.Fields(p)
		for i := range words {
			words[i] = regexp.QuoteMeta(words[i])
		}
		alts = append(alts, strings.Join(words, `[ \t]+`))
	}
	return regexp.MustCompile(`(?im)^[ \t]*(?:` + strings.Join(alts, "|") + `)[ \t]*(?::|&|$)`)
}

func findSections(text string, heading, terminator *regexp.Regexp) []section {
	var out []section
	for _, loc := range heading.FindAllStringIndex(text, -1) {
		start := loc[1]
		end := len(text)
		if next := terminator.FindStringIndex(text[start:]); next != nil {
			end = start + next[0]
		}
		out = append(out, section{
			Heading: strings.TrimSpace(text[loc[0]:loc[1]]),
			Start:   start,
			End:     end,
			Body:    text[start:end],
		})
	}
	return out
}

func without(terms []string, drop ...string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := skip[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

func union(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range lists {
		for _, t := range l {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func containsWord(s string, words []string) bool {
	for _, w := range strings.FieldsFunc(strings.ToLower(s), isWordSeparator) {
		for _, candidate := range words {
			if w == candidate || w == candidate+"s" {
				return true
			}
		}
	}
	return false
}

func isWordSeparator(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '+' || r == '#')
}
