package matching

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var synonymsYAML []byte

type ActivitySkills struct {
	VersionControl []string `yaml:"version_control"`
	ProblemSolving []string `yaml:"problem_solving"`
}

// Tables is the read-only lookup data shared by every matcher.
type Tables struct {
	Synonyms       map[string][]string `yaml:"synonyms"`
	ActivitySkills ActivitySkills      `yaml:"activity_skills"`
	ImportantWords []string            `yaml:"important_words"`
	FillerWords    []string            `yaml:"filler_words"`

	synonymKeys []string
	important   map[string]struct{}
	filler      map[string]struct{}
}

var (
	tablesOnce    sync.Once
	defaultTables *Tables
)

func DefaultTables() *Tables {
	tablesOnce.Do(func() {
		t, err := ParseTables(synonymsYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded synonym tables are invalid: %v", err))
		}
		defaultTables = t
	})
	return defaultTables
}

func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode synonym tables: %w", err)
	}
	for k := range t.Synonyms {
		t.synonymKeys = append(t.synonymKeys, k)
	}
	sort.Strings(t.synonymKeys)
	t.important = toSet(t.ImportantWords)
	t.filler = toSet(t.FillerWords)
	return &t, nil
}

// RelatedTerms lists every synonym group the skill belongs to, or the skill
// itself when it belongs to none.
func (t *Tables) RelatedTerms(skill string) []string {
	lower := strings.ToLower(strings.TrimSpace(skill))
	var related []string
	for _, key := range t.synonymKeys {
		terms := t.Synonyms[key]
		for _, term := range terms {
			if lower == term || termIn(term, lower) {
				related = append(related, terms...)
				break
			}
		}
	}
	if len(related) == 0 {
		return []string{lower}
	}
	return related
}

// ActivityProof returns the proof line for skills that are accepted on
// overall activity, or "" when the skill is not one of them.
func (t *Tables) ActivityProof(skill string, repos, languages int) string {
	lower := strings.ToLower(skill)
	switch {
	case anyTermIn(t.ActivitySkills.VersionControl, lower):
		return fmt.Sprintf("Demonstrated through %d GitHub repositories and %d programming languages", repos, languages)
	case anyTermIn(t.ActivitySkills.ProblemSolving, lower):
		return fmt.Sprintf("Demonstrated through active GitHub development with %d repositories", repos)
	default:
		return ""
	}
}

// MentionsAny reports whether haystack contains the skill or any related
// term. Both follow the termIn rule, so "C" is not found inside "JavaScript".
func MentionsAny(haystack, skill string, related []string) bool {
	h := strings.ToLower(haystack)
	if h == "" {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(skill)); s != "" && termIn(s, h) {
		return true
	}
	return anyTermIn(related, h)
}

// ContainsTerm is the case-insensitive form of the termIn rule for callers
// outside this package.
func ContainsTerm(s, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return false
	}
	return termIn(term, strings.ToLower(s))
}

func anyTermIn(terms []string, s string) bool {
	for _, term := range terms {
		if termIn(term, s) {
			return true
		}
	}
	return false
}

// termIn is substring containment, except that terms of two letters or
// fewer must appear as whole words.
func termIn(term, s string) bool {
	if len(term) > 2 {
		return strings.Contains(s, term)
	}
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	}) {
		if w == term {
			return true
		}
	}
	return false
}

func toSet(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}
