package matching

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatchProject(t *testing.T) {
	tables := DefaultTables()
	tests := []struct {
		name    string
		project string
		repo    string
		desc    string
		want    MatchType
	}{
		{name: "contained in repo name", project: "Questfi", repo: "Questfi-Vietbuild", want: MatchContains},
		{name: "spaced name equals hyphenated repo", project: "Data Roots", repo: "data-roots", want: MatchExact},
		{name: "joined repo name", project: "Profile Auditor", repo: "ProfileAuditor", want: MatchExact},
		{name: "underscore repo name", project: "Reality Score", repo: "reality_score", want: MatchExact},
		{name: "word subset", project: "voting system", repo: "system for voting", want: MatchContains},
		{name: "description only", project: "Tiny Ledger", repo: "ledger-v2", desc: "Source for the Tiny Ledger app", want: MatchDescription},
		{name: "unrelated", project: "Weather Dashboard", repo: "dotfiles", desc: "my configs", want: MatchNone},
		{name: "empty project", project: "  ", repo: "anything", want: MatchNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tables.MatchProject(tt.project, tt.repo, tt.desc); got != tt.want {
				t.Fatalf("MatchProject(%q, %q) = %q, want %q", tt.project, tt.repo, got, tt.want)
			}
		})
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Data Roots":         "data-roots",
		"  Questfi__Build! ": "questfi-build",
		"a - b":              "a-b",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Fatalf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestVariantsForLongNamesIncludeKeyTerms(t *testing.T) {
	name := "Decentralized Data Sharing and Monetization Platform for Researchers"
	variants := DefaultTables().Variants(name)

	for _, want := range []string{"decentralized-data", "data-sharing", "decentralized-data-sharing", "datasharing"} {
		found := false
		for _, v := range variants {
			if v == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("Variants() missing %q in %v", want, variants)
		}
	}
}

func TestRelatedTerms(t *testing.T) {
	tables := DefaultTables()

	got := tables.RelatedTerms("Python")
	if !strings.Contains(strings.Join(got, ","), "django") {
		t.Fatalf("RelatedTerms(Python) = %v, want django included", got)
	}
	if diff := cmp.Diff([]string{"haskell"}, tables.RelatedTerms("Haskell")); diff != "" {
		t.Fatalf("RelatedTerms(Haskell) mismatch (-want +got):\n%s", diff)
	}
}

func TestActivityProof(t *testing.T) {
	tables := DefaultTables()
	if got := tables.ActivityProof("Git", 4, 3); !strings.Contains(got, "4 GitHub repositories") {
		t.Fatalf("ActivityProof(Git) = %q", got)
	}
	if got := tables.ActivityProof("Debugging", 4, 3); got == "" {
		t.Fatal("expected debugging to be accepted on activity")
	}
	if got := tables.ActivityProof("Rust", 4, 3); got != "" {
		t.Fatalf("ActivityProof(Rust) = %q, want empty", got)
	}
}

func TestMentionsAnyShortSkillsNeedWholeWords(t *testing.T) {
	cases := []struct {
		haystack string
		skill    string
		related  []string
		want     bool
	}{
		{haystack: "JavaScript", skill: "C", want: false},
		{haystack: "React + Tailwind CSS", skill: "R", want: false},
		{haystack: "React + Tailwind CSS", skill: "AI", want: false},
		{haystack: "Go", skill: "Go", want: true},
		{haystack: "go-kit service", skill: "Go", want: true},
		{haystack: "Written in C and Rust", skill: "C", want: true},
		{haystack: "ML experiments", skill: "AI", related: []string{"ml"}, want: true},
		{haystack: "", skill: "Go", want: false},
	}
	for _, tc := range cases {
		if got := MentionsAny(tc.haystack, tc.skill, tc.related); got != tc.want {
			t.Fatalf("MentionsAny(%q, %q, %v) = %v, want %v", tc.haystack, tc.skill, tc.related, got, tc.want)
		}
	}
}

func TestContainsTerm(t *testing.T) {
	cases := []struct {
		s    string
		term string
		want bool
	}{
		{s: "Tailwind CSS", term: "ai", want: false},
		{s: "AI Enthusiast", term: "AI", want: true},
		{s: "Built with Node.js", term: "node.js", want: true},
		{s: "anything", term: "  ", want: false},
	}
	for _, tc := range cases {
		if got := ContainsTerm(tc.s, tc.term); got != tc.want {
			t.Fatalf("ContainsTerm(%q, %q) = %v, want %v", tc.s, tc.term, got, tc.want)
		}
	}
}
