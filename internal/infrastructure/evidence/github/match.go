package github

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/matching"
)

// decentActivity is the bar for accepting generic skills such as version
// control on the strength of the account alone.
func decentActivity(raw domain.RawEvidence) bool {
	return len(raw.Repositories) >= 3 || len(raw.Languages) >= 2
}

func (s *Source) Match(skills, projects []string, raw domain.RawEvidence) domain.MatchResult {
	result := domain.NewMatchResult()
	s.matchSkills(&result, skills, raw)
	s.matchProjects(&result, projects, raw.Repositories)
	return result
}

func (s *Source) matchSkills(result *domain.MatchResult, skills []string, raw domain.RawEvidence) {
	tables := s.cfg.tables
	verified := make(map[string]struct{}, len(skills))
	add := func(skill string, proof ...string) {
		verified[skill] = struct{}{}
		result.AddSkill(skill, proof...)
	}

	if decentActivity(raw) {
		for _, skill := range skills {
			if _, done := verified[skill]; done {
				continue
			}
			if proof := tables.ActivityProof(skill, len(raw.Repositories), len(raw.Languages)); proof != "" {
				add(skill, proof)
			}
		}
	}

	languages := languageOrder(raw)
	for _, skill := range skills {
		if _, done := verified[skill]; done {
			continue
		}
		related := tables.RelatedTerms(skill)

		matched := false
		for _, lang := range languages {
			if matching.MentionsAny(lang, skill, related) {
				add(skill, fmt.Sprintf("Used %s in %d repositories", lang, raw.Languages[lang]))
				matched = true
				break
			}
		}
		if matched {
			continue
		}

		var repos, commits []string
		for _, repo := range raw.Repositories {
			if matching.MentionsAny(repo.Name, skill, related) || matching.MentionsAny(repo.Description, skill, related) {
				repos = append(repos, repo.Name)
			}
			for _, commit := range repo.CommitHistory {
				if matching.MentionsAny(commit, skill, related) {
					if !slices.Contains(repos, repo.Name) {
						repos = append(repos, repo.Name)
					}
					commits = append(commits, commit)
				}
			}
		}
		if len(repos) == 0 {
			continue
		}
		proof := []string{"Found in repositories: " + strings.Join(repos[:min(3, len(repos))], ", ")}
		if len(commits) > 0 {
			proof = append(proof, "Commit evidence: "+strings.Join(commits[:min(2, len(commits))], ", "))
		}
		add(skill, proof...)
	}
}

func (s *Source) matchProjects(result *domain.MatchResult, projects []string, repos []domain.Repository) {
	for _, project := range projects {
		var names, details []string
		for _, repo := range repos {
			kind := s.cfg.tables.MatchProject(project, repo.Name, repo.Description)
			if kind == matching.MatchNone {
				continue
			}
			names = append(names, repo.Name)
			details = append(details, fmt.Sprintf("%s (%s)", repo.Name, kind))
		}
		if len(names) == 0 {
			continue
		}
		result.AddProject(project,
			"Found matching repositories: "+strings.Join(names, ", "),
			"Match details: "+strings.Join(details, ", "),
		)
	}
}

// languageOrder lists languages in the order their first repository
// appears, so matching is deterministic.
func languageOrder(raw domain.RawEvidence) []string {
	seen := make(map[string]struct{}, len(raw.Languages))
	var out []string
	for _, repo := range raw.Repositories {
		if _, ok := raw.Languages[repo.Language]; !ok {
			continue
		}
		if _, dup := seen[repo.Language]; dup {
			continue
		}
		seen[repo.Language] = struct{}{}
		out = append(out, repo.Language)
	}
	var rest []string
	for lang := range raw.Languages {
		if _, ok := seen[lang]; !ok {
			rest = append(rest, lang)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
