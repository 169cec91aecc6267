package linkedin

import (
	"fmt"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/matching"
)

var teamKeywords = []string{"team", "collaboration", "leadership", "communication", "teamwork"}

func (s *Source) Match(skills, projects []string, raw domain.RawEvidence) domain.MatchResult {
	result := domain.NewMatchResult()
	p := raw.Profile
	if p == nil {
		return result
	}
	for _, skill := range skills {
		if proof := matchSkill(skill, p); proof != nil {
			result.AddSkill(skill, proof...)
		}
	}
	for _, project := range projects {
		if proof := matchProject(project, p); proof != nil {
			result.AddProject(project, proof...)
		}
	}
	return result
}

func matchSkill(skill string, p *domain.Profile) []string {
	lower := strings.ToLower(strings.TrimSpace(skill))
	if lower == "" {
		return nil
	}

	for _, listed := range p.Skills {
		if matching.ContainsTerm(listed, lower) {
			return []string{
				fmt.Sprintf("Listed on LinkedIn profile as '%s'", listed),
				fmt.Sprintf("Endorsed by %d connections", p.Endorsements[listed]),
			}
		}
	}

	teamSkill := containsAny(lower, teamKeywords)
	for _, exp := range p.Experience {
		desc := strings.ToLower(exp.Description)
		switch {
		case isHackathon(exp) && (matching.ContainsTerm(desc, lower) || teamSkill):
			return []string{
				fmt.Sprintf("Demonstrated in hackathon: %s at %s", exp.Title, exp.Company),
				fmt.Sprintf("Description: '%s'", exp.Description),
			}
		case matching.ContainsTerm(desc, lower):
			return []string{
				fmt.Sprintf("Mentioned in experience: %s at %s", exp.Title, exp.Company),
				fmt.Sprintf("Description: '%s'", exp.Description),
			}
		}
	}

	if teamSkill {
		for _, exp := range p.Experience {
			if containsAny(strings.ToLower(exp.Description), teamKeywords) {
				return []string{
					fmt.Sprintf("Team skill demonstrated in: %s at %s", exp.Title, exp.Company),
					fmt.Sprintf("Description mentions teamwork: '%s'", exp.Description),
				}
			}
		}
	}
	return nil
}

func matchProject(project string, p *domain.Profile) []string {
	lower := strings.ToLower(strings.TrimSpace(project))
	if lower == "" {
		return nil
	}

	for _, listed := range p.Projects {
		if strings.Contains(strings.ToLower(listed.Name), lower) || strings.Contains(strings.ToLower(listed.Description), lower) {
			return []string{
				"Listed on LinkedIn profile",
				fmt.Sprintf("Description: '%s'", listed.Description),
			}
		}
	}

	for _, exp := range p.Experience {
		desc := strings.ToLower(exp.Description)
		switch {
		case isHackathon(exp) && (strings.Contains(desc, lower) || strings.Contains(strings.ToLower(exp.Title), lower)):
			return []string{
				fmt.Sprintf("Developed during hackathon: %s at %s", exp.Title, exp.Company),
				fmt.Sprintf("Description: '%s'", exp.Description),
			}
		case strings.Contains(desc, lower):
			return []string{
				fmt.Sprintf("Mentioned in experience: %s at %s", exp.Title, exp.Company),
				fmt.Sprintf("Description: '%s'", exp.Description),
			}
		}
	}

	for _, edu := range p.Education {
		desc := strings.ToLower(edu.Description)
		if strings.Contains(desc, lower) && (strings.Contains(desc, "team") || strings.Contains(desc, "group")) {
			return []string{
				fmt.Sprintf("Team project during education: %s at %s", edu.Degree, edu.School),
				fmt.Sprintf("Description: '%s'", edu.Description),
			}
		}
	}
	return nil
}

func isHackathon(exp domain.ProfileExperience) bool {
	return strings.Contains(strings.ToLower(exp.Title), "hackathon") ||
		strings.Contains(strings.ToLower(exp.Description), "hackathon")
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
