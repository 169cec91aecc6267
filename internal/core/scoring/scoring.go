// Package scoring turns a verification result into the reality score.
// Everything here is deterministic and free of I/O.
package scoring

import (
	"math"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

const (
	weightCodeHost     = 0.5
	weightSocial       = 0.3
	weightProfessional = 0.2
	weightSkills       = 0.6
	weightProjects     = 0.4
)

// Score computes every sub-score and the composite. All values are in [0, 100].
func Score(result domain.VerificationResult) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{
		CodeHost:      clamp(CodeHost(result.Sources[domain.SourceCodeHost])),
		Social:        clamp(Social(result.Sources[domain.SourceSocial])),
		Professional:  clamp(Professional(result.Sources[domain.SourceProfessional])),
		SkillsRatio:   clamp(ratio(len(result.VerifiedSkills), len(result.UnverifiedSkills))),
		ProjectsRatio: clamp(ratio(len(result.VerifiedProjects), len(result.UnverifiedProjects))),
	}
	source := weightCodeHost*b.CodeHost + weightSocial*b.Social + weightProfessional*b.Professional
	content := weightSkills*b.SkillsRatio + weightProjects*b.ProjectsRatio
	b.Final = clamp((source + content) / 2)
	return b
}

func CodeHost(s domain.EvidenceSnapshot) float64 {
	if unusable(s) {
		return 0
	}
	repos := math.Min(25, 5*float64(len(s.Evidence.Repositories)))
	langs := math.Min(25, 5*float64(len(s.Evidence.Languages)))
	contributions := math.Min(20, float64(s.Evidence.Contributions)/25)
	verified := math.Min(30, 3*float64(s.VerifiedCount()))
	return repos + langs + contributions + verified
}

func Social(s domain.EvidenceSnapshot) float64 {
	if unusable(s) {
		return 0
	}
	posts := math.Min(40, 8*float64(len(s.Evidence.Posts)))
	verified := math.Min(60, 6*float64(s.VerifiedCount()))
	return posts + verified
}

func Professional(s domain.EvidenceSnapshot) float64 {
	if unusable(s) {
		return 0
	}
	completeness := 0.0
	if p := s.Evidence.Profile; p != nil {
		if strings.TrimSpace(p.Name) != "" {
			completeness += 10
		}
		if strings.TrimSpace(p.Headline) != "" {
			completeness += 10
		}
		if len(p.Skills) > 0 {
			completeness += 20
		}
	}
	verified := math.Min(60, 6*float64(s.VerifiedCount()))
	return math.Min(40, completeness) + verified
}

func unusable(s domain.EvidenceSnapshot) bool {
	return s.Error != "" || s.Empty()
}

func ratio(verified, unverified int) float64 {
	total := verified + unverified
	if total == 0 {
		return 0
	}
	return 100 * float64(verified) / float64(total)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
