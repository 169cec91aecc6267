package domain

// ScoreBreakdown holds every sub-score on a 0..100 scale.
type ScoreBreakdown struct {
	CodeHost      float64 `json:"code_host"`
	Social        float64 `json:"social"`
	Professional  float64 `json:"professional"`
	SkillsRatio   float64 `json:"skills_ratio"`
	ProjectsRatio float64 `json:"projects_ratio"`
	Final         float64 `json:"final"`
}

type ScoreBand string

const (
	BandStrong   ScoreBand = "strong"
	BandModerate ScoreBand = "moderate"
	BandWeak     ScoreBand = "weak"
)

func (s ScoreBreakdown) Band() ScoreBand {
	switch {
	case s.Final >= 70:
		return BandStrong
	case s.Final >= 40:
		return BandModerate
	default:
		return BandWeak
	}
}
