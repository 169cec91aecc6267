package domain

type SourceKind string

const (
	SourceCodeHost     SourceKind = "github"
	SourceSocial       SourceKind = "twitter"
	SourceProfessional SourceKind = "linkedin"
)

// SourceKinds lists the evidence sources in scoring order.
var SourceKinds = []SourceKind{SourceCodeHost, SourceSocial, SourceProfessional}

type Repository struct {
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Language      string   `json:"language,omitempty"`
	URL           string   `json:"url,omitempty"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	CommitHistory []string `json:"commit_history,omitempty"`
}

type Post struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at,omitempty"`
}

type ProfileExperience struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type ProfileEducation struct {
	School      string `json:"school"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description,omitempty"`
}

type ProfileProject struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Profile is the normalized professional profile.
type Profile struct {
	Name         string              `json:"name,omitempty"`
	Headline     string              `json:"headline,omitempty"`
	Skills       []string            `json:"skills,omitempty"`
	Endorsements map[string]int      `json:"endorsements,omitempty"`
	Experience   []ProfileExperience `json:"experience,omitempty"`
	Education    []ProfileEducation  `json:"education,omitempty"`
	Projects     []ProfileProject    `json:"projects,omitempty"`
	ProfileURL   string              `json:"profile_url,omitempty"`
	Method       string              `json:"method,omitempty"`
}

// RawEvidence is whatever a source fetched for one username.
type RawEvidence struct {
	Username      string         `json:"username"`
	Repositories  []Repository   `json:"repositories,omitempty"`
	Languages     map[string]int `json:"languages,omitempty"`
	Contributions int            `json:"contributions,omitempty"`
	Posts         []Post         `json:"posts,omitempty"`
	Profile       *Profile       `json:"profile,omitempty"`
	Mocked        bool           `json:"mocked,omitempty"`
	UserNotFound  bool           `json:"user_not_found,omitempty"`
}

// MatchResult is the outcome of matching claims against one source.
type MatchResult struct {
	VerifiedSkills   []string
	VerifiedProjects []string
	Proof            map[string][]string
}

// NewMatchResult returns an empty result with a usable proof map.
func NewMatchResult() MatchResult {
	return MatchResult{
		VerifiedSkills:   []string{},
		VerifiedProjects: []string{},
		Proof:            map[string][]string{},
	}
}

func (m *MatchResult) AddSkill(skill string, proof ...string) {
	m.VerifiedSkills = append(m.VerifiedSkills, skill)
	if len(proof) > 0 {
		m.Proof[skill] = append(m.Proof[skill], proof...)
	}
}

func (m *MatchResult) AddProject(project string, proof ...string) {
	m.VerifiedProjects = append(m.VerifiedProjects, project)
	if len(proof) > 0 {
		m.Proof[project] = append(m.Proof[project], proof...)
	}
}

// EvidenceSnapshot is one source's contribution to a verification.
type EvidenceSnapshot struct {
	Source           SourceKind          `json:"source"`
	Username         string              `json:"username,omitempty"`
	VerifiedSkills   []string            `json:"verified_skills"`
	VerifiedProjects []string            `json:"verified_projects"`
	Proof            map[string][]string `json:"proof"`
	Evidence         RawEvidence         `json:"evidence"`
	Error            string              `json:"error,omitempty"`
}

// Empty reports whether the source produced nothing worth scoring.
func (s EvidenceSnapshot) Empty() bool {
	e := s.Evidence
	return len(e.Repositories) == 0 &&
		len(e.Languages) == 0 &&
		e.Contributions == 0 &&
		len(e.Posts) == 0 &&
		e.Profile == nil &&
		len(s.VerifiedSkills) == 0 &&
		len(s.VerifiedProjects) == 0
}

func (s EvidenceSnapshot) VerifiedCount() int {
	return len(s.VerifiedSkills) + len(s.VerifiedProjects)
}

// VerificationResult merges all snapshots against the claims.
// Each claimed skill or project lands in exactly one bucket.
type VerificationResult struct {
	Sources            map[SourceKind]EvidenceSnapshot `json:"sources"`
	VerifiedSkills     []string                        `json:"verified_skills"`
	UnverifiedSkills   []string                        `json:"unverified_skills"`
	VerifiedProjects   []string                        `json:"verified_projects"`
	UnverifiedProjects []string                        `json:"unverified_projects"`
}

func (v VerificationResult) Snapshot(kind SourceKind) (EvidenceSnapshot, bool) {
	s, ok := v.Sources[kind]
	return s, ok
}
