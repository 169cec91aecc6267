package domain

import "strings"

type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Experience struct {
	CompanyPosition string `json:"company_position"`
	DateRange       string `json:"date_range"`
	Description     string `json:"description"`
}

type Education struct {
	InstitutionDegree string `json:"institution_degree"`
	DateRange         string `json:"date_range"`
	AdditionalInfo    string `json:"additional_info"`
}

// Claims is everything the resume asserts about the candidate.
// Empty strings stand for fields that could not be found.
type Claims struct {
	Name             string       `json:"name,omitempty"`
	Email            string       `json:"email,omitempty"`
	Phone            string       `json:"phone,omitempty"`
	Skills           []string     `json:"skills"`
	Projects         []Project    `json:"projects"`
	Experience       []Experience `json:"experience"`
	Education        []Education  `json:"education"`
	CodeHostUsername string       `json:"code_host_username,omitempty"`
	SocialUsername   string       `json:"social_username,omitempty"`
	ProfileUsername  string       `json:"profile_username,omitempty"`
}

func (c Claims) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for _, p := range c.Projects {
		names = append(names, p.Name)
	}
	return names
}

// Deduplicated returns a copy of the claims where skills and projects that
// differ only in case appear once, at their first position.
func (c Claims) Deduplicated() Claims {
	out := c
	out.Skills = make([]string, 0, len(c.Skills))
	seen := make(map[string]struct{}, len(c.Skills))
	for _, s := range c.Skills {
		key := strings.ToLower(strings.TrimSpace(s))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Skills = append(out.Skills, s)
	}
	out.Projects = make([]Project, 0, len(c.Projects))
	seen = make(map[string]struct{}, len(c.Projects))
	for _, p := range c.Projects {
		key := strings.ToLower(strings.TrimSpace(p.Name))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Projects = append(out.Projects, p)
	}
	return out
}

// Usernames selects which accounts each evidence source is queried with.
type Usernames struct {
	CodeHost     string `json:"github,omitempty"`
	Social       string `json:"twitter,omitempty"`
	Professional string `json:"linkedin,omitempty"`
}

// Resolve fills blank usernames from the ones found in the resume.
func (u Usernames) Resolve(c Claims) Usernames {
	out := Usernames{
		CodeHost:     strings.TrimSpace(u.CodeHost),
		Social:       strings.TrimSpace(u.Social),
		Professional: strings.TrimSpace(u.Professional),
	}
	if out.CodeHost == "" {
		out.CodeHost = c.CodeHostUsername
	}
	if out.Social == "" {
		out.Social = c.SocialUsername
	}
	if out.Professional == "" {
		out.Professional = c.ProfileUsername
	}
	return out
}

func (u Usernames) For(kind SourceKind) string {
	switch kind {
	case SourceCodeHost:
		return u.CodeHost
	case SourceSocial:
		return u.Social
	case SourceProfessional:
		return u.Professional
	default:
		return ""
	}
}
