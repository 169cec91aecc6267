package claims

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

// Each dash pattern splits "Name <sep> description [Link]." on a single line.
// The separators cover an em-dash, a spaced hyphen and a run of three or more
// blanks, which is what some PDF backends leave where the dash used to be.
var dashLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*([A-Z][A-Za-z0-9 \t,-]{2,50}?)\s*—\s*([^\[\n]+?)(?:\s*\[[^\]]*\])?\.?\s*$`),
	regexp.MustCompile(`^\s*([A-Z][A-Za-z0-9 \t,-]{2,50}?)(?:\s+-\s*|\s*-\s+)([^\[\n]+?)(?:\s*\[[^\]]*\])?\.?\s*$`),
	regexp.MustCompile(`^\s*([A-Z][A-Za-z0-9 \t,-]{2,50}?)[ \t]{3,}([^\[\n]+?)(?:\s*\[[^\]]*\])?\.?\s*$`),
}

var (
	linkAnnotation   = regexp.MustCompile(`\[[^\]]*\]`)
	monthYearPattern = regexp.MustCompile(`(?i)\b(?:january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\s+\d{4}\b`)
	leadingBullet    = regexp.MustCompile(`^[-•*\s]+`)
	trailingColon    = regexp.MustCompile(`[:\s]+$`)

	sectionLineEmDash = regexp.MustCompile(`^([^—\n]+?)\s*—\s*([^\[\n]+?)(?:\s*\[[^\]]*\])?\.?\s*$`)
	sectionLineHeader = regexp.MustCompile(`^([^:•\-*\n]+?)[:\-]\s*(.*?)$`)
	sectionLineBullet = regexp.MustCompile(`^(?:\d+\.|•|\*|-)\s*([^:•\-*\n]+?)(?:[:\-]\s*(.*?))?$`)

	fullTextEmDash   = dashLinePatterns[0]
	fullTextStack    = regexp.MustCompile(`^([A-Z][A-Za-z0-9 \t,-]{2,50}?)\s*\([^)]*(?i:react|node|python|javascript|java|angular|vue|django|flask|spring|express|mongodb|sql|aws|docker|kubernetes|api|framework|library|technology|tech|stack)[^)]*\)(?:\s|$)`)
	fullTextKind     = regexp.MustCompile(`^([A-Z][A-Za-z0-9 \t,-]{2,60}?)\s*(?i:project|application|app)(?:\s|$|\.)`)
	fullTextBuilt    = regexp.MustCompile(`(?i:developed|created|built|implemented|designed)\s+(?i:a\s+|an\s+|the\s+)?([A-Z][A-Za-z0-9 \t(),-]{2,50}?)\s+(?i:project|application|app|website|system|platform)(?:\s|\.|,|$)`)
	personNameLine   = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+$`)
	phoneLikeLine    = regexp.MustCompile(`\(\d{3}\).*\d{4}`)
	headerVerbs      = []string{"developed", "created", "built", "implemented", "designed", "used", "worked"}
	sectionHeaderTag = []string{"PROJECTS", "EXPERIENCE", "EDUCATION", "SKILLS", "ACHIEVEMENTS", "INTERNSHIP", "AWARDS"}
)

type projectStage func(body string) []domain.Project

// extractProjects runs the section stages in order and stops at the first one
// that yields anything. The whole-text scan only runs when the résumé has no
// projects heading.
func (e *Extractor) extractProjects(text string) []domain.Project {
	text = e.repairWords(text)

	sections := findSections(text, e.re.projectHeading, e.re.projectTerminator)
	if len(sections) == 0 {
		return cleanupProjects(e.projectsFromFullText(text))
	}

	stages := []projectStage{e.projectsFromDashLines, e.projectsFromSectionLines, e.projectsFromSpacedLines}
	for _, stage := range stages {
		var found []domain.Project
		for _, sec := range sections {
			found = append(found, stage(sec.Body)...)
		}
		if cleaned := cleanupProjects(found); len(cleaned) > 0 {
			return cleaned
		}
	}
	return []domain.Project{}
}

func (e *Extractor) repairWords(text string) string {
	for _, r := range e.re.wordRepairs {
		text = r.re.ReplaceAllStringFunc(text, func(m string) string {
			if first, _ := utf8.DecodeRuneInString(m); unicode.IsUpper(first) {
				return upperFirst(r.replacement)
			}
			return r.replacement
		})
	}
	return text
}

func (e *Extractor) projectsFromDashLines(body string) []domain.Project {
	var out []domain.Project
	offset := 0
	for _, line := range strings.Split(body, "\n") {
		lineStart := offset
		offset += len(line) + 1

		name, desc, ok := matchDashLine(line)
		if !ok {
			continue
		}
		upperName := strings.ToUpper(name)
		if containsAny(upperName, sectionHeaderTag) {
			continue
		}
		if e.rejectedProject(name, desc) {
			continue
		}
		context := strings.ToLower(body[max(0, lineStart-200):lineStart])
		if containsAny(context, e.vocab.ProjectContextMarkers) {
			continue
		}
		if !e.validDashProject(name, desc) {
			continue
		}
		out = append(out, domain.Project{Name: name, Description: desc})
	}
	return out
}

func matchDashLine(line string) (string, string, bool) {
	for _, p := range dashLinePatterns {
		m := p.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(linkAnnotation.ReplaceAllString(m[1], ""))
		desc := strings.TrimSpace(m[2])
		if name == "" || desc == "" {
			continue
		}
		return name, desc, true
	}
	return "", "", false
}

func (e *Extractor) rejectedProject(name, desc string) bool {
	combined := strings.ToLower(name + " " + desc)
	return containsAny(combined, e.vocab.ProjectRejectKeywords.All())
}

func (e *Extractor) validDashProject(name, desc string) bool {
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 60 || !startsUpper(name) {
		return false
	}
	if containsWord(name, e.vocab.SectionWords) {
		return false
	}
	if containsWord(name+" "+desc, e.vocab.ProjectKeywords) {
		return true
	}
	return len(strings.Fields(name)) <= 4 && !containsWord(name, e.vocab.NameStopWords)
}

// projectsFromSectionLines reads the section line by line. Recognised title
// lines open a project; anything else continues the current description.
func (e *Extractor) projectsFromSectionLines(body string) []domain.Project {
	var (
		out     []domain.Project
		current *domain.Project
	)
	open := func(name, desc string) {
		if current != nil {
			out = append(out, *current)
		}
		current = &domain.Project{Name: name, Description: desc}
	}
	nonProjectWords := union(e.vocab.ExtracurricularWords, e.vocab.SectionWords)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || e.isWorkModeLine(line) {
			continue
		}

		if m := sectionLineEmDash.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(linkAnnotation.ReplaceAllString(m[1], ""))
			if n := utf8.RuneCountInString(name); n >= 3 && n <= 60 && startsUpper(name) && !containsWord(name, e.vocab.SectionWords) {
				open(name, strings.TrimSpace(m[2]))
				continue
			}
		}

		if m := sectionLineHeader.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(linkAnnotation.ReplaceAllString(m[1], ""))
			if n := utf8.RuneCountInString(name); n >= 3 && n <= 60 && startsUpper(name) &&
				!e.startsWithVerb(name, headerVerbs) &&
				!containsWord(name, e.vocab.SectionWords) &&
				!monthYearPattern.MatchString(name) {
				open(name, strings.TrimSpace(m[2]))
				continue
			}
		}

		if m := sectionLineBullet.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(linkAnnotation.ReplaceAllString(m[1], ""))
			if name != "" && utf8.RuneCountInString(name) <= 60 && startsUpper(name) &&
				!e.startsWithVerb(name, e.vocab.ActionVerbs) &&
				containsWord(name, e.vocab.ProjectTitleKeywords) &&
				!containsWord(name, nonProjectWords) &&
				!monthYearPattern.MatchString(name) {
				open(name, strings.TrimSpace(m[2]))
				continue
			}
		}

		clean := strings.TrimSpace(linkAnnotation.ReplaceAllString(line, ""))
		if clean != "" && utf8.RuneCountInString(clean) <= 60 && startsUpper(clean) &&
			!e.startsWithVerb(clean, e.vocab.ActionVerbs) &&
			(containsWord(clean, e.vocab.ProjectTitleKeywords) ||
				(len(strings.Fields(clean)) <= 5 && !containsWord(clean, nonProjectWords))) &&
			!monthYearPattern.MatchString(clean) &&
			!e.isHeadingLine(clean) {
			open(clean, "")
			continue
		}

		if current != nil {
			desc := strings.TrimSpace(strings.TrimLeft(line, "•-*"))
			if current.Description == "" {
				current.Description = desc
			} else {
				current.Description += " " + desc
			}
		}
	}
	if current != nil {
		out = append(out, *current)
	}

	kept := out[:0]
	for _, p := range out {
		if !e.rejectedProject(p.Name, p.Description) {
			kept = append(kept, p)
		}
	}
	return kept
}

// projectsFromSpacedLines handles lines whose separator was lost entirely.
func (e *Extractor) projectsFromSpacedLines(body string) []domain.Project {
	var out []domain.Project
	for _, line := range strings.Split(body, "\n") {
		clean := strings.TrimSpace(linkAnnotation.ReplaceAllString(line, ""))
		if clean == "" || strings.ContainsAny(clean, "—-") {
			continue
		}
		if !containsWord(clean, e.vocab.ProjectKeywords) {
			continue
		}
		name, desc, ok := bestSplit(strings.Fields(clean), e.vocab.ProjectSplitDescriptionWords)
		if !ok || !startsUpper(name) || !containsWord(desc, e.vocab.ProjectKeywords) {
			continue
		}
		if e.rejectedProject(name, desc) {
			continue
		}
		out = append(out, domain.Project{Name: name, Description: desc})
	}
	return out
}

// projectsFromFullText only accepts highly explicit shapes and skips every
// line that follows a recognised non-project heading.
func (e *Extractor) projectsFromFullText(text string) []domain.Project {
	var out []domain.Project
	inOtherSection := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if e.isHeadingLine(line) {
			inOtherSection = true
			continue
		}
		if inOtherSection {
			continue
		}
		if strings.Contains(line, "@") || phoneLikeLine.MatchString(line) || personNameLine.MatchString(line) {
			continue
		}

		if m := fullTextEmDash.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(linkAnnotation.ReplaceAllString(m[1], ""))
			if e.validFullTextName(name) {
				out = append(out, domain.Project{Name: name, Description: strings.TrimSpace(m[2])})
			}
			continue
		}
		for _, p := range []*regexp.Regexp{fullTextStack, fullTextKind, fullTextBuilt} {
			m := p.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			name := strings.TrimSpace(linkAnnotation.ReplaceAllString(m[1], ""))
			if e.validFullTextName(name) && !e.startsWithVerb(name, e.vocab.ActionVerbs) &&
				!e.startsWithVerb(name, []string{"the", "a", "an", "responsible"}) {
				out = append(out, domain.Project{Name: name})
			}
		}
	}
	return out
}

func (e *Extractor) validFullTextName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 3 && n <= 80 && startsUpper(name) &&
		!containsWord(name, e.vocab.SectionWords) &&
		!monthYearPattern.MatchString(name)
}

func cleanupProjects(in []domain.Project) []domain.Project {
	out := make([]domain.Project, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		name := leadingBullet.ReplaceAllString(strings.TrimSpace(p.Name), "")
		name = trailingColon.ReplaceAllString(name, "")
		name = strings.TrimSpace(linkAnnotation.ReplaceAllString(name, ""))
		if utf8.RuneCountInString(name) <= 3 {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.Project{Name: name, Description: strings.TrimSpace(p.Description)})
	}
	return out
}

func (e *Extractor) isWorkModeLine(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range e.vocab.WorkModeLines {
		if lower == m {
			return true
		}
	}
	return false
}

func (e *Extractor) startsWithVerb(s string, verbs []string) bool {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return false
	}
	for _, v := range verbs {
		if fields[0] == v {
			return true
		}
	}
	return false
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
