package claims

import (
	"regexp"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

const monthName = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`

var (
	dateRangePattern = regexp.MustCompile(`(?i)\b` + monthName + `\s+\d{4}\s*[-—]\s*(?:` + monthName + `\s+\d{4}|present|current)` +
		`|\b\d{4}\s*[-—]\s*\d{4}\b` +
		`|\b\d{4}\s*[-—]\s*(?:present|current)\b`)
	entryStart  = regexp.MustCompile(`^(?:\p{Lu}|\d{4})`)
	bulletStart = regexp.MustCompile(`^[•\-*▪◦]`)
)

// historyEntry is one block of a heading-anchored section: a title line, the
// first date range found anywhere in the block, and the remaining lines.
type historyEntry struct {
	title string
	dates string
	rest  []string
}

func (e *Extractor) extractExperience(text string) []domain.Experience {
	var out []domain.Experience
	for _, sec := range findSections(text, e.re.experienceHeading, e.re.sectionTerminator) {
		for _, entry := range splitHistory(sec.Body) {
			out = append(out, domain.Experience{
				CompanyPosition: entry.title,
				DateRange:       entry.dates,
				Description:     strings.Join(entry.rest, "\n"),
			})
		}
	}
	return out
}

func (e *Extractor) extractEducation(text string) []domain.Education {
	var out []domain.Education
	for _, sec := range findSections(text, e.re.educationHeading, e.re.sectionTerminator) {
		for _, entry := range splitHistory(sec.Body) {
			out = append(out, domain.Education{
				InstitutionDegree: entry.title,
				DateRange:         entry.dates,
				AdditionalInfo:    strings.Join(entry.rest, "\n"),
			})
		}
	}
	return out
}

// splitHistory starts a new entry at every non-bullet line beginning with a
// capital letter or a year, except a bare date line directly under a title,
// which belongs to that title.
func splitHistory(body string) []historyEntry {
	var (
		out     []historyEntry
		current *historyEntry
	)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		isDateLine := isBareDateLine(line)
		startsEntry := entryStart.MatchString(line) && !bulletStart.MatchString(line)
		if current != nil && isDateLine && current.dates == "" && len(current.rest) == 0 {
			current.dates = dateRangePattern.FindString(line)
			continue
		}
		if startsEntry || current == nil {
			if current != nil {
				out = append(out, *current)
			}
			current = &historyEntry{title: line, dates: dateRangePattern.FindString(line)}
			continue
		}
		current.rest = append(current.rest, line)
		if current.dates == "" {
			current.dates = dateRangePattern.FindString(line)
		}
	}
	if current != nil {
		out = append(out, *current)
	}
	return out
}

func isBareDateLine(line string) bool {
	loc := dateRangePattern.FindStringIndex(line)
	if loc == nil {
		return false
	}
	rest := strings.TrimSpace(line[:loc[0]] + line[loc[1]:])
	return len(rest) <= 3
}
