package claims

import (
	"regexp"
	"strings"
)

var (
	emailPattern  = regexp.MustCompile(`[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}`)
	phonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\(\d{3}\)[-. ]?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\+\d{1,2}[-. ]?\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
	}
	contactLinePattern = regexp.MustCompile(`(?i)^(?:email|e-mail|phone|mobile|tel|address|resume|curriculum vitae|cv)\b`)
)

func extractEmail(text string) string {
	return emailPattern.FindString(text)
}

func extractPhone(text string) string {
	for _, p := range phonePatterns {
		if m := p.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// extractName picks the first plausible line among the first five.
func (e *Extractor) extractName(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 5 {
		lines = lines[:5]
	}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case contactLinePattern.MatchString(line):
		case emailPattern.MatchString(line), extractPhone(line) != "":
		case strings.Contains(line, "://"):
		case e.isHeadingLine(line):
		default:
			return line
		}
	}
	return ""
}
