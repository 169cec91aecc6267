package document

import (
	"regexp"
	"strings"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	manyNewlinesRe    = regexp.MustCompile(`\n{3,}`)
	brokenWordRe      = regexp.MustCompile(`\b([a-zA-Z]) +([a-zA-Z]{1,3}) +([a-zA-Z]{2,})\b`)

	dashReplacer = strings.NewReplacer(
		"–", "—", // en dash
		"−", "—", // minus sign
		"‒", "—", // figure dash
		"―", "—", // horizontal bar
	)
)

// CleanText normalizes backend output. It is applied exactly once per document.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\x00", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = dashReplacer.Replace(text)
	text = horizontalSpaceRe.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = manyNewlinesRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(repairBrokenWords(text))
}

// repairBrokenWords rejoins "P yth on"-style kerning splits. Single pass, not recursive.
// Sentences starting with the words "a" or "I" are left alone.
func repairBrokenWords(text string) string {
	return brokenWordRe.ReplaceAllStringFunc(text, func(match string) string {
		parts := brokenWordRe.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		switch parts[1] {
		case "a", "A", "I":
			return match
		}
		return parts[1] + parts[2] + parts[3]
	})
}
