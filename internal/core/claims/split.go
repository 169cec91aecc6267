package claims

import (
	"strings"
	"unicode/utf8"
)

type splitCandidate struct {
	name  string
	desc  string
	score int
}

// bestSplit tries every split of words into a name of one to four words and
// a description, and returns the highest scoring candidate. Ties keep the
// shorter name.
func bestSplit(words []string, descriptionWords []string) (string, string, bool) {
	if len(words) < 3 {
		return "", "", false
	}
	var best *splitCandidate
	for _, c := range splitCandidates(words, descriptionWords) {
		if c.score <= 0 {
			continue
		}
		if n := utf8.RuneCountInString(c.name); n < 3 || n > 30 {
			continue
		}
		if best == nil || c.score > best.score {
			c := c
			best = &c
		}
	}
	if best == nil {
		return "", "", false
	}
	return best.name, best.desc, true
}

func splitCandidates(words []string, descriptionWords []string) []splitCandidate {
	limit := min(4, len(words)-1)
	out := make([]splitCandidate, 0, limit)
	for at := 1; at <= limit; at++ {
		nameWords := words[:at]
		descWords := words[at:]
		out = append(out, splitCandidate{
			name:  strings.Join(nameWords, " "),
			desc:  strings.Join(descWords, " "),
			score: scoreSplit(nameWords, descWords, descriptionWords),
		})
	}
	return out
}

func scoreSplit(nameWords, descWords, descriptionWords []string) int {
	score := 0
	titleCase := true
	for _, w := range nameWords {
		if !startsUpper(w) {
			titleCase = false
			break
		}
	}
	if titleCase {
		score += 2
	}
	if containsWord(strings.Join(descWords, " "), descriptionWords) {
		score++
	}
	switch len(nameWords) {
	case 1:
		score--
	case 2:
		score++
	}
	return score
}
