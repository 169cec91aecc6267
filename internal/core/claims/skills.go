package claims

import (
	"regexp"
	"sort"
	"strings"
)

var (
	skillSeparators   = regexp.MustCompile(`[,•|\n\t;/\\·▪▫◦‣⁃]+`)
	skillEdgeJunk     = regexp.MustCompile(`^[^\p{L}\p{N}_]+|[^\p{L}\p{N}_+#]+$`)
	skillDescription  = regexp.MustCompile(`—|–|-.*(?:platform|app|website|system|tool)`)
	skillSocialHandle = regexp.MustCompile(`@\w+|linkedin\.com|github\.com|twitter\.com|gmail\.com`)
	skillURL          = regexp.MustCompile(`https?://|www\.|\.com|\.org|\.net|\[link\]`)
	skillNoise        = regexp.MustCompile(`\d{4}|\b(?:unverified|verified)\b`)
)

type skillHit struct {
	skill string
	pos   int
	vocab bool
}

type sectionToken struct {
	text   string
	offset int
}

// extractSkills merges vocabulary hits found anywhere in the text with tokens
// from skills sections, ordered by where each first appears.
func (e *Extractor) extractSkills(text string) []string {
	var hits []skillHit
	for _, t := range e.re.vocabTerms {
		if loc := t.re.FindStringSubmatchIndex(text); loc != nil {
			hits = append(hits, skillHit{skill: t.skill, pos: loc[2], vocab: true})
		}
	}
	for _, sec := range findSections(text, e.re.skillHeading, e.re.skillTerminator) {
		for _, tok := range splitSkillTokens(sec.Body) {
			if e.acceptSectionSkill(tok.text) {
				hits = append(hits, skillHit{skill: tok.text, pos: sec.Start + tok.offset})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].vocab && !hits[j].vocab
	})

	skills := make([]string, 0, len(hits))
	seen := make(map[string]struct{}, len(hits))
	add := func(s string) {
		key := strings.ToLower(s)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		skills = append(skills, s)
	}
	for _, h := range hits {
		add(h.skill)
	}
	if e.inferSoftSkills {
		for _, s := range e.softSkillsFromAchievements(text) {
			add(s)
		}
	}
	return skills
}

func splitSkillTokens(body string) []sectionToken {
	var out []sectionToken
	start := 0
	emit := func(end int) {
		raw := body[start:end]
		tok := strings.TrimSpace(skillEdgeJunk.ReplaceAllString(strings.TrimSpace(raw), ""))
		if tok != "" {
			out = append(out, sectionToken{text: tok, offset: start + strings.Index(raw, tok)})
		}
	}
	for _, loc := range skillSeparators.FindAllStringIndex(body, -1) {
		emit(loc[0])
		start = loc[1]
	}
	emit(len(body))
	return out
}

func (e *Extractor) acceptSectionSkill(s string) bool {
	if s == "" {
		return false
	}
	if e.vocab.KnownSkill(s) {
		return true
	}
	n := len([]rune(s))
	if n < 2 || n >= 30 {
		return false
	}
	lower := strings.ToLower(s)
	for _, w := range e.vocab.SkillStopWords {
		if lower == w {
			return false
		}
	}
	switch {
	case containsAny(lower, e.vocab.SkillProjectMarkers),
		skillDescription.MatchString(lower),
		skillSocialHandle.MatchString(lower),
		skillURL.MatchString(lower),
		skillNoise.MatchString(lower):
		return false
	}
	return e.vocab.SoftSkill(s) || containsAny(lower, e.vocab.TechStems)
}

// softSkillsFromAchievements maps indicator words in achievement and
// extracurricular sections to title-cased soft skills.
func (e *Extractor) softSkillsFromAchievements(text string) []string {
	var out []string
	for _, sec := range findSections(text, e.re.achievementHeading, e.re.sectionTerminator) {
		lower := strings.ToLower(sec.Body)
		for _, ind := range e.vocab.SoftSkillIndicators {
			if containsAny(lower, ind.Indicators) {
				out = append(out, titleCase(ind.Skill))
			}
		}
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = upperFirst(strings.ToLower(w))
	}
	return strings.Join(words, " ")
}
