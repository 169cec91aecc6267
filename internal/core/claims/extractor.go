package claims

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

type Options struct {
	// Vocabulary defaults to the embedded tables.
	Vocabulary *Vocabulary
	// InferSoftSkills appends soft skills implied by achievement and
	// extracurricular sections.
	InferSoftSkills bool
}

func DefaultOptions() Options {
	return Options{Vocabulary: DefaultVocabulary(), InferSoftSkills: true}
}

// Extractor turns cleaned résumé text into Claims. It is safe for concurrent use.
type Extractor struct {
	logger          *slog.Logger
	vocab           *Vocabulary
	inferSoftSkills bool
	re              patterns
}

type patterns struct {
	skillHeading       *regexp.Regexp
	skillTerminator    *regexp.Regexp
	achievementHeading *regexp.Regexp
	sectionTerminator  *regexp.Regexp
	projectHeading     *regexp.Regexp
	projectTerminator  *regexp.Regexp
	experienceHeading  *regexp.Regexp
	educationHeading   *regexp.Regexp
	anyHeading         *regexp.Regexp
	vocabTerms         []vocabTerm
	wordRepairs        []wordRepair
}

type vocabTerm struct {
	skill string
	re    *regexp.Regexp
}

type wordRepair struct {
	re          *regexp.Regexp
	replacement string
}

var (
	projectHeadingPhrases    = []string{"projects", "project", "personal projects", "academic projects", "key projects", "side projects", "selected projects"}
	experienceHeadingPhrases = []string{"work experience", "professional experience", "experience", "employment", "employment history"}
	educationHeadingPhrases  = []string{"education", "academic background", "qualifications"}
)

func NewExtractor(logger *slog.Logger, opts Options) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	vocab := opts.Vocabulary
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Extractor{
		logger:          logger,
		vocab:           vocab,
		inferSoftSkills: opts.InferSoftSkills,
		re:              compilePatterns(vocab),
	}
}

func compilePatterns(v *Vocabulary) patterns {
	terminators := union(v.SectionTerminators, experienceHeadingPhrases, educationHeadingPhrases)
	p := patterns{
		skillHeading:       headingPattern(v.SkillHeadings),
		skillTerminator:    headingPattern(union(terminators, v.SkillHeadings)),
		achievementHeading: headingPattern(v.AchievementHeadings),
		sectionTerminator:  headingPattern(terminators),
		projectHeading:     headingPattern(projectHeadingPhrases),
		projectTerminator:  headingPattern(without(union(terminators, v.AchievementHeadings), "projects", "project")),
		experienceHeading:  headingPattern(experienceHeadingPhrases),
		educationHeading:   headingPattern(educationHeadingPhrases),
		anyHeading:         headingPattern(union(terminators, v.SkillHeadings, v.AchievementHeadings, projectHeadingPhrases)),
	}
	for _, skill := range v.Skills {
		p.vocabTerms = append(p.vocabTerms, vocabTerm{
			skill: skill,
			re:    regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_+#])(` + regexp.QuoteMeta(skill) + `)(?:$|[^\p{L}\p{N}_+#])`),
		})
	}
	broken := make([]string, 0, len(v.WordRepairs))
	for k := range v.WordRepairs {
		broken = append(broken, k)
	}
	sort.Strings(broken)
	for _, b := range broken {
		p.wordRepairs = append(p.wordRepairs, wordRepair{
			re:          regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(b) + `\b`),
			replacement: v.WordRepairs[b],
		})
	}
	return p
}

// Extract never fails. A field whose extraction panics is left empty and
// the failure is logged.
func (e *Extractor) Extract(ctx context.Context, text string) domain.Claims {
	var c domain.Claims
	e.field(ctx, "email", func() { c.Email = extractEmail(text) })
	e.field(ctx, "phone", func() { c.Phone = extractPhone(text) })
	e.field(ctx, "name", func() { c.Name = e.extractName(text) })
	e.field(ctx, "skills", func() { c.Skills = e.extractSkills(text) })
	e.field(ctx, "projects", func() { c.Projects = e.extractProjects(text) })
	e.field(ctx, "experience", func() { c.Experience = e.extractExperience(text) })
	e.field(ctx, "education", func() { c.Education = e.extractEducation(text) })
	e.field(ctx, "usernames", func() {
		c.CodeHostUsername = extractUsername(text, codeHostPatterns, codeHostDenylist, 1)
		c.SocialUsername = extractUsername(text, socialPatterns, socialDenylist, 3)
		c.ProfileUsername = extractUsername(text, profilePatterns, profileDenylist, 1)
	})
	return c
}

func (e *Extractor) field(ctx context.Context, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.WarnContext(ctx, "claim_field_extraction_failed",
				slog.String("field", name),
				slog.String("error", fmt.Sprint(r)),
			)
		}
	}()
	fn()
}

func (e *Extractor) isHeadingLine(line string) bool {
	return e.re.anyHeading.MatchString(strings.TrimSpace(line))
}
