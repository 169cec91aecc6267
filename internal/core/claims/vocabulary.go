package claims

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

type SoftSkillIndicator struct {
	Skill      string   `yaml:"skill"`
	Indicators []string `yaml:"indicators"`
}

type ProjectRejectKeywords struct {
	Achievement []string `yaml:"achievement"`
	Social      []string `yaml:"social"`
	Experience  []string `yaml:"experience"`
}

func (k ProjectRejectKeywords) All() []string {
	out := make([]string, 0, len(k.Achievement)+len(k.Social)+len(k.Experience))
	out = append(out, k.Achievement...)
	out = append(out, k.Social...)
	return append(out, k.Experience...)
}

// Vocabulary holds every fixed table the extractor consults.
// Treat a loaded Vocabulary as read-only; it is shared across goroutines.
type Vocabulary struct {
	Skills                       []string              `yaml:"skills"`
	SoftSkills                   []string              `yaml:"soft_skills"`
	SkillStopWords               []string              `yaml:"skill_stop_words"`
	SkillProjectMarkers          []string              `yaml:"skill_project_markers"`
	TechStems                    []string              `yaml:"tech_stems"`
	SkillHeadings                []string              `yaml:"skill_headings"`
	SectionTerminators           []string              `yaml:"section_terminators"`
	AchievementHeadings          []string              `yaml:"achievement_headings"`
	SoftSkillIndicators          []SoftSkillIndicator  `yaml:"soft_skill_indicators"`
	ProjectKeywords              []string              `yaml:"project_keywords"`
	ProjectTitleKeywords         []string              `yaml:"project_title_keywords"`
	ProjectSplitDescriptionWords []string              `yaml:"project_split_description_words"`
	ProjectRejectKeywords        ProjectRejectKeywords `yaml:"project_reject_keywords"`
	ProjectContextMarkers        []string              `yaml:"project_context_markers"`
	SectionWords                 []string              `yaml:"section_words"`
	ActionVerbs                  []string              `yaml:"action_verbs"`
	ExtracurricularWords         []string              `yaml:"extracurricular_words"`
	WorkModeLines                []string              `yaml:"work_mode_lines"`
	NameStopWords                []string              `yaml:"name_stop_words"`
	ResumeKeywords               []string              `yaml:"resume_keywords"`
	WordRepairs                  map[string]string     `yaml:"word_repairs"`

	skillSet     map[string]string
	softSkillSet map[string]struct{}
}

// ParseVocabulary decodes a YAML vocabulary document.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	if len(v.Skills) == 0 {
		return nil, fmt.Errorf("decode vocabulary: skills table is empty")
	}
	v.index()
	return &v, nil
}

var (
	defaultVocabOnce sync.Once
	defaultVocab     *Vocabulary
)

// DefaultVocabulary returns the embedded tables. They are parsed once per process.
func DefaultVocabulary() *Vocabulary {
	defaultVocabOnce.Do(func() {
		v, err := ParseVocabulary(defaultVocabularyYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded vocabulary is invalid: %v", err))
		}
		defaultVocab = v
	})
	return defaultVocab
}

func (v *Vocabulary) index() {
	v.skillSet = make(map[string]string, len(v.Skills))
	for _, s := range v.Skills {
		v.skillSet[strings.ToLower(s)] = s
	}
	v.softSkillSet = make(map[string]struct{}, len(v.SoftSkills))
	for _, s := range v.SoftSkills {
		v.softSkillSet[strings.ToLower(s)] = struct{}{}
	}
}

// KnownSkill reports whether s is in the reference vocabulary (exact surface form).
func (v *Vocabulary) KnownSkill(s string) bool {
	canonical, ok := v.skillSet[strings.ToLower(s)]
	return ok && canonical == s
}

func (v *Vocabulary) SoftSkill(s string) bool {
	_, ok := v.softSkillSet[strings.ToLower(s)]
	return ok
}
