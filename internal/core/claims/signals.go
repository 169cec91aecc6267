package claims

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

const shortDocumentLength = 300

// Signals counts the independent hints that a text is a résumé.
type Signals struct {
	Email         bool
	Phone         bool
	Skills        bool
	Education     bool
	Experience    bool
	Projects      bool
	ResumeKeyword bool
}

func (s Signals) Count() int {
	n := 0
	for _, ok := range []bool{s.Email, s.Phone, s.Skills, s.Education, s.Experience, s.Projects, s.ResumeKeyword} {
		if ok {
			n++
		}
	}
	return n
}

func (e *Extractor) Signals(c domain.Claims, raw string) Signals {
	lower := strings.ToLower(raw)
	return Signals{
		Email:         c.Email != "",
		Phone:         c.Phone != "",
		Skills:        len(c.Skills) > 0,
		Education:     len(c.Education) > 0,
		Experience:    len(c.Experience) > 0,
		Projects:      len(c.Projects) > 0,
		ResumeKeyword: containsAny(lower, e.vocab.ResumeKeywords),
	}
}

// CheckResume rejects texts with too few résumé signals. Short texts need
// more than two.
func (e *Extractor) CheckResume(c domain.Claims, raw string) error {
	const op = "claims.check_resume"
	count := e.Signals(c, raw).Count()
	if count <= 1 || (count <= 2 && utf8.RuneCountInString(raw) < shortDocumentLength) {
		return domain.WrapError(domain.ErrNotAResume, op, fmt.Errorf("only %d resume signals found", count))
	}
	return nil
}
