package document

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

func backend(name, text string, err error) Backend {
	return Backend{Name: name, Extract: func(context.Context, []byte) (string, error) { return text, err }}
}

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	ex := New(nil)
	_, err := ex.Extract(context.Background(), domain.RawDocument{Content: []byte("x"), Extension: "txt"})
	if !domain.IsKind(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractFirstNonEmptyBackendWins(t *testing.T) {
	var calls []string
	track := func(name, text string, err error) Backend {
		return Backend{Name: name, Extract: func(context.Context, []byte) (string, error) {
			calls = append(calls, name)
			return text, err
		}}
	}
	panicky := Backend{Name: "panics", Extract: func(context.Context, []byte) (string, error) {
		calls = append(calls, "panics")
		panic("corrupt xref")
	}}

	ex := NewWithBackends(nil, []Backend{
		track("first", "", errors.New("boom")),
		panicky,
		track("third", "   ", nil),
		track("fourth", "Skills:   Go", nil),
		track("fifth", "never", nil),
	}, nil)

	got, err := ex.Extract(context.Background(), domain.RawDocument{Content: []byte("%PDF"), Extension: ".PDF"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Cleaned != "Skills: Go" || got.Raw != "Skills:   Go" {
		t.Fatalf("unexpected text: %+v", got)
	}
	want := []string{"first", "panics", "third", "fourth"}
	if len(calls) != len(want) {
		t.Fatalf("backend calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("backend calls = %v, want %v", calls, want)
		}
	}
}

func TestExtractFailsWhenAllBackendsFail(t *testing.T) {
	ex := NewWithBackends(nil, []Backend{
		backend("a", "", errors.New("bad")),
		backend("b", "", nil),
	}, nil)
	_, err := ex.Extract(context.Background(), domain.RawDocument{Content: []byte("%PDF"), Extension: "pdf"})
	if !domain.IsKind(err, domain.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractDOCXThroughExtractor(t *testing.T) {
	content := buildDOCX(t, `<w:p><w:r><w:t>Experience</w:t></w:r></w:p>`)
	got, err := New(nil).Extract(context.Background(), domain.RawDocument{Content: content, Extension: "docx"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got.Cleaned != "Experience" {
		t.Fatalf("unexpected cleaned text %q", got.Cleaned)
	}
}

func TestNormalizeExtension(t *testing.T) {
	for in, want := range map[string]string{"pdf": "pdf", ".DOCX": "docx", "cv.final.pdf": "pdf", " PDF ": "pdf"} {
		if got := NormalizeExtension(in); got != want {
			t.Fatalf("NormalizeExtension(%q) = %q, want %q", in, got, want)
		}
	}
}
