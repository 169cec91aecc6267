package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

// Backend is one fallible way of turning document bytes into text.
type Backend struct {
	Name    string
	Extract func(ctx context.Context, content []byte) (string, error)
}

type Extractor struct {
	pdfBackends  []Backend
	docxBackends []Backend
	logger       *slog.Logger
}

// New builds an extractor with the default backend chains.
func New(logger *slog.Logger) *Extractor {
	return NewWithBackends(logger, DefaultPDFBackends(), []Backend{{Name: "docx", Extract: extractDOCX}})
}

func NewWithBackends(logger *slog.Logger, pdfBackends, docxBackends []Backend) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		pdfBackends:  pdfBackends,
		docxBackends: docxBackends,
		logger:       logger,
	}
}

// DefaultPDFBackends returns the PDF chain in priority order.
func DefaultPDFBackends() []Backend {
	return []Backend{
		{Name: "layout_rows", Extract: extractPDFLayout},
		{Name: "text_layer", Extract: extractPDFTextLayer},
		{Name: "content_stream", Extract: extractPDFStreams},
		{Name: "page_by_page", Extract: extractPDFPages},
	}
}

func (e *Extractor) Extract(ctx context.Context, doc domain.RawDocument) (domain.ExtractedText, error) {
	ext := NormalizeExtension(doc.Extension)

	var chain []Backend
	switch ext {
	case "pdf":
		chain = e.pdfBackends
	case "docx":
		chain = e.docxBackends
	default:
		return domain.ExtractedText{}, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"extract text",
			fmt.Errorf("extension %q, expected pdf or docx", doc.Extension),
		)
	}
	if len(doc.Content) == 0 {
		return domain.ExtractedText{}, domain.WrapError(domain.ErrExtractionFailed, "extract text", errors.New("empty document"))
	}

	var failures []string
	for _, backend := range chain {
		if err := ctx.Err(); err != nil {
			return domain.ExtractedText{}, err
		}

		raw, err := runBackend(ctx, backend, doc.Content)
		if err != nil {
			e.logger.DebugContext(ctx, "text_backend_failed", "backend", backend.Name, "format", ext, "error", err)
			failures = append(failures, backend.Name+": "+err.Error())
			continue
		}
		if strings.TrimSpace(raw) == "" {
			failures = append(failures, backend.Name+": empty text")
			continue
		}

		cleaned := CleanText(raw)
		if cleaned == "" {
			failures = append(failures, backend.Name+": empty after cleaning")
			continue
		}
		e.logger.DebugContext(ctx, "text_extracted", "backend", backend.Name, "format", ext, "chars", len(cleaned))
		return domain.ExtractedText{Cleaned: cleaned, Raw: raw}, nil
	}

	return domain.ExtractedText{}, domain.WrapError(
		domain.ErrExtractionFailed,
		"extract text",
		fmt.Errorf("all %s backends failed: %s", ext, strings.Join(failures, "; ")),
	)
}

// runBackend isolates a backend so that a panic inside a parser only skips that backend.
func runBackend(ctx context.Context, backend Backend, content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	if backend.Extract == nil {
		return "", errors.New("backend not configured")
	}
	return backend.Extract(ctx, content)
}

// NormalizeExtension accepts "pdf", ".PDF", "resume.pdf" and similar.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if i := strings.LastIndex(ext, "."); i >= 0 {
		ext = ext[i+1:]
	}
	return ext
}
