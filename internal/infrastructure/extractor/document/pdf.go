package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

func openPDF(content []byte) (*pdf.Reader, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return reader, nil
}

// extractPDFLayout rebuilds lines from positioned text runs, keeping the visual row structure.
func extractPDFLayout(ctx context.Context, content []byte) (string, error) {
	reader, err := openPDF(content)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("page %d rows: %w", i, err)
		}
		for _, row := range rows {
			line := joinRow(row.Content)
			if strings.TrimSpace(line) == "" {
				continue
			}
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// joinRow inserts a space wherever the horizontal gap between runs looks like a word break.
func joinRow(texts pdf.TextHorizontal) string {
	var sb strings.Builder
	prevEnd := -1.0
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		if prevEnd >= 0 {
			gap := t.X - prevEnd
			threshold := t.FontSize * 0.15
			if threshold <= 0 {
				threshold = 1
			}
			if gap > threshold && !strings.HasPrefix(t.S, " ") && !strings.HasSuffix(sb.String(), " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return sb.String()
}

func extractPDFTextLayer(_ context.Context, content []byte) (string, error) {
	reader, err := openPDF(content)
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("plain text: %w", err)
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read plain text: %w", err)
	}
	return string(raw), nil
}

// extractPDFPages reads each page on its own so one broken page does not lose the rest.
func extractPDFPages(ctx context.Context, content []byte) (string, error) {
	reader, err := openPDF(content)
	if err != nil {
		return "", err
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := pageText(reader.Page(i))
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, text)
	}
	return strings.Join(pages, "\n\n"), nil
}

func pageText(page pdf.Page) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("page panic: %v", r)
		}
	}()
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
