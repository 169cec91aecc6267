package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// extractDOCX returns body paragraphs first, then table rows.
func extractDOCX(_ context.Context, content []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open docx archive: %w", err)
	}

	var part *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			part = f
			break
		}
	}
	if part == nil {
		return "", errors.New("docx: word/document.xml not found")
	}

	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open document part: %w", err)
	}
	defer rc.Close()

	paragraphs, rows, err := parseDocumentXML(rc)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(paragraphs)+len(rows))
	lines = append(lines, paragraphs...)
	lines = append(lines, rows...)
	return strings.Join(lines, "\n"), nil
}

func parseDocumentXML(r io.Reader) (paragraphs []string, rows []string, err error) {
	dec := xml.NewDecoder(r)

	var (
		tableDepth int
		para       strings.Builder
		inPara     bool
		cells      []string
		cellParas  []string
	)

	for {
		tok, tokErr := dec.Token()
		if errors.Is(tokErr, io.EOF) {
			break
		}
		if tokErr != nil {
			return nil, nil, fmt.Errorf("parse document xml: %w", tokErr)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tr":
				if tableDepth == 1 {
					cells = cells[:0]
				}
			case "tc":
				if tableDepth == 1 {
					cellParas = cellParas[:0]
				}
			case "p":
				inPara = true
				para.Reset()
			case "t":
				if !inPara {
					continue
				}
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return nil, nil, fmt.Errorf("decode text run: %w", err)
				}
				para.WriteString(text)
			case "tab":
				if inPara {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				inPara = false
				text := strings.TrimSpace(para.String())
				if text == "" {
					continue
				}
				if tableDepth == 0 {
					paragraphs = append(paragraphs, text)
				} else {
					cellParas = append(cellParas, text)
				}
			case "tc":
				if tableDepth == 1 {
					cells = append(cells, strings.Join(cellParas, " "))
				}
			case "tr":
				if tableDepth == 1 {
					row := strings.TrimSpace(strings.Join(cells, " "))
					if row != "" {
						rows = append(rows, row)
					}
				}
			case "tbl":
				tableDepth--
			}
		}
	}
	return paragraphs, rows, nil
}
