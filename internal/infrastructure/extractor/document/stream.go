package document

import (
	"bytes"
	"compress/zlib"
	"context"
	"io"
	"strconv"
	"strings"
)

const maxInflatedStream = 8 << 20

var (
	streamKeyword    = []byte("stream")
	endstreamKeyword = []byte("endstream")
)

// extractPDFStreams is a minimal reader that inflates content streams and pulls string
// operands of text-showing operators. It needs no cross-reference table, so it still works
// on files whose structure is too damaged for a full parser.
func extractPDFStreams(ctx context.Context, content []byte) (string, error) {
	var sb strings.Builder
	rest := content
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		start := bytes.Index(rest, streamKeyword)
		if start < 0 {
			break
		}
		// Skip the "stream" that is part of "endstream".
		if start >= 3 && bytes.Equal(rest[start-3:start], []byte("end")) {
			rest = rest[start+len(streamKeyword):]
			continue
		}
		body := rest[start+len(streamKeyword):]
		body = bytes.TrimLeft(body, "\r\n")
		end := bytes.Index(body, endstreamKeyword)
		if end < 0 {
			break
		}
		data := body[:end]
		rest = body[end+len(endstreamKeyword):]

		if inflated, ok := inflate(data); ok {
			data = inflated
		}
		if text := textFromContentStream(data); strings.TrimSpace(text) != "" {
			sb.WriteString(text)
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

func inflate(data []byte) ([]byte, bool) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, maxInflatedStream))
	if err != nil && len(out) == 0 {
		return nil, false
	}
	return out, true
}

// textFromContentStream understands Tj, TJ, ', " and the line-moving operators.
func textFromContentStream(data []byte) string {
	var (
		sb      strings.Builder
		pending []string
		inText  bool
	)
	flush := func(sep string) {
		if len(pending) == 0 {
			return
		}
		sb.WriteString(strings.Join(pending, sep))
		pending = pending[:0]
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '(':
			s, next := readLiteralString(data, i)
			pending = append(pending, s)
			i = next
		case c == '[':
			s, next := readTextArray(data, i)
			pending = append(pending, s)
			i = next
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case isOperatorStart(c):
			j := i
			for j < len(data) && isOperatorStart(data[j]) {
				j++
			}
			op := string(data[i:j])
			i = j
			switch op {
			case "BT":
				inText = true
			case "ET":
				flush("")
				if inText {
					sb.WriteByte('\n')
				}
				inText = false
			case "Tj", "TJ":
				flush("")
			case "'", "\"":
				sb.WriteByte('\n')
				flush("")
			case "T*", "Td", "TD":
				flush("")
				sb.WriteByte('\n')
			default:
				// Operands that are not text belong to another operator.
				if op != "Tf" && op != "Tm" && op != "Tc" && op != "Tw" && op != "TL" {
					pending = pending[:0]
				}
			}
		default:
			i++
		}
	}
	flush("")
	return sb.String()
}

func isOperatorStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '\'' || c == '"' || c == '*'
}

// readLiteralString reads a balanced (...) string starting at data[start] == '('.
func readLiteralString(data []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(data) {
		c := data[i]
		switch c {
		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return sb.String(), i
			}
			sb.WriteByte(c)
		case '\\':
			if i+1 >= len(data) {
				return sb.String(), len(data)
			}
			next := data[i+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
				i += 2
			case 'r':
				sb.WriteByte('\r')
				i += 2
			case 't':
				sb.WriteByte('\t')
				i += 2
			case 'b', 'f':
				i += 2
			case '(', ')', '\\':
				sb.WriteByte(next)
				i += 2
			case '\r', '\n':
				i += 2
			default:
				if next >= '0' && next <= '7' {
					j := i + 1
					for j < len(data) && j < i+4 && data[j] >= '0' && data[j] <= '7' {
						j++
					}
					if v, err := strconv.ParseUint(string(data[i+1:j]), 8, 8); err == nil {
						sb.WriteByte(byte(v))
					}
					i = j
				} else {
					sb.WriteByte(next)
					i += 2
				}
			}
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

// readTextArray reads a TJ operand, turning wide negative kerning into spaces.
func readTextArray(data []byte, start int) (string, int) {
	var sb strings.Builder
	i := start + 1
	for i < len(data) && data[i] != ']' {
		c := data[i]
		switch {
		case c == '(':
			s, next := readLiteralString(data, i)
			sb.WriteString(s)
			i = next
		case c == '-' || (c >= '0' && c <= '9') || c == '.':
			j := i + 1
			for j < len(data) && ((data[j] >= '0' && data[j] <= '9') || data[j] == '.') {
				j++
			}
			if v, err := strconv.ParseFloat(string(data[i:j]), 64); err == nil && v < -200 {
				sb.WriteByte(' ')
			}
			i = j
		default:
			i++
		}
	}
	if i < len(data) {
		i++
	}
	return sb.String(), i
}
