package mcpadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

type pipelineFake struct {
	gotContent []byte
	gotExt     string
	gotUsers   domain.Usernames
	err        error
}

func (f *pipelineFake) ExtractClaims(_ context.Context, content []byte, ext string) (domain.Claims, error) {
	f.gotContent, f.gotExt = content, ext
	if f.err != nil {
		return domain.Claims{}, f.err
	}
	return domain.Claims{
		Name:             "Jane Doe",
		Skills:           []string{"Go"},
		CodeHostUsername: "janedoe",
	}, nil
}

func (f *pipelineFake) Verify(_ context.Context, claims domain.Claims, usernames domain.Usernames) domain.VerificationResult {
	f.gotUsers = usernames
	return domain.VerificationResult{VerifiedSkills: claims.Skills, UnverifiedSkills: []string{}}
}

func (f *pipelineFake) Score(domain.VerificationResult) domain.ScoreBreakdown {
	return domain.ScoreBreakdown{SkillsRatio: 100, Final: 30}
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", c)
		return ""
	}
}

func TestExtractClaimsFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "CV.PDF")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	pipeline := &pipelineFake{}
	res, err := New(pipeline, nil).ExtractClaims(context.Background(), callRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("ExtractClaims() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if pipeline.gotExt != "pdf" || string(pipeline.gotContent) != "%PDF-1.4" {
		t.Fatalf("pipeline got ext=%q content=%q", pipeline.gotExt, pipeline.gotContent)
	}

	var claims domain.Claims
	if err := json.Unmarshal([]byte(resultText(t, res)), &claims); err != nil {
		t.Fatalf("decode claims: %v", err)
	}
	if diff := cmp.Diff([]string{"Go"}, claims.Skills); diff != "" {
		t.Fatalf("skills mismatch (-want +got):\n%s", diff)
	}
}

func TestVerifyClaimsFromBase64UsesOverrides(t *testing.T) {
	pipeline := &pipelineFake{}
	res, err := New(pipeline, nil).VerifyClaims(context.Background(), callRequest(map[string]any{
		"content_base64": base64.StdEncoding.EncodeToString([]byte("docx-bytes")),
		"extension":      ".DOCX",
		"twitter":        "jane_tweets",
	}))
	if err != nil {
		t.Fatalf("VerifyClaims() error = %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	want := domain.Usernames{CodeHost: "janedoe", Social: "jane_tweets"}
	if diff := cmp.Diff(want, pipeline.gotUsers); diff != "" {
		t.Fatalf("usernames mismatch (-want +got):\n%s", diff)
	}
	if pipeline.gotExt != "docx" {
		t.Fatalf("extension = %q", pipeline.gotExt)
	}

	var out verifyResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.Band != domain.BandWeak || out.Score.Final != 30 {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestToolsReportBadInputAsToolErrors(t *testing.T) {
	s := New(&pipelineFake{}, nil)
	cases := []map[string]any{
		{},
		{"content_base64": "aGVsbG8="},
		{"content_base64": "***", "extension": "pdf"},
		{"path": filepath.Join(t.TempDir(), "missing.pdf")},
	}
	for _, args := range cases {
		res, err := s.ExtractClaims(context.Background(), callRequest(args))
		if err != nil {
			t.Fatalf("ExtractClaims(%v) error = %v", args, err)
		}
		if !res.IsError {
			t.Fatalf("ExtractClaims(%v) expected tool error", args)
		}
	}
}

func TestPipelineErrorsBecomeToolErrors(t *testing.T) {
	pipeline := &pipelineFake{err: domain.WrapError(domain.ErrNotAResume, "extract claims", errors.New("signals=1"))}
	res, err := New(pipeline, nil).VerifyClaims(context.Background(), callRequest(map[string]any{
		"content_base64": "aGVsbG8=",
		"extension":      "pdf",
	}))
	if err != nil {
		t.Fatalf("VerifyClaims() error = %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error")
	}
}
