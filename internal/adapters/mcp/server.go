// Package mcpadapter exposes the claim pipeline as MCP tools so assistants
// can score a resume file without going through the HTTP API.
package mcpadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
)

const maxDocumentBytes = 20 << 20

type Server struct {
	pipeline ports.ClaimPipeline
	logger   *slog.Logger
}

func New(pipeline ports.ClaimPipeline, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{pipeline: pipeline, logger: logger}
}

// MCPServer registers the tools on a fresh server.
func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer("reality-check", version, server.WithToolCapabilities(false))

	documentArgs := []mcp.ToolOption{
		mcp.WithString("path", mcp.Description("Path to a PDF or DOCX resume on the server's filesystem.")),
		mcp.WithString("content_base64", mcp.Description("Resume bytes, base64 encoded. Used when path is empty.")),
		mcp.WithString("extension", mcp.Description("pdf or docx. Required with content_base64.")),
	}

	srv.AddTool(mcp.NewTool("extract_claims", append([]mcp.ToolOption{
		mcp.WithDescription("Extract skills, projects, contacts, experience and education from a resume."),
	}, documentArgs...)...), s.ExtractClaims)

	srv.AddTool(mcp.NewTool("verify_claims", append([]mcp.ToolOption{
		mcp.WithDescription("Extract claims from a resume, check them against GitHub, Twitter and LinkedIn and return the reality score."),
		mcp.WithString("github", mcp.Description("GitHub username. Defaults to the one found in the resume.")),
		mcp.WithString("twitter", mcp.Description("Twitter handle. Defaults to the one found in the resume.")),
		mcp.WithString("linkedin", mcp.Description("LinkedIn profile id. Defaults to the one found in the resume.")),
	}, documentArgs...)...), s.VerifyClaims)

	return srv
}

// ServeStdio blocks until stdin closes.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}

func (s *Server) ExtractClaims(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, ext, err := documentFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	claims, err := s.pipeline.ExtractClaims(ctx, content, ext)
	if err != nil {
		return s.toolError("extract_claims", err), nil
	}
	return jsonResult(claims)
}

type verifyResult struct {
	Claims       domain.Claims             `json:"claims"`
	Verification domain.VerificationResult `json:"verification"`
	Score        domain.ScoreBreakdown     `json:"score"`
	Band         domain.ScoreBand          `json:"band"`
}

func (s *Server) VerifyClaims(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, ext, err := documentFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	claims, err := s.pipeline.ExtractClaims(ctx, content, ext)
	if err != nil {
		return s.toolError("verify_claims", err), nil
	}

	usernames := domain.Usernames{
		CodeHost:     req.GetString("github", ""),
		Social:       req.GetString("twitter", ""),
		Professional: req.GetString("linkedin", ""),
	}.Resolve(claims)
	result := s.pipeline.Verify(ctx, claims, usernames)
	score := s.pipeline.Score(result)

	return jsonResult(verifyResult{
		Claims:       claims,
		Verification: result,
		Score:        score,
		Band:         score.Band(),
	})
}

// toolError reports expected failures to the caller as tool errors and
// logs the rest.
func (s *Server) toolError(tool string, err error) *mcp.CallToolResult {
	switch {
	case domain.IsKind(err, domain.ErrUnsupportedFormat),
		domain.IsKind(err, domain.ErrExtractionFailed),
		domain.IsKind(err, domain.ErrNotAResume):
	default:
		s.logger.Error("mcp_tool_failed", "tool", tool, "error", err)
	}
	return mcp.NewToolResultError(err.Error())
}

func documentFromRequest(req mcp.CallToolRequest) ([]byte, string, error) {
	path := strings.TrimSpace(req.GetString("path", ""))
	if path != "" {
		content, err := readLimited(path)
		if err != nil {
			return nil, "", err
		}
		return content, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."), nil
	}

	encoded := strings.TrimSpace(req.GetString("content_base64", ""))
	if encoded == "" {
		return nil, "", errors.New("either path or content_base64 is required")
	}
	ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(req.GetString("extension", ""))), ".")
	if ext == "" {
		return nil, "", errors.New("extension is required with content_base64")
	}
	content, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode content_base64: %w", err)
	}
	if len(content) > maxDocumentBytes {
		return nil, "", fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}
	return content, ext, nil
}

func readLimited(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	if len(content) > maxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}
	return content, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
