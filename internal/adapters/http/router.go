package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oapi-codegen/runtime"

	"github.com/kirillkom/reality-check/internal/config"
	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/core/ports"
)

const maxJSONBody = 64 << 10

// Services are the inbound ports served over HTTP.
type Services struct {
	Ingest   ports.ResumeIngestor
	Reader   ports.ResumeReader
	Verifier ports.ResumeVerifier
	Reports  ports.ReportExporter
	Invites  ports.InviteSender
}

// ScoreRecorder receives every score computed by a synchronous verification.
type ScoreRecorder interface {
	RecordScore(score domain.ScoreBreakdown)
}

type Option func(*Router)

func WithLogger(logger *slog.Logger) Option {
	return func(rt *Router) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

func WithScoreRecorder(recorder ScoreRecorder) Option {
	return func(rt *Router) { rt.scores = recorder }
}

// WithBreakerStatus reports the outbound operations currently failing fast
// on /healthz.
func WithBreakerStatus(openBreakers func() []string) Option {
	return func(rt *Router) { rt.openBreakers = openBreakers }
}

// WithOpenAPI enables request validation against doc.
func WithOpenAPI(doc *openapi3.T) Option {
	return func(rt *Router) { rt.openapi = doc }
}

type Router struct {
	cfg     config.Config
	svc     Services
	logger  *slog.Logger
	scores  ScoreRecorder
	openapi *openapi3.T

	openBreakers func() []string
}

func NewRouter(cfg config.Config, svc Services, opts ...Option) *Router {
	rt := &Router{cfg: cfg, svc: svc, logger: slog.Default()}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("GET /openapi.yaml", rt.openAPIDocument)
	mux.HandleFunc("POST /v1/resumes", rt.uploadResume)
	mux.HandleFunc("GET /v1/resumes/{id}", rt.getResume)
	mux.HandleFunc("GET /v1/resumes/{id}/score", rt.getScore)
	mux.HandleFunc("POST /v1/resumes/{id}/verify", rt.verifyResume)
	mux.HandleFunc("GET /v1/resumes/{id}/report.xlsx", rt.downloadReport)
	mux.HandleFunc("POST /v1/resumes/{id}/invite", rt.inviteCandidate)

	var handler http.Handler = mux
	if rt.openapi != nil {
		validated, err := openAPIValidationMiddleware(rt.openapi, handler)
		if err != nil {
			return nil, err
		}
		handler = validated
	}
	handler = backpressureMiddleware(handler, rt.cfg.APIBackpressureMaxInFlight, rt.cfg.BackpressureWait())
	handler = rateLimitMiddleware(handler, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(rt.logger, handler)
	return requestIDMiddleware(handler), nil
}

type healthResponse struct {
	Status       string   `json:"status"`
	OpenBreakers []string `json:"open_breakers,omitempty"`
}

// healthz stays 200 while breakers are open: sources degrade to empty
// snapshots, they do not take the service down.
func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := healthResponse{Status: "ok"}
	if rt.openBreakers != nil {
		if open := rt.openBreakers(); len(open) > 0 {
			resp.Status = "degraded"
			resp.OpenBreakers = open
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openAPISpec)
}

func (rt *Router) uploadResume(w http.ResponseWriter, r *http.Request) {
	if rt.cfg.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, int64(rt.cfg.MaxUploadBytes))
	}
	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, r, http.StatusRequestEntityTooLarge, "resume file is too large")
			return
		}
		writeJSONError(w, r, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	resume, err := rt.svc.Ingest.Upload(r.Context(), ports.UploadRequest{
		Filename: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Body:     file,
		Usernames: domain.Usernames{
			CodeHost:     r.FormValue("github"),
			Social:       r.FormValue("twitter"),
			Professional: r.FormValue("linkedin"),
		},
	})
	if err != nil {
		writeError(rt.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, resume)
}

func (rt *Router) getResume(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resumeID(w, r)
	if !ok {
		return
	}
	resume, err := rt.svc.Reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(rt.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}

type scoreResponse struct {
	ResumeID           string                `json:"resume_id"`
	Score              domain.ScoreBreakdown `json:"score"`
	Band               domain.ScoreBand      `json:"band"`
	VerifiedSkills     []string              `json:"verified_skills"`
	UnverifiedSkills   []string              `json:"unverified_skills"`
	VerifiedProjects   []string              `json:"verified_projects"`
	UnverifiedProjects []string              `json:"unverified_projects"`
}

// getScore answers 409 until the worker has stored a score.
func (rt *Router) getScore(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resumeID(w, r)
	if !ok {
		return
	}
	resume, err := rt.svc.Reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(rt.logger, w, r, err)
		return
	}
	if resume.Score == nil || resume.Verification == nil {
		reason := fmt.Errorf("resume %s is %s", id, resume.Status)
		if resume.Error != "" {
			reason = fmt.Errorf("resume %s failed: %s", id, resume.Error)
		}
		writeError(rt.logger, w, r, domain.WrapError(domain.ErrVerificationNotReady, "get score", reason))
		return
	}
	v := resume.Verification
	writeJSON(w, http.StatusOK, scoreResponse{
		ResumeID:           resume.ID,
		Score:              *resume.Score,
		Band:               resume.Score.Band(),
		VerifiedSkills:     v.VerifiedSkills,
		UnverifiedSkills:   v.UnverifiedSkills,
		VerifiedProjects:   v.VerifiedProjects,
		UnverifiedProjects: v.UnverifiedProjects,
	})
}

type verifyResponse struct {
	ResumeID     string                    `json:"resume_id"`
	Verification domain.VerificationResult `json:"verification"`
	Score        domain.ScoreBreakdown     `json:"score"`
	Band         domain.ScoreBand          `json:"band"`
}

func (rt *Router) verifyResume(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resumeID(w, r)
	if !ok {
		return
	}
	var usernames domain.Usernames
	if !rt.decodeOptionalJSON(w, r, &usernames) {
		return
	}

	resume, err := rt.svc.Verifier.VerifyByID(r.Context(), id, usernames)
	if err != nil {
		writeError(rt.logger, w, r, err)
		return
	}
	if resume.Verification == nil || resume.Score == nil {
		writeError(rt.logger, w, r, fmt.Errorf("verify %s returned no score", id))
		return
	}
	if rt.scores != nil {
		rt.scores.RecordScore(*resume.Score)
	}
	writeJSON(w, http.StatusOK, verifyResponse{
		ResumeID:     resume.ID,
		Verification: *resume.Verification,
		Score:        *resume.Score,
		Band:         resume.Score.Band(),
	})
}

func (rt *Router) downloadReport(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resumeID(w, r)
	if !ok {
		return
	}
	download := true
	if err := runtime.BindQueryParameter("form", true, false, "download", r.URL.Query(), &download); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid download parameter: %v", err))
		return
	}

	// Render fully before writing so failures still map to a status code.
	var buf bytes.Buffer
	if err := rt.svc.Reports.RenderReport(r.Context(), id, &buf); err != nil {
		writeError(rt.logger, w, r, err)
		return
	}

	disposition := "inline"
	if download {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", rt.svc.Reports.ReportContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="reality-check-%s.xlsx"`, disposition, id))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, &buf)
}

func (rt *Router) inviteCandidate(w http.ResponseWriter, r *http.Request) {
	id, ok := rt.resumeID(w, r)
	if !ok {
		return
	}
	var req domain.InviteRequest
	if !rt.decodeOptionalJSON(w, r, &req) {
		return
	}

	invite, err := rt.svc.Invites.Invite(r.Context(), id, req)
	if err != nil {
		writeError(rt.logger, w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, invite)
}

func (rt *Router) resumeID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", r.PathValue("id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || strings.TrimSpace(id) == "" {
		writeJSONError(w, r, http.StatusBadRequest, "resume id is required")
		return "", false
	}
	return id, true
}

// decodeOptionalJSON accepts an empty body and leaves dst untouched.
func (rt *Router) decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxJSONBody+1))
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "could not read request body")
		return false
	}
	if len(body) > maxJSONBody {
		writeJSONError(w, r, http.StatusRequestEntityTooLarge, "request body is too large")
		return false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
