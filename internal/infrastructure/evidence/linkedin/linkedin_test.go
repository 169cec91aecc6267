package linkedin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/infrastructure/evidence"
)

func testClient() *evidence.Client {
	return evidence.NewClient(evidence.ClientConfig{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
		Timeout:       2 * time.Second,
	}, nil)
}

func TestFetchUsesMockWithoutRealLookup(t *testing.T) {
	raw, err := New(WithRapidAPIKey("unused")).Fetch(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !raw.Mocked || raw.Profile == nil || raw.Profile.Method != MethodMock {
		t.Fatalf("raw = %+v, want mock profile", raw)
	}
	if raw.Profile.Name != "John Doe" {
		t.Fatalf("profile name = %q", raw.Profile.Name)
	}
}

func TestFetchFallsThroughProviders(t *testing.T) {
	var gotRapidKey, gotBearer, gotProfileQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("/rapid", func(w http.ResponseWriter, r *http.Request) {
		gotRapidKey = r.Header.Get("X-RapidAPI-Key")
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/proxycurl", func(w http.ResponseWriter, r *http.Request) {
		gotBearer = r.Header.Get("Authorization")
		gotProfileQuery = r.URL.Query().Get("url")
		_, _ = w.Write([]byte(`{
			"first_name": "Jane", "last_name": "Doe",
			"headline": "Backend Engineer",
			"skills": [{"name": "Go"}, "Kubernetes"],
			"experiences": [{"title": "Engineer", "company": "Acme", "description": "Built billing in Go"}]
		}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	src := New(
		WithRealLookup(true, "token"),
		WithRapidAPIKey("rapid-key"),
		WithProxycurlKey("curl-key"),
		WithEndpoints(srv.URL+"/rapid", srv.URL+"/proxycurl", ""),
		WithClient(testClient()),
	)
	raw, err := src.Fetch(context.Background(), "jane-doe")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotRapidKey != "rapid-key" || gotBearer != "Bearer curl-key" {
		t.Fatalf("headers rapid = %q bearer = %q", gotRapidKey, gotBearer)
	}
	if gotProfileQuery != "https://linkedin.com/in/jane-doe" {
		t.Fatalf("profile query = %q", gotProfileQuery)
	}
	want := &domain.Profile{
		Name:       "Jane Doe",
		Headline:   "Backend Engineer",
		Skills:     []string{"Go", "Kubernetes"},
		Experience: []domain.ProfileExperience{{Title: "Engineer", Company: "Acme", Description: "Built billing in Go"}},
		Method:     MethodProxycurl,
	}
	if diff := cmp.Diff(want, raw.Profile); diff != "" {
		t.Fatalf("profile mismatch (-want +got):\n%s", diff)
	}
	if raw.Mocked {
		t.Fatalf("live profile marked as mocked")
	}
}

func TestFetchVerifiesProfilePage(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantMethod string
		wantURL    bool
	}{
		{name: "exists", status: http.StatusOK, body: `<html><head><title>Jane Doe | LinkedIn</title></head></html>`, wantMethod: MethodURLVerified, wantURL: true},
		{name: "missing page", status: http.StatusNotFound, wantMethod: MethodMockOnly},
		{name: "soft 404", status: http.StatusOK, body: `<html><title>Page Not Found | LinkedIn</title></html>`, wantMethod: MethodMockOnly},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotUA string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUA = r.Header.Get("User-Agent")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			src := New(
				WithRealLookup(true, "token"),
				WithEndpoints("", "", srv.URL+"/in"),
				WithClient(testClient()),
			)
			raw, err := src.Fetch(context.Background(), "jane-doe")
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if raw.Profile.Method != tc.wantMethod {
				t.Fatalf("method = %q, want %q", raw.Profile.Method, tc.wantMethod)
			}
			if (raw.Profile.ProfileURL != "") != tc.wantURL {
				t.Fatalf("profile url = %q", raw.Profile.ProfileURL)
			}
			if gotUA != browserUserAgent {
				t.Fatalf("User-Agent = %q", gotUA)
			}
		})
	}
}

func TestMatchAgainstMockProfile(t *testing.T) {
	raw := domain.RawEvidence{Profile: MockProfile()}

	got := New().Match(
		[]string{"react", "Express", "COBOL"},
		[]string{"E-commerce API", "e-commerce platform", "Quantum Toaster"},
		raw,
	)

	if diff := cmp.Diff([]string{"react", "Express"}, got.VerifiedSkills); diff != "" {
		t.Fatalf("verified skills mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"E-commerce API", "e-commerce platform"}, got.VerifiedProjects); diff != "" {
		t.Fatalf("verified projects mismatch (-want +got):\n%s", diff)
	}
	wantProof := map[string][]string{
		"react": {"Listed on LinkedIn profile as 'React'", "Endorsed by 20 connections"},
		"Express": {
			"Mentioned in experience: Full Stack Developer at WebSolutions Co.",
			"Description: 'Developed RESTful APIs using Node.js and Express, and built frontend applications with React and Tailwind CSS.'",
		},
		"E-commerce API": {
			"Listed on LinkedIn profile",
			"Description: 'RESTful API for an e-commerce platform built with Node.js, Express, and MongoDB.'",
		},
		"e-commerce platform": {
			"Listed on LinkedIn profile",
			"Description: 'RESTful API for an e-commerce platform built with Node.js, Express, and MongoDB.'",
		},
	}
	if diff := cmp.Diff(wantProof, got.Proof); diff != "" {
		t.Fatalf("proof mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchTeamSkillsAndEducationProjects(t *testing.T) {
	profile := &domain.Profile{
		Experience: []domain.ProfileExperience{
			{Title: "Hackathon Finalist", Company: "ETHGlobal", Description: "Shipped a payments dApp in 36 hours"},
			{Title: "Engineer", Company: "Acme", Description: "Worked in a cross-functional team on billing"},
		},
		Education: []domain.ProfileEducation{
			{School: "State University", Degree: "BSc", Description: "Built Campus Map as a group project"},
		},
	}
	raw := domain.RawEvidence{Profile: profile}

	got := New().Match([]string{"Leadership", "Communication Skills"}, []string{"Campus Map"}, raw)

	wantProof := map[string][]string{
		"Leadership": {
			"Demonstrated in hackathon: Hackathon Finalist at ETHGlobal",
			"Description: 'Shipped a payments dApp in 36 hours'",
		},
		"Communication Skills": {
			"Demonstrated in hackathon: Hackathon Finalist at ETHGlobal",
			"Description: 'Shipped a payments dApp in 36 hours'",
		},
		"Campus Map": {
			"Team project during education: BSc at State University",
			"Description: 'Built Campus Map as a group project'",
		},
	}
	if diff := cmp.Diff(wantProof, got.Proof); diff != "" {
		t.Fatalf("proof mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchTeamSkillFromExperienceWording(t *testing.T) {
	profile := &domain.Profile{
		Experience: []domain.ProfileExperience{
			{Title: "Engineer", Company: "Acme", Description: "Worked in a cross-functional team on billing"},
		},
	}
	got := New().Match([]string{"Teamwork"}, nil, domain.RawEvidence{Profile: profile})
	want := []string{
		"Team skill demonstrated in: Engineer at Acme",
		"Description mentions teamwork: 'Worked in a cross-functional team on billing'",
	}
	if diff := cmp.Diff(want, got.Proof["Teamwork"]); diff != "" {
		t.Fatalf("proof mismatch (-want +got):\n%s", diff)
	}
}

func TestMatchShortSkillsIgnoreWordFragments(t *testing.T) {
	got := New().Match([]string{"R", "Go"}, nil, domain.RawEvidence{Profile: MockProfile()})
	if len(got.VerifiedSkills) != 0 {
		t.Fatalf("verified skills = %v, want none", got.VerifiedSkills)
	}
}

func TestMatchWithoutProfileIsEmpty(t *testing.T) {
	got := New().Match([]string{"Go"}, []string{"Anything"}, domain.RawEvidence{})
	if len(got.VerifiedSkills) != 0 || len(got.VerifiedProjects) != 0 {
		t.Fatalf("got %+v, want empty result", got)
	}
}
