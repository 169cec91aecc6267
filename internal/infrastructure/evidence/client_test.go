package evidence

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/reality-check/internal/core/domain"
	"github.com/kirillkom/reality-check/internal/infrastructure/cache"
)

func fastClient(attempts uint) *Client {
	return NewClient(ClientConfig{
		Timeout:       2 * time.Second,
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
	}, nil)
}

func TestGetRetriesServiceUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := fastClient(3).GetJSON(context.Background(), srv.URL, nil, &out, "test.get"); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if !out.OK || calls.Load() != 2 {
		t.Fatalf("ok = %v calls = %d, want true after 2 calls", out.OK, calls.Load())
	}
}

func TestGetDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}))
	defer srv.Close()

	_, err := fastClient(3).Get(context.Background(), srv.URL, nil, "test.get")
	if StatusCode(err) != http.StatusNotFound {
		t.Fatalf("Get() error = %v, want 404 status error", err)
	}
	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.Body != `{"message":"Not Found"}` {
		t.Fatalf("status error = %#v", statusErr)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		retry  bool
		record bool
	}{
		{name: "cancelled", err: context.Canceled},
		{name: "user not found", err: domain.WrapError(domain.ErrUserNotFound, "github.fetch", &HTTPStatusError{StatusCode: 404})},
		{name: "throttled", err: &HTTPStatusError{StatusCode: http.StatusTooManyRequests}, retry: true, record: true},
		{name: "forbidden", err: &HTTPStatusError{StatusCode: http.StatusForbidden}},
		{name: "unknown", err: errors.New("boom"), record: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyError(tc.err)
			if got.Retryable != tc.retry || got.RecordFailure != tc.record {
				t.Fatalf("ClassifyError() = %+v, want retry=%v record=%v", got, tc.retry, tc.record)
			}
		})
	}
}

type countingSource struct {
	calls int
	err   error
}

func (s *countingSource) Name() domain.SourceKind { return domain.SourceCodeHost }

func (s *countingSource) Fetch(_ context.Context, username string) (domain.RawEvidence, error) {
	s.calls++
	if s.err != nil {
		return domain.RawEvidence{}, s.err
	}
	return domain.RawEvidence{Username: username, Contributions: 500}, nil
}

func (s *countingSource) Match(_, _ []string, _ domain.RawEvidence) domain.MatchResult {
	return domain.NewMatchResult()
}

func TestWithCacheServesRepeatFetches(t *testing.T) {
	inner := &countingSource{}
	src := WithCache(inner, cache.NewEvidenceCache(time.Minute, time.Minute), nil)

	for i := 0; i < 3; i++ {
		raw, err := src.Fetch(context.Background(), "jane")
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if raw.Contributions != 500 {
			t.Fatalf("contributions = %d", raw.Contributions)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
	if src.Name() != domain.SourceCodeHost {
		t.Fatalf("Name() = %q", src.Name())
	}
}

func TestWithCacheSkipsFailures(t *testing.T) {
	inner := &countingSource{err: errors.New("down")}
	src := WithCache(inner, cache.NewEvidenceCache(time.Minute, time.Minute), nil)

	for i := 0; i < 2; i++ {
		if _, err := src.Fetch(context.Background(), "jane"); err == nil {
			t.Fatalf("Fetch() error = nil, want failure")
		}
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2", inner.calls)
	}
}
