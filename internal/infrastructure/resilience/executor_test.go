package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
)

func fastConfig(breaker bool) Config {
	return Config{
		RetryMaxAttempts:        3,
		RetryInitialBackoff:     time.Millisecond,
		RetryMaxBackoff:         2 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          breaker,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}
}

func TestExecuteRetriesRetryableFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(false))

	attempts := 0
	errFlaky := errors.New("flaky upstream")
	err := exec.Execute(context.Background(), "evidence.github.fetch", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errFlaky
		}
		return nil
	}, func(err error) ErrorClassification {
		return ErrorClassification{Retryable: errors.Is(err, errFlaky), RecordFailure: true}
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteStopsOnPermanentFailure(t *testing.T) {
	exec := NewExecutor(fastConfig(false))

	attempts := 0
	errMissing := errors.New("user missing")
	err := exec.Execute(context.Background(), "evidence.github.fetch", func(context.Context) error {
		attempts++
		return errMissing
	}, func(error) ErrorClassification {
		return ErrorClassification{}
	})
	if !errors.Is(err, errMissing) {
		t.Fatalf("Execute() error = %v, want %v", err, errMissing)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestCallReturnsValue(t *testing.T) {
	exec := NewExecutor(fastConfig(true))

	got, err := Call(context.Background(), exec, "evidence.twitter.fetch", func(context.Context) (int, error) {
		return 42, nil
	}, nil)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != 42 {
		t.Fatalf("Call() = %d, want 42", got)
	}
}

func TestExecuteOpensCircuitAndNotifiesObserver(t *testing.T) {
	cfg := fastConfig(true)
	cfg.RetryMaxAttempts = 1

	var transitions []gobreaker.State
	exec := NewExecutor(cfg, WithStateObserver(func(_ string, _, to gobreaker.State) {
		transitions = append(transitions, to)
	}))

	errDown := errors.New("down")
	classifier := func(error) ErrorClassification {
		return ErrorClassification{Retryable: false, RecordFailure: true}
	}
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "evidence.linkedin.fetch", func(context.Context) error {
			return errDown
		}, classifier)
		if !errors.Is(err, errDown) {
			t.Fatalf("iteration %d: Execute() error = %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "evidence.linkedin.fetch", func(context.Context) error {
		t.Fatalf("operation must not run while the circuit is open")
		return nil
	}, classifier)
	if !errors.Is(err, gobreaker.ErrOpenState) || !IsCircuitOpen(err) {
		t.Fatalf("Execute() error = %v, want open state", err)
	}
	if len(transitions) != 1 || transitions[0] != gobreaker.StateOpen {
		t.Fatalf("transitions = %v, want [open]", transitions)
	}
}

func TestExecuteIgnoresUnrecordedFailuresForBreaker(t *testing.T) {
	cfg := fastConfig(true)
	cfg.RetryMaxAttempts = 1
	exec := NewExecutor(cfg)

	errNotFound := errors.New("not found")
	for i := 0; i < 5; i++ {
		_ = exec.Execute(context.Background(), "evidence.github.fetch", func(context.Context) error {
			return errNotFound
		}, func(error) ErrorClassification { return ErrorClassification{} })
	}

	calls := 0
	err := exec.Execute(context.Background(), "evidence.github.fetch", func(context.Context) error {
		calls++
		return nil
	}, nil)
	if err != nil || calls != 1 {
		t.Fatalf("Execute() error = %v calls = %d, want closed breaker", err, calls)
	}
}

func TestPolicyOverridesRetriesByLongestPrefix(t *testing.T) {
	base := fastConfig(false)
	exec := NewExecutor(base,
		WithPolicy("evidence.", BreakerOnly(base)),
		WithPolicy("evidence.github.", base),
	)

	errFlaky := errors.New("flaky")
	retryable := func(error) ErrorClassification { return ErrorClassification{Retryable: true} }
	count := func(op string) int {
		attempts := 0
		_ = exec.Execute(context.Background(), op, func(context.Context) error {
			attempts++
			return errFlaky
		}, retryable)
		return attempts
	}

	if got := count("evidence.linkedin.fetch"); got != 1 {
		t.Fatalf("linkedin attempts = %d, want 1", got)
	}
	if got := count("evidence.github.fetch"); got != 3 {
		t.Fatalf("github attempts = %d, want 3", got)
	}
	if got := count("nats.publish_resume"); got != 3 {
		t.Fatalf("nats attempts = %d, want 3", got)
	}
}

func TestOpenBreakersListsTrippedOperations(t *testing.T) {
	cfg := BreakerOnly(fastConfig(true))
	exec := NewExecutor(cfg)

	if got := exec.OpenBreakers(); len(got) != 0 {
		t.Fatalf("OpenBreakers() = %v, want none", got)
	}

	errDown := errors.New("down")
	for i := 0; i < 2; i++ {
		_ = exec.Execute(context.Background(), "evidence.twitter.fetch", func(context.Context) error {
			return errDown
		}, nil)
	}
	_ = exec.Execute(context.Background(), "evidence.github.fetch", func(context.Context) error {
		return nil
	}, nil)

	got := exec.OpenBreakers()
	if len(got) != 1 || got[0] != "evidence.twitter.fetch" {
		t.Fatalf("OpenBreakers() = %v, want [evidence.twitter.fetch]", got)
	}
}
