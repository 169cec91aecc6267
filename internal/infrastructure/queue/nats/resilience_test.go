package nats

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/sony/gobreaker/v2"

	"github.com/kirillkom/reality-check/internal/core/domain"
)

func TestClassifyNATSError(t *testing.T) {
	cases := []struct {
		name          string
		err           error
		retryable     bool
		recordFailure bool
	}{
		{name: "canceled", err: context.Canceled},
		{name: "no servers", err: fmt.Errorf("publish: %w", nats.ErrNoServers), retryable: true, recordFailure: true},
		{name: "reconnecting", err: nats.ErrConnectionReconnecting, retryable: true, recordFailure: true},
		{name: "bad subject", err: nats.ErrBadSubject, recordFailure: true},
		{name: "breaker open", err: gobreaker.ErrOpenState, recordFailure: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyNATSError(tc.err)
			if got.Retryable != tc.retryable || got.RecordFailure != tc.recordFailure {
				t.Fatalf("classifyNATSError(%v) = %+v", tc.err, got)
			}
		})
	}
}

func TestWrapTemporaryIfNeeded(t *testing.T) {
	err := wrapTemporaryIfNeeded("nats.publish_resume", nats.ErrTimeout)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("timeout error = %v, want ErrTemporary", err)
	}
	if !errors.Is(err, nats.ErrTimeout) {
		t.Fatalf("wrapped error lost cause: %v", err)
	}

	err = wrapTemporaryIfNeeded("nats.publish_resume", gobreaker.ErrOpenState)
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("open breaker error = %v, want ErrTemporary", err)
	}

	plain := errors.New("payload too large")
	if got := wrapTemporaryIfNeeded("nats.publish_invite", plain); got != plain {
		t.Fatalf("permanent error rewritten: %v", got)
	}
}
