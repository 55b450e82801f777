package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

func TestWithBackoff(t *testing.T) {
	serverErr := &HTTPError{StatusCode: 500, Message: "Server Error"}
	notFound := &HTTPError{StatusCode: 404, Message: "Not Found"}

	tests := []struct {
		name         string
		failures     int
		err          error
		wantAttempts int
		wantErr      error
	}{
		{name: "first attempt succeeds", failures: 0, err: serverErr, wantAttempts: 1},
		{name: "succeeds on third attempt", failures: 2, err: serverErr, wantAttempts: 3},
		{name: "attempts exhausted", failures: 10, err: serverErr, wantAttempts: 3, wantErr: serverErr},
		{name: "non-retryable stops immediately", failures: 10, err: notFound, wantAttempts: 1, wantErr: notFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := WithBackoff(context.Background(), fastConfig(3), func() error {
				attempts++
				if attempts <= tt.failures {
					return tt.err
				}
				return nil
			})

			if attempts != tt.wantAttempts {
				t.Errorf("attempts = %d, want %d", attempts, tt.wantAttempts)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v in chain, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := WithBackoff(ctx, fastConfig(5), func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return &HTTPError{StatusCode: 503, Message: "Unavailable"}
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{name: "nil error", err: nil, retryable: false},
		{name: "context canceled", err: context.Canceled, retryable: false},
		{name: "deadline exceeded", err: context.DeadlineExceeded, retryable: false},
		{name: "HTTP 500", err: &HTTPError{StatusCode: 500}, retryable: true},
		{name: "HTTP 503 wrapped", err: fmt.Errorf("fetch: %w", &HTTPError{StatusCode: 503}), retryable: true},
		{name: "HTTP 429", err: &HTTPError{StatusCode: 429}, retryable: true},
		{name: "HTTP 408", err: &HTTPError{StatusCode: 408}, retryable: true},
		{name: "HTTP 404", err: &HTTPError{StatusCode: 404}, retryable: false},
		{name: "HTTP 410", err: &HTTPError{StatusCode: 410}, retryable: false},
		{name: "ECONNREFUSED", err: syscall.ECONNREFUSED, retryable: true},
		{name: "ECONNRESET", err: syscall.ECONNRESET, retryable: true},
		{name: "generic error", err: errors.New("xml syntax error"), retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestFeedFetchConfig(t *testing.T) {
	if cfg := FeedFetchConfig(4); cfg.MaxAttempts != 4 {
		t.Errorf("expected MaxAttempts=4, got %d", cfg.MaxAttempts)
	}
	if cfg := FeedFetchConfig(0); cfg.MaxAttempts != 1 {
		t.Errorf("expected MaxAttempts clamped to 1, got %d", cfg.MaxAttempts)
	}
}

func TestHTTPError_Error(t *testing.T) {
	err := &HTTPError{StatusCode: 500, Message: "Internal Server Error"}
	if err.Error() != "HTTP 500: Internal Server Error" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestAddJitter(t *testing.T) {
	duration := 100 * time.Millisecond
	for i := 0; i < 10; i++ {
		got := addJitter(duration, 0.2)
		if got < duration || got > time.Duration(float64(duration)*1.2) {
			t.Errorf("jittered delay %v out of range", got)
		}
	}
	if got := addJitter(duration, 0); got != duration {
		t.Errorf("expected no jitter with fraction=0, got %v", got)
	}
}
