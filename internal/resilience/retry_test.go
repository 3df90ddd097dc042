package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(maxAttempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    maxAttempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     10 * time.Millisecond,
	}
}

func TestDo_SuccessOnFirstAttempt(t *testing.T) {
	var calls, waits int
	cfg := fastConfig(3)
	cfg.OnRetry = func(int, error) { waits++ }

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if waits != 0 {
		t.Errorf("expected no backoff waits, got %d", waits)
	}
}

func TestDo_SuccessAfterRetry_CountsBackoffWaits(t *testing.T) {
	var calls, waits int
	cfg := fastConfig(5)
	cfg.OnRetry = func(int, error) { waits++ }

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	// Two failures before success means exactly two backoff waits.
	if waits != 2 {
		t.Errorf("expected 2 backoff waits, got %d", waits)
	}
}

func TestDo_ExhaustsRetries_SurfacesLastError(t *testing.T) {
	var calls int
	last := errors.New("attempt 3 failed")

	err := Do(context.Background(), fastConfig(3), func(_ context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("earlier failure")
		}
		return last
	})
	if !errors.Is(err, last) {
		t.Fatalf("expected final error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_RetriesAnyErrorByDefault(t *testing.T) {
	// The source fetcher is opaque, so even errors that look permanent are
	// retried unless ShouldRetry says otherwise.
	var calls int
	err := Do(context.Background(), fastConfig(3), func(_ context.Context) error {
		calls++
		return errors.New("malformed response")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ShouldRetryOverride_StopsEarly(t *testing.T) {
	var calls int
	cfg := fastConfig(5)
	cfg.ShouldRetry = IsTransient

	err := Do(context.Background(), cfg, func(_ context.Context) error {
		calls++
		return errors.New("permanent: unsupported response")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call (no retry), got %d", calls)
	}
}

func TestDo_ContextCancelled_StopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	cfg := RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
	}

	err := Do(ctx, cfg, func(_ context.Context) error {
		calls++
		cancel()
		return errors.New("failure after cancel")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call after cancellation, got %d", calls)
	}
}

func TestDoVal_PreservesValue(t *testing.T) {
	var calls int
	val, err := DoVal(context.Background(), fastConfig(3), func(_ context.Context) ([]string, error) {
		calls++
		if calls < 2 {
			return nil, errors.New("flaky")
		}
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(val) != 2 || val[0] != "a" {
		t.Errorf("unexpected value: %v", val)
	}
}

func TestDoVal_BackoffDoubles(t *testing.T) {
	cfg := RetryConfig{
		MaxAttempts:    4,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Minute,
	}
	cfg = applyDefaults(cfg)

	if got := backoff(0, cfg); got != time.Second {
		t.Errorf("attempt 0: expected 1s, got %v", got)
	}
	if got := backoff(1, cfg); got != 2*time.Second {
		t.Errorf("attempt 1: expected 2s, got %v", got)
	}
	if got := backoff(2, cfg); got != 4*time.Second {
		t.Errorf("attempt 2: expected 4s, got %v", got)
	}
}

func TestDoVal_BackoffCapped(t *testing.T) {
	cfg := applyDefaults(RetryConfig{
		MaxAttempts:    10,
		InitialBackoff: time.Second,
		MaxBackoff:     5 * time.Second,
	})
	if got := backoff(6, cfg); got != 5*time.Second {
		t.Errorf("expected cap at 5s, got %v", got)
	}
}
