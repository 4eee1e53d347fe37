package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func TestDo_SuccessFirstTry(t *testing.T) {
	var sleeps []time.Duration
	p := Default()
	p.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	calls := 0
	got, err := Do(context.Background(), p, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(sleeps) != 0 {
		t.Errorf("sleeps = %v, want none", sleeps)
	}
}

func TestDo_GenericBackoff(t *testing.T) {
	var sleeps []time.Duration
	p := Default()
	p.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	calls := 0
	got, err := Do(context.Background(), p, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient failure")
		}
		return "done", nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if got != "done" {
		t.Errorf("got %q, want %q", got, "done")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("got %d sleeps, want %d", len(sleeps), len(want))
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleeps[%d] = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestDo_RateLimitRecoveredDelay(t *testing.T) {
	var sleeps []time.Duration
	p := Default()
	p.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	calls := 0
	_, err := Do(context.Background(), p, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("429 quota exceeded, please retry in 3s")
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if len(sleeps) != 1 {
		t.Fatalf("got %d sleeps, want 1", len(sleeps))
	}
	want := 3*time.Second + p.Buffer
	if sleeps[0] != want {
		t.Errorf("sleep = %v, want %v", sleeps[0], want)
	}
}

func TestDo_RateLimitFallback(t *testing.T) {
	var sleeps []time.Duration
	p := Default()
	p.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	calls := 0
	_, err := Do(context.Background(), p, func() (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("rate limit exceeded")
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if len(sleeps) != 1 {
		t.Fatalf("got %d sleeps, want 1", len(sleeps))
	}
	want := p.RateLimitDelay + p.Buffer
	if sleeps[0] != want {
		t.Errorf("sleep = %v, want %v", sleeps[0], want)
	}
}

func TestDo_Exhaustion(t *testing.T) {
	var sleeps []time.Duration
	p := Default()
	p.Sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	calls := 0
	lastErr := errors.New("still broken")
	_, err := Do(context.Background(), p, func() (string, error) {
		calls++
		return "", lastErr
	})
	if !errors.Is(err, lastErr) {
		t.Errorf("err = %v, want last attempt error", err)
	}
	if calls != p.MaxAttempts {
		t.Errorf("calls = %d, want %d", calls, p.MaxAttempts)
	}
	if len(sleeps) != p.MaxAttempts-1 {
		t.Errorf("sleeps = %d, want %d", len(sleeps), p.MaxAttempts-1)
	}
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Default()
	p.BaseDelay = time.Hour // the wait must be interrupted, not served

	_, err := Do(ctx, p, func() (string, error) {
		return "", errors.New("transient failure")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDefault(t *testing.T) {
	p := Default()
	if p.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", p.MaxAttempts)
	}
	if p.BaseDelay != 2*time.Second {
		t.Errorf("BaseDelay = %v, want 2s", p.BaseDelay)
	}
	if p.RateLimitDelay != 60*time.Second {
		t.Errorf("RateLimitDelay = %v, want 60s", p.RateLimitDelay)
	}
	if p.Buffer != 2*time.Second {
		t.Errorf("Buffer = %v, want 2s", p.Buffer)
	}
}

func TestRetryAfter(t *testing.T) {
	tests := []struct {
		text string
		want time.Duration
		ok   bool
	}{
		{"Please retry in 32.5s", 32500 * time.Millisecond, true},
		{"retry_delay { seconds: 30 }", 30 * time.Second, true},
		{"Retry-After: 7", 7 * time.Second, true},
		{"quota exceeded, retry after 64 seconds", 64 * time.Second, true},
		{"quota exceeded", 0, false},
		{"internal error", 0, false},
	}
	for _, tt := range tests {
		got, ok := RetryAfter(errors.New(tt.text))
		if ok != tt.ok {
			t.Errorf("RetryAfter(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("RetryAfter(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRetryAfter_Nil(t *testing.T) {
	if _, ok := RetryAfter(nil); ok {
		t.Error("RetryAfter(nil) should report no hint")
	}
}

func TestIsRateLimit(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("429 Too Many Requests"), true},
		{errors.New("quota exceeded for metric"), true},
		{errors.New("Rate Limit reached"), true},
		{errors.New("RESOURCE_EXHAUSTED"), true},
		{&googleapi.Error{Code: 429, Message: "too many requests"}, true},
		{fmt.Errorf("calling model: %w", &googleapi.Error{Code: 429}), true},
		{&googleapi.Error{Code: 500, Message: "internal"}, false},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsRateLimit(tt.err); got != tt.want {
			t.Errorf("IsRateLimit(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
