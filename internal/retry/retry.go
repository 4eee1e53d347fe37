package retry

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
)

// Policy controls how a failing call is retried. The zero value is not
// useful; start from Default and adjust fields.
type Policy struct {
	// MaxAttempts is the total number of calls, including the first.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff for generic failures:
	// the wait after attempt i (0-based) is BaseDelay * 2^i.
	BaseDelay time.Duration

	// RateLimitDelay is the wait after a rate-limited failure when no
	// delay can be recovered from the error text.
	RateLimitDelay time.Duration

	// Buffer is added on top of every rate-limit wait.
	Buffer time.Duration

	// IsRateLimit classifies errors. Nil means the package default.
	IsRateLimit func(error) bool

	// Sleep replaces the context-aware wait. Tests set this to record
	// durations without blocking.
	Sleep func(time.Duration)
}

// Default returns the policy shared by the review and fix pipelines.
func Default() Policy {
	return Policy{
		MaxAttempts:    5,
		BaseDelay:      2 * time.Second,
		RateLimitDelay: 60 * time.Second,
		Buffer:         2 * time.Second,
	}
}

// Do runs fn until it succeeds or the attempt budget is spent, sleeping
// between attempts per the policy. The error from the last attempt is
// returned on exhaustion. Waits are logged at debug level through the
// context logger.
func Do[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	isRateLimit := p.IsRateLimit
	if isRateLimit == nil {
		isRateLimit = IsRateLimit
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if attempt == attempts-1 {
			break
		}

		delay := p.delay(attempt, err, isRateLimit)
		zerolog.Ctx(ctx).Debug().
			Int("attempt", attempt+1).
			Dur("wait", delay).
			Err(err).
			Msg("retrying after failure")
		if err := p.wait(ctx, delay); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func (p Policy) delay(attempt int, err error, isRateLimit func(error) bool) time.Duration {
	if isRateLimit(err) {
		if d, ok := RetryAfter(err); ok {
			return d + p.Buffer
		}
		return p.RateLimitDelay + p.Buffer
	}
	return time.Duration(1<<uint(attempt)) * p.BaseDelay
}

func (p Policy) wait(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		p.Sleep(d)
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

var rateLimitIndicators = []string{
	"429",
	"quota",
	"rate limit",
	"resource exhausted",
	"resource_exhausted",
}

// IsRateLimit reports whether err looks like a quota or rate-limit failure.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return true
	}
	text := strings.ToLower(err.Error())
	for _, ind := range rateLimitIndicators {
		if strings.Contains(text, ind) {
			return true
		}
	}
	return false
}

// retryAfterPattern matches the delay hints that appear in rate-limit error
// text, e.g. "Please retry in 32.5s", "retry_delay { seconds: 30 }", or
// "Retry-After: 7".
var retryAfterPattern = regexp.MustCompile(`(?i)retry[_\s-]*(?:in|after|delay)\D*?(\d+(?:\.\d+)?)`)

// RetryAfter extracts a wait duration from the error text. The second return
// is false when no hint is present.
func RetryAfter(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	m := retryAfterPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	secs, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}
