package snyk

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type retryPolicy struct {
	maxAttempts  int
	defaultDelay time.Duration
	maxDelay     time.Duration
}

// delay returns the wait before the attempt following a 429.
// A Retry-After hint wins; otherwise the default delay doubles per attempt.
func (p retryPolicy) delay(attempt int, retryAfter string, now time.Time) time.Duration {
	d, ok := parseRetryAfter(retryAfter, now)
	if !ok {
		d = p.defaultDelay
		for i := 1; i < attempt && (p.maxDelay <= 0 || d < p.maxDelay); i++ {
			d *= 2
		}
	}
	if p.maxDelay > 0 && d > p.maxDelay {
		d = p.maxDelay
	}
	return d
}

// parseRetryAfter accepts delta-seconds or an HTTP date
func parseRetryAfter(v string, now time.Time) (time.Duration, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d, true
		}
		return 0, true
	}
	return 0, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
