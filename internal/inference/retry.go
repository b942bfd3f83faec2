package inference

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"ecotrack-backend/internal/shared/telemetry"
)

const (
	DefaultAttempts   = 3
	DefaultRetryDelay = 2 * time.Second
)

// RetryOptions configures WithRetry. Zero values use the defaults.
type RetryOptions struct {
	Attempts int
	Delay    time.Duration
}

type retryingClient struct {
	base     Client
	attempts int
	delay    time.Duration
}

// WithRetry wraps base so transient failures are retried with a fixed delay.
func WithRetry(base Client, opts RetryOptions) Client {
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultRetryDelay
	}
	return retryingClient{base: base, attempts: opts.Attempts, delay: opts.Delay}
}

func (r retryingClient) Identify(ctx context.Context, imageURL string) (Insight, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		insight, err := r.base.Identify(ctx, imageURL)
		if err == nil {
			return insight, nil
		}
		lastErr = err
		if attempt == r.attempts || !ShouldRetry(err) || ctx.Err() != nil {
			break
		}

		telemetry.Warn("inference.retry", map[string]any{
			"attempt":  attempt,
			"delay_ms": r.delay.Milliseconds(),
			"error":    err,
		})
		timer := time.NewTimer(r.delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return DefaultInsight(), ctx.Err()
		}
	}
	return DefaultInsight(), lastErr
}

// ShouldRetry reports whether err is transient: rate limiting, server errors,
// timeouts and dropped connections.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout")
}
