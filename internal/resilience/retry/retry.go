// Package retry re-runs idempotent reads with exponential backoff and jitter.
//
// Only reads belong here. A create/update/delete that failed is reported to the
// caller as-is; replaying it could apply the change twice.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// ErrAttemptsExhausted is wrapped together with the last failure once every attempt failed.
var ErrAttemptsExhausted = errors.New("retry attempts exhausted")

// Config holds the backoff schedule for one kind of call.
type Config struct {
	// MaxAttempts counts the first try. Values below 1 mean a single try.
	MaxAttempts int

	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// JitterFraction adds up to this fraction of the delay at random (0.0 to 1.0).
	JitterFraction float64

	// OnRetry runs before each wait with the number of the attempt that just failed.
	OnRetry func(attempt int, delay time.Duration, err error)
}

// ReadConfig is the schedule for GET requests to the remote entity service.
// The delays are short because a reload usually has a person waiting on it.
func ReadConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   200 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// WithBackoff calls fn until it succeeds, returns a non-retryable error, runs out of
// attempts, or ctx is done. A non-retryable error is returned unwrapped.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)
	delay := cfg.InitialDelay

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= attempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, attempt, err)
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, delay, err)
		}
		if err := wait(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
		delay = next(delay, cfg)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func next(delay time.Duration, cfg Config) time.Duration {
	delay = time.Duration(float64(delay) * cfg.Multiplier)
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return jitter(delay, cfg.JitterFraction)
}

// StatusCoder is implemented by errors that carry an HTTP response status.
// A status of 0 means no response was received.
type StatusCoder interface {
	error
	HTTPStatus() int
}

// IsRetryable reports whether err looks transient: 5xx, 408 and 429 responses,
// network timeouts, and refused or reset connections. Cancellation never is.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr StatusCoder
	if errors.As(err, &statusErr) {
		switch code := statusErr.HTTPStatus(); {
		case code >= 500 && code < 600:
			return true
		case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout:
			return true
		case code != 0:
			return false
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH)
}

func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1.0)
	// #nosec G404 -- backoff jitter does not need a cryptographic source.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
