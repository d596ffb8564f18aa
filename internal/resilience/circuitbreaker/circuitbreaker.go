// Package circuitbreaker stops calls to the remote entity service while it is failing.
// It wraps github.com/sony/gobreaker.
package circuitbreaker

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name labels log lines and metrics.
	Name string

	// MaxRequests is how many probes are let through while half-open.
	MaxRequests uint32

	// Interval clears the closed-state counts periodically. Zero never clears them.
	Interval time.Duration

	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration

	// FailureThreshold is the failure ratio that trips the circuit, e.g. 0.6.
	FailureThreshold float64

	// MinRequests is the number of calls needed before the ratio is considered.
	MinRequests uint32

	// IsSuccessful decides whether an error counts as healthy.
	// Nil means only a nil error does.
	IsSuccessful func(err error) bool

	// OnStateChange is called after every transition, in addition to the log line.
	OnStateChange func(name string, from, to gobreaker.State)

	Logger *slog.Logger
}

// RemoteAPIConfig returns the settings for the remote entity service.
// The open period is short because a person is usually waiting on the result.
func RemoteAPIConfig() Config {
	return Config{
		Name:             "remote-api",
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// CircuitBreaker guards calls to one dependency.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
}

// New creates a circuit breaker from cfg.
func New(cfg Config) *CircuitBreaker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings := gobreaker.Settings{
		Name:         cfg.Name,
		MaxRequests:  cfg.MaxRequests,
		Interval:     cfg.Interval,
		Timeout:      cfg.Timeout,
		IsSuccessful: cfg.IsSuccessful,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from, to)
			}
		},
	}

	return &CircuitBreaker{breaker: gobreaker.NewCircuitBreaker(settings)}
}

// Do runs fn through the breaker. While the circuit is open fn is not called and
// the returned error satisfies IsRejected.
func (cb *CircuitBreaker) Do(fn func() error) error {
	_, err := cb.breaker.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	return err
}

// State returns the current state.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.breaker.Name()
}

// IsRejected reports whether err means the breaker refused the call.
func IsRejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
