// Package config assembles application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	pkgconfig "listkeeper/internal/pkg/config"
)

// Environment variable names.
const (
	EnvFile             = "LISTKEEPER_ENV_FILE"
	EnvAPIBaseURL       = "LISTKEEPER_API_BASE_URL"
	EnvHTTPTimeout      = "LISTKEEPER_HTTP_TIMEOUT"
	EnvRateLimitRPS     = "LISTKEEPER_RATE_LIMIT_RPS"
	EnvRateLimitBurst   = "LISTKEEPER_RATE_LIMIT_BURST"
	EnvReadRetryAttempt = "LISTKEEPER_READ_RETRY_ATTEMPTS"
	EnvReadRetryDelay   = "LISTKEEPER_READ_RETRY_DELAY"
	EnvBreakerTimeout   = "LISTKEEPER_CB_TIMEOUT"
	EnvSessionFile      = "LISTKEEPER_SESSION_FILE"
	EnvPreviewSize      = "LISTKEEPER_PREVIEW_SIZE"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogJSON          = "LOG_JSON"
)

// clientMetrics is shared by every Load call; promauto forbids a second registration.
var clientMetrics = pkgconfig.NewConfigMetrics("client")

// AppConfig holds everything the client needs to talk to the remote service.
type AppConfig struct {
	// APIBaseURL is the remote entity service address, e.g. http://localhost:8000/api.
	APIBaseURL string

	// HTTPTimeout bounds a single HTTP round trip.
	HTTPTimeout time.Duration

	// RateLimitRPS and RateLimitBurst configure the outgoing request limiter.
	RateLimitRPS   float64
	RateLimitBurst int

	// ReadRetryAttempts is the total number of tries for a GET, first included.
	ReadRetryAttempts int
	ReadRetryDelay    time.Duration

	// BreakerTimeout is how long the circuit stays open before probing again.
	BreakerTimeout time.Duration

	// SessionFile is where the CLI keeps the logged-in session between runs.
	SessionFile string

	// PreviewSize is the number of articles shown per list card.
	PreviewSize int

	LogLevel string

	// LogJSON switches stderr logging from text to JSON lines.
	LogJSON bool
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() AppConfig {
	return AppConfig{
		APIBaseURL:        "http://localhost:8000/api",
		HTTPTimeout:       15 * time.Second,
		RateLimitRPS:      10,
		RateLimitBurst:    20,
		ReadRetryAttempts: 3,
		ReadRetryDelay:    200 * time.Millisecond,
		BreakerTimeout:    30 * time.Second,
		SessionFile:       defaultSessionFile(),
		PreviewSize:       3,
		LogLevel:          "info",
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".listkeeper-session.yaml"
	}
	return filepath.Join(home, ".listkeeper", "session.yaml")
}

// Validate checks every field and reports all problems together.
func (c *AppConfig) Validate() error {
	var errs []error

	if err := pkgconfig.ValidateBaseURL(c.APIBaseURL); err != nil {
		errs = append(errs, fmt.Errorf("api base url: %w", err))
	}
	if err := pkgconfig.ValidateDuration(c.HTTPTimeout, time.Second, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("http timeout: %w", err))
	}
	if err := pkgconfig.ValidatePositiveFloat(c.RateLimitRPS); err != nil {
		errs = append(errs, fmt.Errorf("rate limit rps: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.RateLimitBurst, 1, 1000); err != nil {
		errs = append(errs, fmt.Errorf("rate limit burst: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.ReadRetryAttempts, 1, 10); err != nil {
		errs = append(errs, fmt.Errorf("read retry attempts: %w", err))
	}
	if err := pkgconfig.ValidateDuration(c.ReadRetryDelay, time.Millisecond, 10*time.Second); err != nil {
		errs = append(errs, fmt.Errorf("read retry delay: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.BreakerTimeout); err != nil {
		errs = append(errs, fmt.Errorf("breaker timeout: %w", err))
	}
	if c.SessionFile == "" {
		errs = append(errs, errors.New("session file: cannot be empty"))
	}
	if err := pkgconfig.ValidateIntRange(c.PreviewSize, 0, 50); err != nil {
		errs = append(errs, fmt.Errorf("preview size: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Load reads an optional .env file, then builds AppConfig from the environment.
// Invalid values fall back to defaults with a warning; Load never fails.
// Variables already present in the process environment win over the file.
func Load(logger *slog.Logger) *AppConfig {
	if logger == nil {
		logger = slog.Default()
	}
	loadDotEnv(logger)

	cfg := DefaultConfig()
	t := &fallbackTracker{logger: logger, metrics: clientMetrics}

	cfg.APIBaseURL = track(t, "api_base_url",
		pkgconfig.LoadEnvWithFallback(EnvAPIBaseURL, cfg.APIBaseURL, pkgconfig.ValidateBaseURL))

	cfg.HTTPTimeout = track(t, "http_timeout",
		pkgconfig.LoadEnvDuration(EnvHTTPTimeout, cfg.HTTPTimeout, func(d time.Duration) error {
			return pkgconfig.ValidateDuration(d, time.Second, 5*time.Minute)
		}))

	cfg.RateLimitRPS = track(t, "rate_limit_rps",
		pkgconfig.LoadEnvFloat(EnvRateLimitRPS, cfg.RateLimitRPS, pkgconfig.ValidatePositiveFloat))

	cfg.RateLimitBurst = track(t, "rate_limit_burst",
		pkgconfig.LoadEnvInt(EnvRateLimitBurst, cfg.RateLimitBurst, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 1, 1000)
		}))

	cfg.ReadRetryAttempts = track(t, "read_retry_attempts",
		pkgconfig.LoadEnvInt(EnvReadRetryAttempt, cfg.ReadRetryAttempts, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 1, 10)
		}))

	cfg.ReadRetryDelay = track(t, "read_retry_delay",
		pkgconfig.LoadEnvDuration(EnvReadRetryDelay, cfg.ReadRetryDelay, func(d time.Duration) error {
			return pkgconfig.ValidateDuration(d, time.Millisecond, 10*time.Second)
		}))

	cfg.BreakerTimeout = track(t, "cb_timeout",
		pkgconfig.LoadEnvDuration(EnvBreakerTimeout, cfg.BreakerTimeout, pkgconfig.ValidatePositiveDuration))

	cfg.SessionFile = pkgconfig.LoadEnvString(EnvSessionFile, cfg.SessionFile)

	cfg.PreviewSize = track(t, "preview_size",
		pkgconfig.LoadEnvInt(EnvPreviewSize, cfg.PreviewSize, func(v int) error {
			return pkgconfig.ValidateIntRange(v, 0, 50)
		}))

	cfg.LogLevel = pkgconfig.LoadEnvString(EnvLogLevel, cfg.LogLevel)
	cfg.LogJSON = track(t, "log_json", pkgconfig.LoadEnvBool(EnvLogJSON, cfg.LogJSON))

	clientMetrics.SetFallbackActive(t.applied)
	clientMetrics.RecordLoadTimestamp()

	return &cfg
}

func loadDotEnv(logger *slog.Logger) {
	path := pkgconfig.LoadEnvString(EnvFile, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no env file found", slog.String("path", path))
			return
		}
		logger.Warn("failed to read env file",
			slog.String("path", path),
			slog.Any("error", err))
	}
}

type fallbackTracker struct {
	logger  *slog.Logger
	metrics *pkgconfig.ConfigMetrics
	applied bool
}

func track[T any](t *fallbackTracker, field string, result pkgconfig.LoadResult[T]) T {
	if result.FallbackApplied {
		t.applied = true
		t.metrics.RecordValidationError(field)
		t.metrics.RecordFallback(field)
		for _, warning := range result.Warnings {
			t.logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", warning))
		}
	}
	return result.Value
}
