// Package remote implements the repository ports against the REST entity service.
//
// Every call goes through a rate limiter and a circuit breaker. Reads (GET) are
// retried with exponential backoff; writes are sent exactly once, so a failed
// mutation is never replayed behind the caller's back.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"listkeeper/internal/config"
	"listkeeper/internal/domain/entity"
	"listkeeper/internal/infra/wire"
	"listkeeper/internal/observability/logging"
	"listkeeper/internal/observability/metrics"
	"listkeeper/internal/observability/requestid"
	"listkeeper/internal/observability/tracing"
	pkgconfig "listkeeper/internal/pkg/config"
	"listkeeper/internal/resilience/circuitbreaker"
	"listkeeper/internal/resilience/retry"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Options configures a Client. Zero values select defaults.
type Options struct {
	// BaseURL is the service root, e.g. http://localhost:8000/api. Required.
	BaseURL string

	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Breaker    *circuitbreaker.CircuitBreaker

	// ReadRetry applies to GET requests only.
	ReadRetry retry.Config

	Logger *slog.Logger
}

// Client talks to the remote entity service.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *circuitbreaker.CircuitBreaker
	readRetry retry.Config
	logger    *slog.Logger
}

// NewClient validates the base URL and fills in defaults.
func NewClient(opts Options) (*Client, error) {
	if err := pkgconfig.ValidateBaseURL(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("new remote client: %w", err)
	}

	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      opts.HTTPClient,
		limiter:   opts.Limiter,
		breaker:   opts.Breaker,
		readRetry: opts.ReadRetry,
		logger:    opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
	}
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	}
	if c.breaker == nil {
		c.breaker = circuitbreaker.New(BreakerConfig(0, c.logger))
	}
	if c.readRetry.MaxAttempts <= 0 {
		c.readRetry = retry.ReadConfig()
	}
	return c, nil
}

// NewFromConfig builds a Client from application configuration.
func NewFromConfig(cfg *config.AppConfig, logger *slog.Logger) (*Client, error) {
	readRetry := retry.ReadConfig()
	readRetry.MaxAttempts = cfg.ReadRetryAttempts
	readRetry.InitialDelay = cfg.ReadRetryDelay

	return NewClient(Options{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		Limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		Breaker:    circuitbreaker.New(BreakerConfig(cfg.BreakerTimeout, logger)),
		ReadRetry:  readRetry,
		Logger:     logger,
	})
}

// BreakerConfig returns the breaker settings for the remote service: only 5xx
// responses and transport failures count against it, and every transition is
// exported as a gauge. A zero openFor keeps the default open period.
func BreakerConfig(openFor time.Duration, logger *slog.Logger) circuitbreaker.Config {
	cfg := circuitbreaker.RemoteAPIConfig()
	if openFor > 0 {
		cfg.Timeout = openFor
	}
	cfg.IsSuccessful = IsBreakerSuccess
	cfg.Logger = logger
	cfg.OnStateChange = func(name string, _, to gobreaker.State) {
		metrics.RecordBreakerState(name, int(to))
	}
	return cfg
}

// IsBreakerSuccess reports whether a call outcome should count as healthy for the
// circuit breaker. Client errors (4xx) and caller cancellation do not indicate a
// sick service; 5xx responses and transport failures do.
func IsBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}
	var remoteErr *entity.RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode > 0 && remoteErr.StatusCode < 500
	}
	return false
}

// BreakerState exposes the breaker state for diagnostics.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Users returns the users resource.
func (c *Client) Users() *Users {
	return &Users{res: newResource(c, "usuarios", wire.User.Entity, wire.FromUser)}
}

// Lists returns the lists resource.
func (c *Client) Lists() *Lists {
	return &Lists{res: newResource(c, "listas", wire.List.Entity, wire.FromList)}
}

// Articles returns the articles resource.
func (c *Client) Articles() *Articles {
	return &Articles{res: newResource(c, "articulos", wire.Article.Entity, wire.FromArticle)}
}

// do sends one logical request. GETs may be attempted several times; every
// other method is attempted once. It reports whether a body was decoded into out.
func (c *Client) do(ctx context.Context, resource, method, path string, body, out any) (bool, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshal %s request: %w", resource, err)
		}
	}

	ctx, reqID := requestid.Ensure(ctx)
	logger := logging.WithRequestID(ctx, c.logger)

	var (
		status  int
		decoded bool
		attempt int
	)
	call := func() error {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return &entity.RemoteError{Method: method, Path: path, Err: err}
		}
		err := c.breaker.Do(func() error {
			var err error
			status, decoded, err = c.roundTrip(ctx, resource, method, path, reqID, payload, out)
			return err
		})
		if circuitbreaker.IsRejected(err) {
			status = 0
			return &entity.RemoteError{Method: method, Path: path, Err: err}
		}
		return err
	}

	start := time.Now()
	var err error
	if method == http.MethodGet {
		cfg := c.readRetry
		cfg.OnRetry = func(n int, delay time.Duration, cause error) {
			metrics.RecordRemoteRetry(resource)
			logger.Debug("retrying remote read",
				slog.String("path", path),
				slog.Int("attempt", n),
				slog.Duration("delay", delay),
				slog.Any("error", cause))
		}
		err = retry.WithBackoff(ctx, cfg, call)
		// Surface the service's own error text rather than the retry wrapper.
		var remoteErr *entity.RemoteError
		if errors.As(err, &remoteErr) {
			err = remoteErr
		}
	} else {
		err = call()
	}
	duration := time.Since(start)
	metrics.RecordRemoteRequest(resource, method, status, duration)

	if err != nil {
		logger.Warn("remote request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Int("attempts", attempt),
			slog.Any("error", err))
		return false, err
	}
	logger.Debug("remote request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Duration("duration", duration))
	return decoded, nil
}

func (c *Client) roundTrip(ctx context.Context, resource, method, path, reqID string, payload []byte, out any) (int, bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, false, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestid.RequestIDHeader, reqID)

	spanCtx, span := tracing.StartClientSpan(ctx, resource, method, req.Header)
	req = req.WithContext(spanCtx)

	resp, err := c.http.Do(req)
	if err != nil {
		remoteErr := &entity.RemoteError{Method: method, Path: path, Err: err}
		tracing.EndClientSpan(span, 0, remoteErr)
		return 0, false, remoteErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		remoteErr := &entity.RemoteError{Method: method, Path: path, Err: fmt.Errorf("read response body: %w", err)}
		tracing.EndClientSpan(span, resp.StatusCode, remoteErr)
		return resp.StatusCode, false, remoteErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		remoteErr := &entity.RemoteError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
		tracing.EndClientSpan(span, resp.StatusCode, remoteErr)
		return resp.StatusCode, false, remoteErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(body)) == 0 {
		tracing.EndClientSpan(span, resp.StatusCode, nil)
		return resp.StatusCode, false, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		decodeErr := fmt.Errorf("decode %s %s response: %w", method, path, err)
		tracing.EndClientSpan(span, resp.StatusCode, decodeErr)
		return resp.StatusCode, false, decodeErr
	}
	tracing.EndClientSpan(span, resp.StatusCode, nil)
	return resp.StatusCode, true, nil
}
