// Package photoapi is a small client for the third-party photo API that backs image
// detail pages. Requests are rate limited client-side, retried with exponential
// backoff on 429/5xx/network failures and guarded by a circuit breaker.
package photoapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/camden-git/mediashare/apperror"
	"github.com/camden-git/mediashare/logging"
	"github.com/camden-git/mediashare/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultBaseDelay  = 500 * time.Millisecond
	maxBackoff        = 10 * time.Second
	maxErrorBodyBytes = 512
)

// Photo mirrors the fields of GET /photos/{id} that the app uses.
type Photo struct {
	ID              int64  `json:"id"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	URL             string `json:"url"`
	Alt             string `json:"alt"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	AvgColor        string `json:"avg_color,omitempty"`
	Src             Src    `json:"src"`
}

type Src struct {
	Original  string `json:"original"`
	Large     string `json:"large,omitempty"`
	Medium    string `json:"medium,omitempty"`
	Small     string `json:"small,omitempty"`
	Tiny      string `json:"tiny,omitempty"`
	Portrait  string `json:"portrait,omitempty"`
	Landscape string `json:"landscape,omitempty"`
}

type Config struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	MaxRetries    int
	RatePerSecond int
	// BaseDelay is the first backoff step; it doubles on every retry.
	BaseDelay time.Duration
}

// Client is safe for concurrent use. The limiter and breaker are shared by all callers.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[*Photo]
	maxRetries int
	baseDelay  time.Duration
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = defaultBaseDelay
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = cfg.RatePerSecond
	}

	metrics.PhotoAPIBreakerState.Set(0)
	breaker := gobreaker.NewCircuitBreaker[*Photo](gobreaker.Settings{
		Name:        "photo-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// a missing photo is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("photo API circuit breaker state change")
			metrics.PhotoAPIBreakerState.Set(stateValue(to))
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		breaker:    breaker,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// GetPhoto fetches one photo. Failures are NotFound for an unknown id, Timeout when
// ctx expires and UpstreamUnavailable for everything else, including an open breaker.
func (c *Client) GetPhoto(ctx context.Context, id string) (*Photo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "photo id is required")
	}

	photo, err := c.breaker.Execute(func() (*Photo, error) {
		return c.getWithRetry(ctx, id)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.PhotoAPIRequests.WithLabelValues("rejected").Inc()
			return nil, apperror.UpstreamUnavailable("photo API", err)
		}
		return nil, err
	}
	return photo, nil
}

func (c *Client) getWithRetry(ctx context.Context, id string) (*Photo, error) {
	log := logging.Ctx(ctx)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, c.contextError(ctx, err)
		}

		photo, retryAfter, err := c.do(ctx, id)
		if err == nil {
			metrics.PhotoAPIRequests.WithLabelValues("success").Inc()
			return photo, nil
		}
		if !isRetryable(err) {
			if errors.Is(err, apperror.ErrNotFound) {
				metrics.PhotoAPIRequests.WithLabelValues("not_found").Inc()
			} else {
				metrics.PhotoAPIRequests.WithLabelValues("failure").Inc()
			}
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, c.contextError(ctx, ctx.Err())
		}
		lastErr = err
		if attempt == c.maxRetries {
			break
		}

		delay := c.backoff(attempt)
		if retryAfter > 0 {
			delay = retryAfter
		}
		metrics.PhotoAPIRequests.WithLabelValues("retry").Inc()
		log.Warn().Err(err).Str("photo_id", id).Int("attempt", attempt+1).Dur("retry_delay", delay).Msg("photo API request failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, c.contextError(ctx, ctx.Err())
		case <-timer.C:
		}
	}

	metrics.PhotoAPIRequests.WithLabelValues("failure").Inc()
	return nil, apperror.UpstreamUnavailable("photo API", lastErr)
}

// retryableError marks failures worth another attempt.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

func (c *Client) do(ctx context.Context, id string) (*Photo, time.Duration, error) {
	endpoint := c.baseURL + "/photos/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build photo request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &retryableError{err: fmt.Errorf("execute photo request: %w", err)}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var photo Photo
		if err := json.NewDecoder(resp.Body).Decode(&photo); err != nil {
			return nil, 0, apperror.UpstreamUnavailable("photo API", fmt.Errorf("decode photo: %w", err))
		}
		return &photo, 0, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, 0, apperror.NotFound("photo", id)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, parseRetryAfter(resp.Header.Get("Retry-After")), &retryableError{
			err: fmt.Errorf("photo API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	default:
		return nil, 0, apperror.UpstreamUnavailable("photo API", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.baseDelay << attempt
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func (c *Client) contextError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apperror.Timeout("photo API", err)
	}
	return apperror.UpstreamUnavailable("photo API", err)
}

// parseRetryAfter accepts the delay-seconds form of Retry-After.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || seconds < 0 {
		return 0
	}
	d := time.Duration(seconds) * time.Second
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
