package openlibrary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/ports"
	"github.com/bookshelf/review-service/internal/metrics"
)

const (
	defaultBaseURL = "https://openlibrary.org"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 8 << 20
)

// Config holds the catalog client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RPS caps outgoing requests per second; zero disables the limiter.
	RPS float64
}

// Client performs GET requests against the Open Library catalog. One attempt
// per call; failures are reported, never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	log        zerolog.Logger
}

var _ ports.CatalogClient = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
		userAgent:  cfg.UserAgent,
		log:        log,
	}
	if cfg.RPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), 1)
	}
	return c
}

// Get fetches path with query and returns the raw body of a 2xx answer.
// endpoint labels the call in logs and metrics. Transport failures wrap
// domain.ErrUpstreamUnavailable; non-2xx answers are *domain.UpstreamStatusError.
func (c *Client) Get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
			return nil, fmt.Errorf("%w: %s: rate limiter: %v", domain.ErrUpstreamUnavailable, endpoint, err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: build request: %v", domain.ErrUpstreamUnavailable, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		c.log.Error().Err(err).Str("endpoint", endpoint).Str("path", path).Msg("catalog request failed")
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome := "http_error"
		if resp.StatusCode == http.StatusNotFound {
			outcome = "not_found"
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
		c.log.Warn().Str("endpoint", endpoint).Str("path", path).Int("status", resp.StatusCode).Msg("catalog returned non-2xx")
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &domain.UpstreamStatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("%w: %s: read body: %v", domain.ErrUpstreamUnavailable, endpoint, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.log.Debug().Str("endpoint", endpoint).Int("bytes", len(body)).Dur("took", time.Since(start)).Msg("catalog request")
	return body, nil
}
