// Package scraper fetches RSS/Atom feeds over HTTP and parses them into the
// raw feed model with gofeed. Requests go through a global rate limiter, a
// per-host circuit breaker and retry with backoff.
package scraper

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/observability/metrics"
	"news-scraper/internal/resilience/circuitbreaker"
	"news-scraper/internal/resilience/retry"
)

// RSSFetcher is safe for concurrent use.
type RSSFetcher struct {
	client      *http.Client
	breakers    *circuitbreaker.Registry
	limiter     *rate.Limiter
	retryConfig retry.Config
	config      Config
}

// NewRSSFetcher builds a fetcher with its own HTTP client. Every redirect
// target is validated like the original URL.
func NewRSSFetcher(cfg Config) *RSSFetcher {
	f := &RSSFetcher{
		breakers:    circuitbreaker.NewRegistry(circuitbreaker.FeedFetchConfig),
		limiter:     rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1),
		retryConfig: retry.FeedFetchConfig(cfg.RetryAttempts),
		config:      cfg,
	}

	f.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= f.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), f.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}
	return f
}

// FetchAndParse downloads feedURL and parses it. Errors wrap
// ErrFeedFetchFailed or ErrInvalidFeedFormat.
func (f *RSSFetcher) FetchAndParse(ctx context.Context, feedURL string) (*entity.RawFeed, error) {
	body, err := f.Fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := Parse(body)
	if err != nil {
		metrics.RecordFetchError("parse")
		return nil, err
	}
	return feed, nil
}

// Fetch downloads feedURL and returns the body without parsing it.
func (f *RSSFetcher) Fetch(ctx context.Context, feedURL string) ([]byte, error) {
	if err := validateURL(feedURL, f.config.DenyPrivateIPs); err != nil {
		metrics.RecordFetchError("invalid_url")
		return nil, fmt.Errorf("%w: %w", ErrFeedFetchFailed, err)
	}
	u, _ := url.Parse(feedURL)
	cb := f.breakers.Get(u.Host)

	var body []byte
	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		if err := f.limiter.Wait(ctx); err != nil {
			return err
		}

		res, err := cb.Execute(func() (interface{}, error) {
			return f.doFetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("circuit", cb.Name()),
					slog.String("url", feedURL))
			}
			return err
		}

		body = res.([]byte)
		return nil
	})
	if err != nil {
		metrics.RecordFetchError(fetchErrorKind(err))
		return nil, fmt.Errorf("%w: %w", ErrFeedFetchFailed, err)
	}
	return body, nil
}

// OpenCircuits returns how many hosts are currently short-circuited.
func (f *RSSFetcher) OpenCircuits() int {
	return f.breakers.OpenCount()
}

// doFetch performs a single attempt.
func (f *RSSFetcher) doFetch(ctx context.Context, feedURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", f.config.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, text/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil && !urlErr.Timeout() {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(data)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", ErrBodyTooLarge, f.config.MaxBodySize)
	}
	return data, nil
}

func fetchErrorKind(err error) string {
	var (
		httpErr *retry.HTTPError
		netErr  net.Error
	)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return "circuit_open"
	case errors.As(err, &httpErr):
		return "http_status"
	case errors.Is(err, ErrBodyTooLarge):
		return "body_too_large"
	case errors.Is(err, ErrTooManyRedirects), errors.Is(err, ErrPrivateIP), errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	default:
		return "network"
	}
}
