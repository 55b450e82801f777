package scraper_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-scraper/internal/infra/scraper"
	"news-scraper/internal/resilience/retry"
)

func testConfig() scraper.Config {
	cfg := scraper.DefaultConfig()
	cfg.RatePerSecond = 1000
	cfg.RetryAttempts = 1
	cfg.Timeout = 5 * time.Second
	return cfg
}

func serve(body, contentType string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	}))
}

func TestRSSFetcher_FetchAndParse_RSS(t *testing.T) {
	server := serve(rssWithMedia, "application/rss+xml")
	defer server.Close()

	feed, err := scraper.NewRSSFetcher(testConfig()).FetchAndParse(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, feed.Entries, 2)
	assert.Equal(t, "Election results", feed.Entries[0].Title)
}

func TestRSSFetcher_FetchAndParse_Atom(t *testing.T) {
	server := serve(atomWithTypedLinks, "application/atom+xml")
	defer server.Close()

	feed, err := scraper.NewRSSFetcher(testConfig()).FetchAndParse(context.Background(), server.URL)
	require.NoError(t, err)
	require.Len(t, feed.Entries, 1)
	assert.Equal(t, "Typed links", feed.Entries[0].Title)
}

func TestRSSFetcher_SendsUserAgent(t *testing.T) {
	var got atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(rssWithMedia))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.UserAgent = "TestBot/2.0"
	_, err := scraper.NewRSSFetcher(cfg).FetchAndParse(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "TestBot/2.0", got.Load())
}

func TestRSSFetcher_HTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := scraper.NewRSSFetcher(testConfig()).FetchAndParse(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scraper.ErrFeedFetchFailed))
	assert.False(t, errors.Is(err, scraper.ErrInvalidFeedFormat))

	var httpErr *retry.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}

func TestRSSFetcher_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(rssWithMedia))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.RetryAttempts = 2
	feed, err := scraper.NewRSSFetcher(cfg).FetchAndParse(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Len(t, feed.Entries, 2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRSSFetcher_InvalidFeed(t *testing.T) {
	server := serve("<html><head><title>Blog</title></head></html>", "text/html")
	defer server.Close()

	_, err := scraper.NewRSSFetcher(testConfig()).FetchAndParse(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scraper.ErrInvalidFeedFormat))
	assert.False(t, errors.Is(err, scraper.ErrFeedFetchFailed))
}

func TestRSSFetcher_BodyTooLarge(t *testing.T) {
	server := serve(strings.Repeat("a", 4096), "application/rss+xml")
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 1024
	_, err := scraper.NewRSSFetcher(cfg).Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scraper.ErrBodyTooLarge))
}

func TestRSSFetcher_InvalidURL(t *testing.T) {
	tests := []string{"ftp://example.com/feed", "file:///etc/passwd", "http://"}
	for _, u := range tests {
		t.Run(u, func(t *testing.T) {
			_, err := scraper.NewRSSFetcher(testConfig()).FetchAndParse(context.Background(), u)
			require.Error(t, err)
			assert.True(t, errors.Is(err, scraper.ErrFeedFetchFailed))
			assert.True(t, errors.Is(err, scraper.ErrInvalidURL))
		})
	}
}

func TestRSSFetcher_DenyPrivateIPs(t *testing.T) {
	server := serve(rssWithMedia, "application/rss+xml")
	defer server.Close()

	cfg := testConfig()
	cfg.DenyPrivateIPs = true
	_, err := scraper.NewRSSFetcher(cfg).FetchAndParse(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scraper.ErrPrivateIP))
}

func TestRSSFetcher_MaxRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/loop", http.StatusFound)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 2
	_, err := scraper.NewRSSFetcher(cfg).FetchAndParse(context.Background(), server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, scraper.ErrTooManyRedirects))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*scraper.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*scraper.Config) {}},
		{name: "zero timeout", mutate: func(c *scraper.Config) { c.Timeout = 0 }, wantErr: true},
		{name: "tiny body", mutate: func(c *scraper.Config) { c.MaxBodySize = 10 }, wantErr: true},
		{name: "zero rate", mutate: func(c *scraper.Config) { c.RatePerSecond = 0 }, wantErr: true},
		{name: "zero attempts", mutate: func(c *scraper.Config) { c.RetryAttempts = 0 }, wantErr: true},
		{name: "too many redirects", mutate: func(c *scraper.Config) { c.MaxRedirects = 11 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := scraper.DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
