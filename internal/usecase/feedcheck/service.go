// Package feedcheck validates a list of feed URLs: each URL is fetched and
// parsed, working URLs are collected, and HTML pages are searched for the
// feeds they advertise.
package feedcheck

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"news-scraper/internal/domain/entity"
)

// Prober fetches and parses candidate feeds.
type Prober interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Parse(body []byte) (*entity.RawFeed, error)
	DiscoverFeeds(pageURL string, body []byte) []string
}

type Status int

const (
	StatusSuccessful Status = iota
	// StatusFailed means the body was retrieved but is not a feed.
	StatusFailed
	// StatusNotRetrievable covers network errors and non-2xx responses.
	StatusNotRetrievable
)

func (s Status) String() string {
	switch s {
	case StatusSuccessful:
		return "successful"
	case StatusFailed:
		return "failed"
	default:
		return "not_retrievable"
	}
}

type Result struct {
	URL     string
	Status  Status
	Entries int
	Err     error
	// Suggestions lists feeds advertised by the page when URL served HTML.
	Suggestions []string
}

type Summary struct {
	Successful     int
	Failed         int
	NotRetrievable int
	Total          int
}

const DefaultConcurrency = 4

type Service struct {
	Prober      Prober
	Concurrency int
}

func NewService(prober Prober, concurrency int) *Service {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Service{Prober: prober, Concurrency: concurrency}
}

// Check probes every URL with bounded concurrency. Results keep input order.
func (s *Service) Check(ctx context.Context, urls []string) ([]Result, Summary) {
	results := make([]Result, len(urls))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.Concurrency)
	for i, u := range urls {
		eg.Go(func() error {
			results[i] = s.probe(egCtx, u)
			return nil
		})
	}
	_ = eg.Wait()

	sum := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccessful:
			sum.Successful++
		case StatusFailed:
			sum.Failed++
		default:
			sum.NotRetrievable++
		}
	}
	return results, sum
}

func (s *Service) probe(ctx context.Context, url string) Result {
	body, err := s.Prober.Fetch(ctx, url)
	if err != nil {
		slog.Warn("feed not retrievable", slog.String("url", url), slog.Any("error", err))
		return Result{URL: url, Status: StatusNotRetrievable, Err: err}
	}

	feed, err := s.Prober.Parse(body)
	if err != nil {
		r := Result{URL: url, Status: StatusFailed, Err: err}
		r.Suggestions = s.Prober.DiscoverFeeds(url, body)
		slog.Warn("feed invalid",
			slog.String("url", url),
			slog.Any("suggestions", r.Suggestions),
			slog.Any("error", err))
		return r
	}

	slog.Info("feed ok", slog.String("url", url), slog.Int("entries", len(feed.Entries)))
	return Result{URL: url, Status: StatusSuccessful, Entries: len(feed.Entries)}
}

// ReadURLs reads one URL per line. Blank lines and lines starting with '#'
// are ignored.
func ReadURLs(r io.Reader) ([]string, error) {
	var urls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read urls: %w", err)
	}
	return urls, nil
}

// WriteWorking writes the successful URLs, one per line, in result order.
func WriteWorking(w io.Writer, results []Result) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if r.Status != StatusSuccessful {
			continue
		}
		if _, err := fmt.Fprintln(bw, r.URL); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Report prints per-URL failures followed by the summary block.
func Report(w io.Writer, results []Result, sum Summary) {
	for _, r := range results {
		switch r.Status {
		case StatusSuccessful:
			fmt.Fprintf(w, "[+] Successful feed: %s (%d entries)\n", r.URL, r.Entries)
		case StatusFailed:
			fmt.Fprintf(w, "[-] Invalid feed: %s: %v\n", r.URL, r.Err)
			for _, s := range r.Suggestions {
				fmt.Fprintf(w, "    did you mean: %s\n", s)
			}
		default:
			fmt.Fprintf(w, "[=] Failed to retrieve feed: %s: %v\n", r.URL, r.Err)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "==========================================")
	fmt.Fprintf(w, "Successful: %d\n", sum.Successful)
	fmt.Fprintf(w, "Failed: %d\n", sum.Failed)
	fmt.Fprintf(w, "Not retrievable: %d\n", sum.NotRetrievable)
	fmt.Fprintf(w, "Total: %d\n", sum.Total)
	fmt.Fprintln(w, "==========================================")
}
