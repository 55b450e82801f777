// Package seed registers news sources and their feeds from a manifest file.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/repository"
	"news-scraper/internal/usecase/feedcheck"
)

var ErrEmptyManifest = errors.New("manifest contains no feeds")

// Manifest is the YAML layout accepted by Load.
//
//	sources:
//	  - name: Example
//	    url: https://example.com
//	    feeds:
//	      - url: https://example.com/rss
//	        interval_minutes: 30
type Manifest struct {
	Sources []SourceSpec `yaml:"sources"`
}

type SourceSpec struct {
	Name  string     `yaml:"name"`
	URL   string     `yaml:"url"`
	Feeds []FeedSpec `yaml:"feeds"`
}

type FeedSpec struct {
	URL             string `yaml:"url"`
	IntervalMinutes int    `yaml:"interval_minutes"`
}

// Load parses data as a YAML manifest. Anything that is not a manifest is
// read as a plain list of feed URLs, one per line, with each feed attached
// to a source named after the URL host.
func Load(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err == nil && len(m.Sources) > 0 {
		return &m, nil
	}

	urls, err := feedcheck.ReadURLs(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, ErrEmptyManifest
	}

	index := map[string]int{}
	for _, raw := range urls {
		if err := entity.ValidateURL(raw); err != nil {
			return nil, fmt.Errorf("feed %q: %w", raw, err)
		}
		u, _ := url.Parse(raw)
		host := strings.TrimPrefix(u.Hostname(), "www.")
		i, ok := index[host]
		if !ok {
			i = len(m.Sources)
			index[host] = i
			m.Sources = append(m.Sources, SourceSpec{
				Name: host,
				URL:  u.Scheme + "://" + u.Host,
			})
		}
		m.Sources[i].Feeds = append(m.Sources[i].Feeds, FeedSpec{URL: raw})
	}
	return &m, nil
}

// FlagMarker raises the feed-configuration dirty flag.
type FlagMarker interface {
	MarkFeedsModified(ctx context.Context) error
}

type Result struct {
	Sources      int
	FeedsCreated int
	FeedsExisted int
}

type Service struct {
	Feeds           repository.FeedRepository
	Flags           FlagMarker
	DefaultInterval int
}

func NewService(feeds repository.FeedRepository, flags FlagMarker, defaultInterval int) *Service {
	return &Service{Feeds: feeds, Flags: flags, DefaultInterval: defaultInterval}
}

// Apply creates every missing source and feed in the manifest. Existing rows
// are left untouched. The feed dirty flag is raised when at least one feed
// was created, so a running scheduler picks the change up on its next tick.
func (s *Service) Apply(ctx context.Context, m *Manifest) (*Result, error) {
	res := &Result{}

	for _, src := range m.Sources {
		source := &entity.NewsSource{Name: strings.TrimSpace(src.Name), URL: src.URL}
		if err := source.Validate(); err != nil {
			return res, fmt.Errorf("source %q: %w", src.URL, err)
		}
		sourceID, err := s.Feeds.UpsertSource(ctx, source)
		if err != nil {
			return res, fmt.Errorf("upsert source %q: %w", source.Name, err)
		}
		res.Sources++

		for _, fs := range src.Feeds {
			interval := fs.IntervalMinutes
			if interval == 0 {
				interval = s.DefaultInterval
			}
			feed := &entity.Feed{SourceID: sourceID, URL: strings.TrimSpace(fs.URL), IntervalMinutes: interval}
			if err := feed.Validate(); err != nil {
				return res, fmt.Errorf("feed %q: %w", fs.URL, err)
			}

			created, err := s.Feeds.CreateFeed(ctx, feed)
			if err != nil {
				return res, fmt.Errorf("create feed %q: %w", feed.URL, err)
			}
			if created {
				res.FeedsCreated++
				slog.Info("feed registered",
					slog.String("source", source.Name),
					slog.String("url", feed.URL),
					slog.Int("interval_minutes", interval))
			} else {
				res.FeedsExisted++
			}
		}
	}

	if res.FeedsCreated > 0 {
		if err := s.Flags.MarkFeedsModified(ctx); err != nil {
			return res, err
		}
	}
	return res, nil
}
