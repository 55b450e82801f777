package scraper

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"news-scraper/internal/domain/entity"
)

var feedLinkTypes = map[string]struct{}{
	"application/rss+xml":   {},
	"application/atom+xml":  {},
	"application/feed+json": {},
}

// DiscoverFeedLinks returns the feed URLs advertised by an HTML page through
// <link rel="alternate"> elements, resolved against pageURL. Duplicates are
// dropped and document order is kept.
func DiscoverFeedLinks(pageURL string, body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var out []string
	seen := make(map[string]struct{})
	doc.Find("link[rel][href]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if !hasToken(rel, "alternate") {
			return
		}
		typ, _ := s.Attr("type")
		if _, ok := feedLinkTypes[strings.ToLower(strings.TrimSpace(typ))]; !ok {
			return
		}
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	})
	return out
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(strings.ToLower(list)) {
		if f == token {
			return true
		}
	}
	return false
}

// Parse parses an already downloaded body.
func (f *RSSFetcher) Parse(body []byte) (*entity.RawFeed, error) {
	return Parse(body)
}

// DiscoverFeeds is DiscoverFeedLinks bound to the fetcher.
func (f *RSSFetcher) DiscoverFeeds(pageURL string, body []byte) []string {
	return DiscoverFeedLinks(pageURL, body)
}
