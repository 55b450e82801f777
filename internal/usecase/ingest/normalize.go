package ingest

import (
	"html"
	"mime"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"news-scraper/internal/domain/entity"
)

// stripPolicy removes every tag and keeps the text. Policies are safe for
// concurrent use.
var stripPolicy = bluemonday.StrictPolicy()

// StripTags removes markup from s. The contents of script and style elements
// are dropped along with the tags. bluemonday escapes the text it keeps, so
// entities are decoded afterwards.
func StripTags(s string) string {
	return html.UnescapeString(stripPolicy.Sanitize(s))
}

// Candidate is a normalized entry that has not been stored yet.
type Candidate struct {
	URL         string
	Title       string
	Description *string
	Photo       *string
	PublishedAt *time.Time
	Labels      []string
}

// Article converts the candidate into an article owned by sourceID.
func (c Candidate) Article(sourceID int64) *entity.Article {
	return &entity.Article{
		SourceID:    sourceID,
		URL:         c.URL,
		Title:       c.Title,
		Description: c.Description,
		Photo:       c.Photo,
		PublishedAt: c.PublishedAt,
	}
}

// Normalize turns a raw entry into a Candidate. It returns ErrMissingLink or
// ErrMissingTitle for entries that must be skipped.
func Normalize(e entity.RawEntry) (Candidate, error) {
	url, ok := articleURL(e.Links)
	if !ok {
		return Candidate{}, ErrMissingLink
	}

	title := strings.TrimSpace(e.Title)
	if title == "" {
		return Candidate{}, ErrMissingTitle
	}

	c := Candidate{
		URL:         url,
		Title:       title,
		PublishedAt: e.Published,
		Photo:       photoURL(e),
	}
	if e.Summary != "" {
		d := StripTags(e.Summary)
		c.Description = &d
	}
	for _, term := range e.Categories {
		if l, ok := NormalizeLabel(term); ok {
			c.Labels = append(c.Labels, l)
		}
	}
	return c, nil
}

// articleURL picks the first text/html link, falling back to the first link
// without a media type.
func articleURL(links []entity.RawLink) (string, bool) {
	for _, l := range links {
		if l.MediaType == "text/html" && l.Href != "" {
			return l.Href, true
		}
	}
	for _, l := range links {
		if l.MediaType == "" && l.Href != "" {
			return l.Href, true
		}
	}
	return "", false
}

func photoURL(e entity.RawEntry) *string {
	for _, l := range e.Links {
		if l.Href == "" {
			continue
		}
		if l.MediaType == "image/jpeg" || l.MediaType == "image/png" {
			href := l.Href
			return &href
		}
	}
	for _, m := range e.Media {
		for _, c := range m.Contents {
			if c.URL == "" {
				continue
			}
			if c.ContentType == "" || isImageType(c.ContentType) {
				u := c.URL
				return &u
			}
		}
	}
	return nil
}

// isImageType reports whether the top-level media type is image.
// "IMAGE/PNG", "image/jpeg; q=1" and a bare "image" all match.
func isImageType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if mt == "" && err != nil {
		return false
	}
	top, _, _ := strings.Cut(mt, "/")
	return top == "image"
}

// NormalizeLabel maps a category term to a label name.
//
//	tech                    -> tech
//	structure:news/politics -> politics
//	structure:world         -> world
//	other:thing             -> dropped
func NormalizeLabel(term string) (string, bool) {
	prefix, rest, found := strings.Cut(term, ":")
	if !found {
		return nonEmpty(term)
	}
	if prefix != "structure" {
		return "", false
	}

	rest, _, _ = strings.Cut(rest, ":")
	segments := strings.Split(rest, "/")
	if len(segments) > 1 {
		return nonEmpty(segments[1])
	}
	return nonEmpty(segments[0])
}

func nonEmpty(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != ""
}
