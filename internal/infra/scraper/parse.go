package scraper

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/mmcdole/gofeed/rss"

	"news-scraper/internal/domain/entity"
)

// Parse converts a feed document into the raw feed model. RSS and Atom are
// parsed with their native parsers so that link media types and media
// extensions survive; anything else goes through the universal parser.
func Parse(data []byte) (*entity.RawFeed, error) {
	var (
		feed *entity.RawFeed
		err  error
	)
	switch gofeed.DetectFeedType(bytes.NewReader(data)) {
	case gofeed.FeedTypeAtom:
		feed, err = parseAtom(data)
	case gofeed.FeedTypeRSS:
		feed, err = parseRSS(data)
	default:
		feed, err = parseUniversal(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedFormat, err)
	}
	return feed, nil
}

/* ───────── RSS ───────── */

func parseRSS(data []byte) (*entity.RawFeed, error) {
	doc, err := (&rss.Parser{}).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out := &entity.RawFeed{Title: doc.Title, Entries: make([]entity.RawEntry, 0, len(doc.Items))}
	for _, it := range doc.Items {
		e := entity.RawEntry{
			Title:     it.Title,
			Summary:   firstNonEmpty(it.Description, it.Content),
			Published: feedTime(it.PubDate, it.PubDateParsed),
		}

		// RSSのリンクには型情報がない
		for _, href := range linkList(it.Link, it.Links) {
			e.Links = append(e.Links, entity.RawLink{Href: href})
		}

		for _, c := range it.Categories {
			if c != nil {
				e.Categories = append(e.Categories, c.Value)
			}
		}

		e.Media = mediaExtensions(it.Extensions)
		for _, enc := range enclosureList(it.Enclosure, it.Enclosures) {
			e.Media = append(e.Media, entity.RawMedia{
				Contents: []entity.RawMediaContent{{URL: enc.URL, ContentType: enc.Type}},
			})
		}

		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

func linkList(primary string, links []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, l := range append([]string{primary}, links...) {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

func enclosureList(primary *rss.Enclosure, all []*rss.Enclosure) []*rss.Enclosure {
	if len(all) > 0 {
		return all
	}
	if primary != nil {
		return []*rss.Enclosure{primary}
	}
	return nil
}

/* ───────── Atom ───────── */

func parseAtom(data []byte) (*entity.RawFeed, error) {
	doc, err := (&atom.Parser{}).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out := &entity.RawFeed{Title: doc.Title, Entries: make([]entity.RawEntry, 0, len(doc.Entries))}
	for _, en := range doc.Entries {
		e := entity.RawEntry{
			Title:     en.Title,
			Summary:   en.Summary,
			Published: feedTime(en.Published, en.PublishedParsed),
		}
		if e.Summary == "" && en.Content != nil {
			e.Summary = en.Content.Value
		}
		if e.Published == nil {
			e.Published = feedTime(en.Updated, en.UpdatedParsed)
		}

		for _, l := range en.Links {
			if l == nil || l.Href == "" {
				continue
			}
			if l.Rel == "enclosure" {
				e.Media = append(e.Media, entity.RawMedia{
					Contents: []entity.RawMediaContent{{URL: l.Href, ContentType: l.Type}},
				})
				continue
			}
			e.Links = append(e.Links, entity.RawLink{Href: l.Href, MediaType: l.Type})
		}

		for _, c := range en.Categories {
			if c != nil {
				e.Categories = append(e.Categories, c.Term)
			}
		}

		e.Media = append(mediaExtensions(en.Extensions), e.Media...)
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

/* ───────── JSON Feed ほか ───────── */

func parseUniversal(data []byte) (*entity.RawFeed, error) {
	doc, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	out := &entity.RawFeed{Title: doc.Title, Entries: make([]entity.RawEntry, 0, len(doc.Items))}
	for _, it := range doc.Items {
		e := entity.RawEntry{
			Title:      it.Title,
			Summary:    firstNonEmpty(it.Description, it.Content),
			Published:  feedTime(it.Published, it.PublishedParsed),
			Categories: it.Categories,
		}
		for _, href := range linkList(it.Link, it.Links) {
			e.Links = append(e.Links, entity.RawLink{Href: href})
		}
		if it.Image != nil && it.Image.URL != "" {
			e.Media = append(e.Media, entity.RawMedia{
				Contents: []entity.RawMediaContent{{URL: it.Image.URL}},
			})
		}
		for _, enc := range it.Enclosures {
			if enc == nil {
				continue
			}
			e.Media = append(e.Media, entity.RawMedia{
				Contents: []entity.RawMediaContent{{URL: enc.URL, ContentType: enc.Type}},
			})
		}
		out.Entries = append(out.Entries, e)
	}
	return out, nil
}

/* ───────── helpers ───────── */

// mediaExtensions reads Media RSS content, either top-level media:content
// elements or those nested in a media:group.
func mediaExtensions(exts ext.Extensions) []entity.RawMedia {
	media, ok := exts["media"]
	if !ok {
		return nil
	}

	var out []entity.RawMedia
	for _, group := range media["group"] {
		if m := mediaContents(group.Children["content"]); len(m.Contents) > 0 {
			out = append(out, m)
		}
	}
	for _, c := range media["content"] {
		if m := mediaContents([]ext.Extension{c}); len(m.Contents) > 0 {
			out = append(out, m)
		}
	}
	return out
}

func mediaContents(contents []ext.Extension) entity.RawMedia {
	var m entity.RawMedia
	for _, c := range contents {
		u := c.Attrs["url"]
		if u == "" {
			continue
		}
		m.Contents = append(m.Contents, entity.RawMediaContent{URL: u, ContentType: c.Attrs["type"]})
	}
	return m
}

// offsetLayouts は数値オフセットを持つ日付書式。名前付きゾーン("EST"など)は
// time.Parse がオフセット0として扱うため含めない。
var offsetLayouts = []string{
	time.RFC1123Z,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 02 Jan 2006 15:04 -0700",
	"Mon, 2 Jan 2006 15:04 -0700",
	"02 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
	time.RFC822Z,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// feedTime returns the instant gofeed parsed, carried in the offset written in
// the raw value. gofeed converts to UTC, so the raw string is parsed again;
// parsed is returned unchanged when that fails or disagrees with it.
func feedTime(raw string, parsed *time.Time) *time.Time {
	if parsed == nil {
		return nil
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range offsetLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if !t.Equal(*parsed) {
			break
		}
		_, offset := t.Zone()
		ft := t.In(time.FixedZone("", offset))
		return &ft
	}
	return parsed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
