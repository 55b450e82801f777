package entity

import "time"

// RawFeed is a parsed feed document before normalization.
type RawFeed struct {
	Title   string
	Entries []RawEntry
}

// RawEntry is one item of a polled document. Empty strings mean the field was
// absent from the document.
type RawEntry struct {
	Links      []RawLink
	Title      string
	Summary    string
	Published  *time.Time
	Categories []string
	Media      []RawMedia
}

// RawLink is an entry link with an optional media type.
type RawLink struct {
	Href      string
	MediaType string
}

// RawMedia is one embedded media object (media:content, media:group, enclosure).
type RawMedia struct {
	Contents []RawMediaContent
}

// RawMediaContent is a typed content URL inside an embedded media object.
type RawMediaContent struct {
	URL         string
	ContentType string
}
