// Package entity defines the core domain entities of the scraper: feeds and the
// news sources that own them, normalized articles with their labels, and the raw
// feed model produced by the fetch adapter.
package entity

import "time"

// Article is the normalized, persisted unit. URL is the natural key; an article
// stored under a URL is never overwritten by a later poll.
type Article struct {
	ID          int64
	SourceID    int64
	URL         string
	Title       string
	Description *string
	Photo       *string
	PublishedAt *time.Time
	CreatedAt   time.Time
}

// ArticleLabel links an article to a label name.
type ArticleLabel struct {
	ArticleID int64
	Label     string
}

// ArticleLabelRef is an article↔label pair keyed by article URL, used before the
// article id is known.
type ArticleLabelRef struct {
	ArticleURL string
	Label      string
}
