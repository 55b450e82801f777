package scraper

import "errors"

var (
	// ErrFeedFetchFailed covers network failures and non-2xx responses.
	ErrFeedFetchFailed = errors.New("feed fetch failed")
	// ErrInvalidFeedFormat is returned when the body is not a parsable RSS, Atom or JSON feed.
	ErrInvalidFeedFormat = errors.New("invalid feed format")

	ErrInvalidURL       = errors.New("invalid URL")
	ErrPrivateIP        = errors.New("URL resolves to private IP address")
	ErrTooManyRedirects = errors.New("too many redirects")
	ErrBodyTooLarge     = errors.New("response body too large")
)
