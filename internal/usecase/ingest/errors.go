// Package ingest runs one feed through fetch, normalization and the batched
// create-if-absent writes of labels, articles and article labels.
package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrFeedUnavailable means the feed could not be fetched or parsed. Nothing was written.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrEntrySkipped marks an entry that cannot become an article.
	ErrEntrySkipped = errors.New("entry skipped")
	ErrMissingLink  = fmt.Errorf("%w: no usable link", ErrEntrySkipped)
	ErrMissingTitle = fmt.Errorf("%w: missing title", ErrEntrySkipped)

	// ErrStorage wraps any persistence failure.
	ErrStorage = errors.New("storage error")
)
