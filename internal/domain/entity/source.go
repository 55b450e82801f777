package entity

import (
	"fmt"
	"time"
)

// NewsSource is a publisher that owns feeds and articles.
type NewsSource struct {
	ID   int64
	Name string
	URL  string
}

// Feed is a configured syndication document polled on its own cadence.
type Feed struct {
	ID              int64
	SourceID        int64
	URL             string
	IntervalMinutes int
}

// Interval returns the refresh interval as a duration.
func (f *Feed) Interval() time.Duration {
	return time.Duration(f.IntervalMinutes) * time.Minute
}

// Validate checks that the feed can be scheduled.
func (f *Feed) Validate() error {
	if err := ValidateURL(f.URL); err != nil {
		return err
	}
	if f.IntervalMinutes <= 0 {
		return &ValidationError{
			Field:   "interval_minutes",
			Message: fmt.Sprintf("must be positive, got %d", f.IntervalMinutes),
		}
	}
	return nil
}

// Validate checks the source's required fields.
func (s *NewsSource) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	return nil
}
