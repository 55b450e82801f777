package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "https", url: "https://example.com/feed.xml"},
		{name: "http", url: "http://example.com/rss"},
		{name: "empty", url: "", wantErr: true},
		{name: "ftp scheme", url: "ftp://example.com/feed", wantErr: true},
		{name: "relative", url: "/feed.xml", wantErr: true},
		{name: "no host", url: "https:///feed", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFeed_Validate(t *testing.T) {
	ok := &Feed{URL: "https://example.com/rss", IntervalMinutes: 30}
	assert.NoError(t, ok.Validate())

	zero := &Feed{URL: "https://example.com/rss", IntervalMinutes: 0}
	err := zero.Validate()
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "interval_minutes", vErr.Field)
}

func TestFeed_Interval(t *testing.T) {
	f := &Feed{IntervalMinutes: 15}
	assert.Equal(t, 15*time.Minute, f.Interval())
}

func TestNewsSource_Validate(t *testing.T) {
	assert.Error(t, (&NewsSource{}).Validate())
	assert.NoError(t, (&NewsSource{Name: "example.com"}).Validate())
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "url", Message: "URL is required"}
	assert.Equal(t, "validation error on field 'url': URL is required", err.Error())
}

func TestValidationError_Is(t *testing.T) {
	err := error(&ValidationError{Field: "url", Message: "is required"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, errors.New("invalid input")))
	assert.Equal(t, "validation error on field 'url': is required", err.Error())
}
