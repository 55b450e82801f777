package scraper

import (
	"fmt"
	"time"
)

// Config controls the HTTP side of feed polling.
type Config struct {
	// Timeout bounds a single HTTP attempt, retries excluded.
	Timeout time.Duration

	// MaxBodySize is enforced while reading, not from Content-Length.
	MaxBodySize int64

	UserAgent string

	// RatePerSecond limits requests across all hosts. Burst is 1.
	RatePerSecond float64

	// RetryAttempts includes the first attempt.
	RetryAttempts int

	MaxRedirects int

	// DenyPrivateIPs rejects URLs and redirect targets resolving to loopback,
	// private or link-local addresses.
	DenyPrivateIPs bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:        15 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		UserAgent:      "NewsScraperBot/1.0",
		RatePerSecond:  2,
		RetryAttempts:  3,
		MaxRedirects:   5,
		DenyPrivateIPs: false,
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.RatePerSecond <= 0 {
		return fmt.Errorf("rate per second must be positive, got %v", c.RatePerSecond)
	}

	if c.RetryAttempts < 1 || c.RetryAttempts > 10 {
		return fmt.Errorf("retry attempts must be between 1 and 10, got %d", c.RetryAttempts)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}
