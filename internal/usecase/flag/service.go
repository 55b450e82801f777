// Package flag coordinates the persisted dirty flags that tell the scheduler
// to reload feeds and tell downstream consumers that articles changed.
package flag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"news-scraper/internal/repository"
)

// Well-known flag names.
const (
	FeedsModified    = "rss_feeds_modified"
	ArticlesModified = "articles_modified"
)

var ErrInvalidName = errors.New("flag name must not be empty")

type Service struct {
	Repo repository.FlagRepository
}

func NewService(repo repository.FlagRepository) *Service {
	return &Service{Repo: repo}
}

// Get returns the flag value. A flag read for the first time is created as false.
func (s *Service) Get(ctx context.Context, name string) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, ErrInvalidName
	}
	v, err := s.Repo.Get(ctx, name)
	if err != nil {
		return false, fmt.Errorf("get flag: %w", err)
	}
	return v, nil
}

// Set creates the flag if needed and overwrites its value. Last writer wins.
func (s *Service) Set(ctx context.Context, name string, value bool) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if err := s.Repo.Set(ctx, name, value); err != nil {
		return fmt.Errorf("set flag: %w", err)
	}
	return nil
}

func (s *Service) FeedsModified(ctx context.Context) (bool, error) {
	return s.Get(ctx, FeedsModified)
}

func (s *Service) MarkFeedsModified(ctx context.Context) error {
	return s.Set(ctx, FeedsModified, true)
}

func (s *Service) ClearFeedsModified(ctx context.Context) error {
	return s.Set(ctx, FeedsModified, false)
}

func (s *Service) ArticlesModified(ctx context.Context) (bool, error) {
	return s.Get(ctx, ArticlesModified)
}

func (s *Service) MarkArticlesModified(ctx context.Context) error {
	return s.Set(ctx, ArticlesModified, true)
}
