package seed_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-scraper/internal/domain/entity"
	"news-scraper/internal/usecase/seed"
)

/* ───────── モック実装 ───────── */

type memFeeds struct {
	sources map[string]int64
	feeds   map[string]*entity.Feed
	nextID  int64
	failOn  string
}

func newMemFeeds() *memFeeds {
	return &memFeeds{sources: map[string]int64{}, feeds: map[string]*entity.Feed{}}
}

func (m *memFeeds) List(context.Context) ([]*entity.Feed, error) {
	out := make([]*entity.Feed, 0, len(m.feeds))
	for _, f := range m.feeds {
		out = append(out, f)
	}
	return out, nil
}

func (m *memFeeds) Count(context.Context) (int64, error) { return int64(len(m.feeds)), nil }

func (m *memFeeds) UpsertSource(_ context.Context, s *entity.NewsSource) (int64, error) {
	if id, ok := m.sources[s.Name]; ok {
		s.ID = id
		return id, nil
	}
	m.nextID++
	m.sources[s.Name] = m.nextID
	s.ID = m.nextID
	return m.nextID, nil
}

func (m *memFeeds) CreateFeed(_ context.Context, f *entity.Feed) (bool, error) {
	if f.URL == m.failOn {
		return false, errors.New("db down")
	}
	if _, ok := m.feeds[f.URL]; ok {
		return false, nil
	}
	m.nextID++
	cp := *f
	cp.ID = m.nextID
	m.feeds[f.URL] = &cp
	return true, nil
}

type stubFlags struct{ marked int }

func (s *stubFlags) MarkFeedsModified(context.Context) error {
	s.marked++
	return nil
}

/* ───────── テスト ───────── */

func TestLoad_YAMLManifest(t *testing.T) {
	data := []byte(`
sources:
  - name: Example News
    url: https://example.com
    feeds:
      - url: https://example.com/rss
        interval_minutes: 15
      - url: https://example.com/atom
`)
	m, err := seed.Load(data)
	require.NoError(t, err)

	want := &seed.Manifest{Sources: []seed.SourceSpec{{
		Name: "Example News",
		URL:  "https://example.com",
		Feeds: []seed.FeedSpec{
			{URL: "https://example.com/rss", IntervalMinutes: 15},
			{URL: "https://example.com/atom"},
		},
	}}}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PlainURLList(t *testing.T) {
	data := []byte(`# feeds
https://www.example.com/rss
https://example.com/atom
https://other.org/feed.xml
`)
	m, err := seed.Load(data)
	require.NoError(t, err)
	require.Len(t, m.Sources, 2)

	assert.Equal(t, "example.com", m.Sources[0].Name)
	assert.Equal(t, "https://www.example.com", m.Sources[0].URL)
	assert.Len(t, m.Sources[0].Feeds, 2)
	assert.Equal(t, "other.org", m.Sources[1].Name)
}

func TestLoad_Errors(t *testing.T) {
	_, err := seed.Load([]byte("# nothing here\n\n"))
	assert.ErrorIs(t, err, seed.ErrEmptyManifest)

	_, err = seed.Load([]byte("ftp://example.com/feed\n"))
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestApply_CreatesMissingAndMarksFlag(t *testing.T) {
	ctx := context.Background()
	feeds := newMemFeeds()
	flags := &stubFlags{}
	svc := seed.NewService(feeds, flags, 60)

	m := &seed.Manifest{Sources: []seed.SourceSpec{{
		Name: "Example",
		URL:  "https://example.com",
		Feeds: []seed.FeedSpec{
			{URL: "https://example.com/rss", IntervalMinutes: 5},
			{URL: "https://example.com/atom"},
		},
	}}}

	res, err := svc.Apply(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, &seed.Result{Sources: 1, FeedsCreated: 2}, res)
	assert.Equal(t, 1, flags.marked)
	assert.Equal(t, 5, feeds.feeds["https://example.com/rss"].IntervalMinutes)
	assert.Equal(t, 60, feeds.feeds["https://example.com/atom"].IntervalMinutes)

	// 2回目は何も作成されず、フラグも立たない
	res, err = svc.Apply(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, &seed.Result{Sources: 1, FeedsExisted: 2}, res)
	assert.Equal(t, 1, flags.marked)
}

func TestApply_Validation(t *testing.T) {
	ctx := context.Background()
	svc := seed.NewService(newMemFeeds(), &stubFlags{}, 60)

	_, err := svc.Apply(ctx, &seed.Manifest{Sources: []seed.SourceSpec{{Name: " "}}})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.Apply(ctx, &seed.Manifest{Sources: []seed.SourceSpec{{
		Name:  "Bad",
		Feeds: []seed.FeedSpec{{URL: "https://bad.com/rss", IntervalMinutes: -1}},
	}}})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestApply_StorageErrorStopsWithoutFlag(t *testing.T) {
	feeds := newMemFeeds()
	feeds.failOn = "https://example.com/rss"
	flags := &stubFlags{}
	svc := seed.NewService(feeds, flags, 60)

	_, err := svc.Apply(context.Background(), &seed.Manifest{Sources: []seed.SourceSpec{{
		Name:  "Example",
		Feeds: []seed.FeedSpec{{URL: "https://example.com/rss"}},
	}}})
	require.Error(t, err)
	assert.Zero(t, flags.marked)
}
