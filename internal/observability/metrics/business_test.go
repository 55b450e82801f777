package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFeedRun(t *testing.T) {
	before := testutil.ToFloat64(FeedRunsTotal.WithLabelValues(ResultUnavailable))

	RecordFeedRun(ResultUnavailable, 250*time.Millisecond)

	after := testutil.ToFloat64(FeedRunsTotal.WithLabelValues(ResultUnavailable))
	assert.Equal(t, before+1, after)
}

func TestRecordArticlesInserted_IgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(ArticlesInsertedTotal)

	RecordArticlesInserted(0)
	RecordArticlesInserted(3)

	assert.Equal(t, before+3, testutil.ToFloat64(ArticlesInsertedTotal))
}

func TestRecordEntrySkipped(t *testing.T) {
	before := testutil.ToFloat64(EntriesSkippedTotal.WithLabelValues("missing_link"))

	RecordEntrySkipped("missing_link")

	assert.Equal(t, before+1, testutil.ToFloat64(EntriesSkippedTotal.WithLabelValues("missing_link")))
}

func TestUpdateInventoryGauges(t *testing.T) {
	UpdateArticlesTotal(42)
	UpdateFeedsTotal(7)

	m := &dto.Metric{}
	require.NoError(t, ArticlesTotal.Write(m))
	assert.Equal(t, 42.0, m.GetGauge().GetValue())

	m = &dto.Metric{}
	require.NoError(t, FeedsTotal.Write(m))
	assert.Equal(t, 7.0, m.GetGauge().GetValue())
}

func TestMetricsFunctions_AllCallable(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordLabelsCreated(2)
		RecordFetchError("network")
		RecordFetchError("parse")
		RecordStorageError("upsert_articles")
	})
}
