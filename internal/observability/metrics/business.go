package metrics

import "time"

// RecordFeedRun counts one feed ingestion and observes its duration.
func RecordFeedRun(result string, duration time.Duration) {
	FeedRunsTotal.WithLabelValues(result).Inc()
	FeedRunDuration.Observe(duration.Seconds())
}

func RecordArticlesInserted(count int) {
	if count > 0 {
		ArticlesInsertedTotal.Add(float64(count))
	}
}

func RecordLabelsCreated(count int) {
	if count > 0 {
		LabelsCreatedTotal.Add(float64(count))
	}
}

// RecordEntrySkipped counts one entry dropped by the normalizer.
func RecordEntrySkipped(reason string) {
	EntriesSkippedTotal.WithLabelValues(reason).Inc()
}

func RecordFetchError(kind string) {
	FetchErrorsTotal.WithLabelValues(kind).Inc()
}

func RecordStorageError(operation string) {
	StorageErrorsTotal.WithLabelValues(operation).Inc()
}

func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

func UpdateFeedsTotal(count int64) {
	FeedsTotal.Set(float64(count))
}
