// Package metrics provides the Prometheus collectors for feed ingestion and
// storage. All collectors register with the default registry through promauto
// and are exposed on the worker's /metrics endpoint.
//
// Example usage:
//
//	start := time.Now()
//	stats, err := svc.RunFeed(ctx, feed)
//	metrics.RecordFeedRun(metrics.ResultSuccess, time.Since(start))
//	metrics.RecordArticlesInserted(int(stats.ArticlesInserted))
package metrics
