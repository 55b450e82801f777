// Package observability groups the logging, metrics and tracing helpers used by
// the scraper.
//
// Subpackages:
//   - logging: slog construction and context propagation
//   - metrics: Prometheus collectors for feed runs and storage
//   - tracing: OpenTelemetry tracer and provider setup
package observability
