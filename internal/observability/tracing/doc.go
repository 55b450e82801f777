// Package tracing provides the OpenTelemetry tracer used for scheduling passes
// and feed ingestion spans.
package tracing
