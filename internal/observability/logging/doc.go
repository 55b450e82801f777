// Package logging provides structured logging utilities with context propagation.
//
// Example usage:
//
//	logger := logging.NewLogger()
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("pass_id", id)))
//	logging.FromContext(ctx).Info("scheduling pass started")
package logging
