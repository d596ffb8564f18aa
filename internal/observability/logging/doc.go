// Package logging provides structured logging helpers built on log/slog.
//
// Loggers are created once in main and passed explicitly to services.
// Request IDs stamped by the remote client are attached with WithRequestID
// so a mutation and its follow-up reload can be traced through the logs.
//
// Example usage:
//
//	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
//	logger.Info("snapshot loaded", slog.Int("lists", n))
package logging
