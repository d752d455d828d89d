// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Automatic masking of passwords and credentials in log fields
//   - Context-aware logging with operation and reload metadata
//   - Size-based log file rotation
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// Create a logger
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//
//	// Log structured data
//	logger.Info("redis started",
//	    "port", 6379,
//	    "password", "hunter2",  // Automatically masked
//	)
//
//	// Create context-aware logger
//	ctx := logging.WithOperation(context.Background(), "reload")
//	ctx = logging.WithReloadID(ctx, reloadID)
//	logger.InfoContext(ctx, "configuration applied")
//
// # Secret redaction
//
// Secret material is masked in log fields when RedactSecrets is enabled:
//
//   - Values under sensitive keys (password, requirepass, token): ***
//   - Connection URIs: redis://user:pw@host:6379 becomes redis://***@host:6379
//   - Command lines: --requirepass hunter2 becomes --requirepass ***
//   - Environment assignments: REDKEEP_CRED_REDIS_MAIN=pw becomes REDKEEP_CRED_REDIS_MAIN=***
//
// Masking keeps no prefix or length hint. Secret references such as
// ${ENV:REDIS_PASSWORD} contain no secret material and pass through
// untouched.
//
// # File rotation
//
// Setting FilePath sends output to a RotatingWriter, which rotates the file
// when it reaches MaxSizeMB and keeps MaxFiles rotated copies. These map
// directly onto the monitoring.maxLogSizeMB and monitoring.maxLogFiles
// configuration fields.
package logging
