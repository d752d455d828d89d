package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// OperationKey is the context key for the running operation name
	// ("load", "save", "reload", "migrate", "watch").
	OperationKey contextKey = "operation"

	// ConfigPathKey is the context key for the configuration file path.
	ConfigPathKey contextKey = "config_path"

	// ReloadIDKey is the context key for reload cycle identifiers.
	ReloadIDKey contextKey = "reload_id"

	// TriggerKey is the context key for what initiated a reload
	// ("watcher", "manual", "signal").
	TriggerKey contextKey = "trigger"

	// BackendKey is the context key for the active backend name.
	BackendKey contextKey = "backend"
)

// WithOperation adds an operation name to the context.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, OperationKey, operation)
}

// GetOperation retrieves the operation name from the context.
func GetOperation(ctx context.Context) string {
	if operation, ok := ctx.Value(OperationKey).(string); ok {
		return operation
	}
	return ""
}

// WithConfigPath adds a configuration file path to the context.
func WithConfigPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ConfigPathKey, path)
}

// GetConfigPath retrieves the configuration file path from the context.
func GetConfigPath(ctx context.Context) string {
	if path, ok := ctx.Value(ConfigPathKey).(string); ok {
		return path
	}
	return ""
}

// WithReloadID adds a reload cycle identifier to the context.
func WithReloadID(ctx context.Context, reloadID string) context.Context {
	return context.WithValue(ctx, ReloadIDKey, reloadID)
}

// GetReloadID retrieves the reload cycle identifier from the context.
func GetReloadID(ctx context.Context) string {
	if reloadID, ok := ctx.Value(ReloadIDKey).(string); ok {
		return reloadID
	}
	return ""
}

// WithTrigger adds a reload trigger to the context.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, TriggerKey, trigger)
}

// GetTrigger retrieves the reload trigger from the context.
func GetTrigger(ctx context.Context) string {
	if trigger, ok := ctx.Value(TriggerKey).(string); ok {
		return trigger
	}
	return ""
}

// WithBackend adds the active backend name to the context.
func WithBackend(ctx context.Context, backend string) context.Context {
	return context.WithValue(ctx, BackendKey, backend)
}

// GetBackend retrieves the active backend name from the context.
func GetBackend(ctx context.Context) string {
	if backend, ok := ctx.Value(BackendKey).(string); ok {
		return backend
	}
	return ""
}

// extractContextFields extracts common fields from context for logging.
// Returns a slice of key-value pairs suitable for logger.With().
func extractContextFields(ctx context.Context) []any {
	var fields []any

	if operation := GetOperation(ctx); operation != "" {
		fields = append(fields, "operation", operation)
	}

	if path := GetConfigPath(ctx); path != "" {
		fields = append(fields, "config_path", path)
	}

	if reloadID := GetReloadID(ctx); reloadID != "" {
		fields = append(fields, "reload_id", reloadID)
	}

	if trigger := GetTrigger(ctx); trigger != "" {
		fields = append(fields, "trigger", trigger)
	}

	if backend := GetBackend(ctx); backend != "" {
		fields = append(fields, "backend", backend)
	}

	return fields
}

// ContextLogger is a logger that automatically includes context fields.
type ContextLogger struct {
	logger *Logger
	ctx    context.Context
}

// NewContextLogger creates a logger that automatically includes context fields.
func NewContextLogger(logger *Logger, ctx context.Context) *ContextLogger {
	return &ContextLogger{
		logger: logger.WithContext(ctx),
		ctx:    ctx,
	}
}

// Debug logs a debug message with context fields.
func (cl *ContextLogger) Debug(msg string, args ...any) {
	cl.logger.DebugContext(cl.ctx, msg, args...)
}

// Info logs an info message with context fields.
func (cl *ContextLogger) Info(msg string, args ...any) {
	cl.logger.InfoContext(cl.ctx, msg, args...)
}

// Warn logs a warning message with context fields.
func (cl *ContextLogger) Warn(msg string, args ...any) {
	cl.logger.WarnContext(cl.ctx, msg, args...)
}

// Error logs an error message with context fields.
func (cl *ContextLogger) Error(msg string, args ...any) {
	cl.logger.ErrorContext(cl.ctx, msg, args...)
}

// With creates a new context logger with additional fields.
func (cl *ContextLogger) With(args ...any) *ContextLogger {
	return &ContextLogger{
		logger: cl.logger.With(args...),
		ctx:    cl.ctx,
	}
}
