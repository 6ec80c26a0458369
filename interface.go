package logging

// Logger is the structured logging capability handed to application code.
// Child loggers created via With/For satisfy it as well as Service itself.
type Logger interface {
	TraceWith() LogEvent
	DebugWith() LogEvent
	InfoWith() LogEvent
	WarnWith() LogEvent
	ErrorWith() LogEvent
	FatalWith() LogEvent

	// With creates a new logger with pre-populated fields that will be
	// included in all subsequent logs.
	// Example: reqLogger := logger.With().Str("request_id", id).Logger()
	With() LogContext
}
