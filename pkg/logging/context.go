package logging

import "log/slog"

// WithComponent returns a logger annotated with the originating subsystem,
// e.g. "planner", "scan", "select".
//
// Example:
//
//	log := logging.WithComponent("join")
//	log.Debug("built left-deep tree", "tables", 3)
func WithComponent(component string) *slog.Logger {
	return Get().With("component", component)
}

// WithOperation returns a logger annotated with the operation in progress,
// e.g. "Eval", "Open", "Next".
func WithOperation(operation string) *slog.Logger {
	return Get().With("operation", operation)
}

// WithTable returns a logger annotated with a table name, for catalog and
// scan diagnostics.
func WithTable(table string) *slog.Logger {
	return Get().With("table", table)
}

// WithError returns a logger with the error pre-attached in structured
// form, for the tolerant per-tuple failures Select and Join swallow.
func WithError(err error) *slog.Logger {
	return Get().With("error", err.Error())
}
