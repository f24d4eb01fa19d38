package logger

import (
	"log/slog"
	"time"
)

// SlowQueryThreshold promotes a successful query log from debug to warn.
const SlowQueryThreshold = 500 * time.Millisecond

// QueryLogger times one repository operation and logs its outcome.
type QueryLogger struct {
	Operation string
	Target    string
	Args      []any
	StartTime time.Time
}

func NewQueryLogger(operation, target string, args ...any) *QueryLogger {
	return &QueryLogger{
		Operation: operation,
		Target:    target,
		Args:      args,
		StartTime: time.Now(),
	}
}

// Log records the outcome. rows is the number of rows read or written.
func (l *QueryLogger) Log(err error, rows int64) {
	duration := time.Since(l.StartTime)
	attrs := []any{
		slog.String("type", "db"),
		slog.String("operation", l.Operation),
		slog.String("target", l.Target),
		slog.Any("args", l.Args),
		slog.Duration("took", duration),
	}

	switch {
	case err != nil:
		slog.Error("Query failed", append(attrs, slog.Any("error", err))...)
	case duration >= SlowQueryThreshold:
		slog.Warn("Slow query", append(attrs, slog.Int64("rows", rows))...)
	default:
		slog.Debug("Query executed", append(attrs, slog.Int64("rows", rows))...)
	}
}
