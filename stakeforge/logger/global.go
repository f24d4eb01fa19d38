package logger

import "log/slog"

// LogSystem logs a system event
func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "sys")}, attrs...)...)
}

// LogError logs a failure with the error attached
func LogError(msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{slog.String("type", "error"), slog.Any("error", err)}, attrs...)...)
}
