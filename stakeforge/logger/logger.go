package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand  LogType = "CMD"
	TypeDB       LogType = "DB"
	TypeSystem   LogType = "SYS"
	TypeError    LogType = "ERR"
	TypeGate     LogType = "GATE"
	TypeReward   LogType = "RWD"
	TypeRegistry LogType = "REG"
	TypeAPI      LogType = "API"
)

var logTypes = map[string]LogType{
	"cmd":      TypeCommand,
	"db":       TypeDB,
	"sys":      TypeSystem,
	"error":    TypeError,
	"gate":     TypeGate,
	"rwd":      TypeReward,
	"registry": TypeRegistry,
	"api":      TypeAPI,
}

// attributes rendered in the message itself rather than as key=value pairs
var internalAttrs = map[string]bool{"type": true, "name": true, "user_name": true, "status": true}

// noisy disgo debug messages
var skippedMessages = []string{
	"gateway event",
	"sending heartbeat",
	"received gateway message",
	"rate limit response headers",
	"locking rest bucket",
	"unlocking rest bucket",
	"new request",
	"new response",
}

// CustomHandler writes one colored line per record:
// [StakeForge] [15:04:05] [LEVEL] [TYPE] message [cmd by user] [Status: s] key=value...
type CustomHandler struct {
	mu    *sync.Mutex
	out   io.Writer
	level slog.Leveler
	color bool
	attrs []slog.Attr
	now   func() time.Time
}

func NewHandler(level slog.Leveler) *CustomHandler {
	return &CustomHandler{
		mu:    &sync.Mutex{},
		out:   os.Stdout,
		level: level,
		color: true,
		now:   time.Now,
	}
}

// NewPlainHandler writes uncolored lines to w.
func NewPlainHandler(w io.Writer, level slog.Leveler) *CustomHandler {
	h := NewHandler(level)
	h.out = w
	h.color = false
	return h
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup is a no-op; grouped attributes are flattened.
func (h *CustomHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	lower := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return nil
		}
	}

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	lookup := func(key string) string {
		for _, a := range attrs {
			if a.Key == key {
				return a.Value.String()
			}
		}
		return ""
	}

	logType, ok := logTypes[lookup("type")]
	if !ok {
		logType = TypeSystem
	}

	message := r.Message
	if name, user := lookup("name"), lookup("user_name"); name != "" && user != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, name, user)
	}
	if status := lookup("status"); status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, status)
	}

	var sb strings.Builder
	for _, a := range attrs {
		if !internalAttrs[a.Key] {
			fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		}
	}

	levelColor, levelText := h.levelStyle(r.Level)
	white, reset := colorWhite, colorReset
	if !h.color {
		levelColor, white, reset = "", "", ""
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s[StakeForge] [%s] [%s%s%s] [%s] %s%s%s\n",
		white,
		h.now().Format("15:04:05"),
		levelColor, levelText, white,
		logType,
		message,
		sb.String(),
		reset,
	)
	return err
}

func (h *CustomHandler) levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}
