package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	h := NewPlainHandler(buf, level)
	h.now = func() time.Time { return time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC) }
	return slog.New(h)
}

func TestCustomHandler_Format(t *testing.T) {
	tests := []struct {
		name  string
		log   func(l *slog.Logger)
		want  string
	}{
		{
			name: "Command",
			log: func(l *slog.Logger) {
				l.Info("Command completed", slog.String("type", "cmd"), slog.String("name", "act"),
					slog.String("user_name", "mira"), slog.String("status", "success"))
			},
			want: "[StakeForge] [09:30:00] [INFO] [CMD] Command completed [act by mira] [Status: success]\n",
		},
		{
			name: "GateWithAttrs",
			log: func(l *slog.Logger) {
				l.Warn("Action rejected", slog.String("type", "gate"), slog.Int("action", 3))
			},
			want: "[StakeForge] [09:30:00] [WARN] [GATE] Action rejected action=3\n",
		},
		{
			name: "UnknownTypeDefaultsToSystem",
			log: func(l *slog.Logger) {
				l.Error("Boom", slog.String("type", "mystery"))
			},
			want: "[StakeForge] [09:30:00] [ERROR] [SYS] Boom\n",
		},
		{
			name: "WithAttrs",
			log: func(l *slog.Logger) {
				l.With(slog.String("type", "rwd")).Info("Rewards claimed", slog.Int64("amount", 5))
			},
			want: "[StakeForge] [09:30:00] [INFO] [RWD] Rewards claimed amount=5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newTestLogger(&buf, slog.LevelDebug))
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCustomHandler_FiltersLevelAndNoise(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("sending heartbeat to gateway")
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}

	l.Info("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("missing output, got %q", buf.String())
	}
}
