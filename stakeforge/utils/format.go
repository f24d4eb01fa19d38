package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

// FormatAmount renders base units as whole tokens with two decimals, truncating.
func FormatAmount(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / catalog.Unit
	cents := (v % catalog.Unit) / (catalog.Unit / 100)
	return fmt.Sprintf("%s%s.%02d", sign, groupThousands(whole), cents)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatDuration renders d as "1d 2h", "3h 5m", "4m 10s" or "9s".
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	d = d.Round(time.Second)
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	seconds := int(d % time.Minute / time.Second)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// FormatPercent renders a whole-percent bonus with its sign.
func FormatPercent(p int) string {
	if p > 0 {
		return fmt.Sprintf("+%d%%", p)
	}
	return fmt.Sprintf("%d%%", p)
}

// ProgressBar draws current/total as a ten cell bar.
func ProgressBar(current, total int) string {
	const cells = 10
	filled := 0
	if total > 0 {
		filled = current * cells / total
	}
	filled = min(max(filled, 0), cells)
	return "[" + strings.Repeat("■", filled) + strings.Repeat("□", cells-filled) + "]"
}
