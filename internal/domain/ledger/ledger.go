package ledger

import (
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

const (
	// SessionTimeout is the idle gap after which the next action opens a new session.
	SessionTimeout = 30 * time.Minute
	// RawCountCap guards against a stuck actor: counts above it are wiped.
	RawCountCap = 255

	secondsPerDay = 86400

	maxStreakBonus   = 100
	streakBonusStep  = 5
	consistencyStep  = 5
	consistencyDecay = 10
	maxConsistency   = 100
)

// DayOf returns the day index of t in UTC.
func DayOf(t time.Time) int64 {
	return t.Unix() / secondsPerDay
}

// MultiplierForStreak is 100 + min(streak*5, 100).
func MultiplierForStreak(streak int) int {
	bonus := streak * streakBonusStep
	if bonus > maxStreakBonus {
		bonus = maxStreakBonus
	}
	if bonus < 0 {
		bonus = 0
	}
	return 100 + bonus
}

// IsStale reports whether the actor's daily counters belong to an earlier day.
func IsStale(a *Actor, now time.Time) bool {
	return a.Day != DayOf(now)
}

// EffectiveWeighted is today's weighted activity, zero when the counters are stale.
func EffectiveWeighted(a *Actor, now time.Time) int {
	if IsStale(a, now) {
		return 0
	}
	return a.WeightedToday
}

// EnsureDailyReset rolls the actor over to the current day. It is idempotent within a day
// and reports whether anything changed.
func EnsureDailyReset(a *Actor, now time.Time) bool {
	today := DayOf(now)

	if a.Day == today {
		if a.RawCount > RawCountCap {
			slog.Warn("Daily counters exceeded cap, resetting",
				slog.String("type", "ledger"),
				slog.String("actor", a.ID),
				slog.Int("raw_count", a.RawCount))
			clearDaily(a)
			return true
		}
		return false
	}
	if a.Day > today {
		// Clock moved backwards; keep the later day's counters.
		return false
	}

	gap := today - a.Day
	switch {
	case a.Day == 0:
		a.Streak = 1
	case gap == 1:
		a.Streak++
		a.Consistency = min(a.Consistency+consistencyStep, maxConsistency)
	default:
		a.Streak = 1
		a.Consistency = max(a.Consistency-int(gap-1)*consistencyDecay, 0)
	}

	a.StreakMultiplier = MultiplierForStreak(a.Streak)
	if a.Streak > a.LongestStreak {
		a.LongestStreak = a.Streak
	}

	clearDaily(a)
	a.Day = today
	return true
}

// RecordAction credits one action of the given weight to today's counters.
func RecordAction(a *Actor, id catalog.ActionID, weight int, now time.Time) {
	if a.DailyCounts == nil {
		a.DailyCounts = make(map[catalog.ActionID]int)
	}
	if a.ActionTotals == nil {
		a.ActionTotals = make(map[catalog.ActionID]int64)
	}

	a.DailyCounts[id]++
	a.RawCount++
	if weight > 0 {
		a.WeightedToday += weight
	}
	a.ActionTotals[id]++

	if a.LastActivityAt.IsZero() || now.Sub(a.LastActivityAt) > SessionTimeout {
		a.Sessions++
		a.LastSessionAt = now
	}
	a.LastActivityAt = now
}

func clearDaily(a *Actor) {
	a.DailyCounts = make(map[catalog.ActionID]int)
	a.WeightedToday = 0
	a.RawCount = 0
}
