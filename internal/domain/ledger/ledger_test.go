package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

var day0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestEnsureDailyReset_Streak(t *testing.T) {
	tests := []struct {
		name           string
		prevStreak     int
		gapDays        int
		wantStreak     int
		wantMultiplier int
	}{
		{name: "ConsecutiveDay", prevStreak: 4, gapDays: 1, wantStreak: 5, wantMultiplier: 125},
		{name: "MissedDay", prevStreak: 9, gapDays: 2, wantStreak: 1, wantMultiplier: 105},
		{name: "MultiplierCapped", prevStreak: 40, gapDays: 1, wantStreak: 41, wantMultiplier: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewActor("u1")
			a.Day = DayOf(day0)
			a.Streak = tt.prevStreak
			a.DailyCounts[1] = 3
			a.WeightedToday = 70

			now := day0.Add(time.Duration(tt.gapDays) * 24 * time.Hour)
			if !EnsureDailyReset(a, now) {
				t.Fatal("EnsureDailyReset() reported no change on a new day")
			}
			if a.Streak != tt.wantStreak {
				t.Errorf("Streak = %d, want %d", a.Streak, tt.wantStreak)
			}
			if a.StreakMultiplier != tt.wantMultiplier {
				t.Errorf("StreakMultiplier = %d, want %d", a.StreakMultiplier, tt.wantMultiplier)
			}
			if a.CountToday(1) != 0 || a.WeightedToday != 0 {
				t.Errorf("daily counters not cleared: counts=%v weighted=%d", a.DailyCounts, a.WeightedToday)
			}
			if a.LongestStreak < a.Streak {
				t.Errorf("LongestStreak %d below Streak %d", a.LongestStreak, a.Streak)
			}
		})
	}
}

func TestEnsureDailyReset_FirstActivity(t *testing.T) {
	a := NewActor("new")
	EnsureDailyReset(a, day0)
	if a.Streak != 1 || a.LongestStreak != 1 || a.Day != DayOf(day0) {
		t.Errorf("first reset: streak=%d longest=%d day=%d", a.Streak, a.LongestStreak, a.Day)
	}
}

func TestEnsureDailyReset_Idempotent(t *testing.T) {
	a := NewActor("u2")
	a.Day = DayOf(day0) - 1
	a.Streak = 2
	a.DailyCounts[2] = 5

	EnsureDailyReset(a, day0)
	RecordAction(a, 2, 25, day0)
	first := a.Clone()

	if EnsureDailyReset(a, day0.Add(3*time.Hour)) {
		t.Error("second EnsureDailyReset() on the same day reported a change")
	}
	if !reflect.DeepEqual(a, first) {
		t.Errorf("state changed after second reset:\n got %+v\nwant %+v", a, first)
	}
}

func TestEnsureDailyReset_OverflowGuard(t *testing.T) {
	a := NewActor("spammer")
	a.Day = DayOf(day0)
	a.RawCount = RawCountCap + 1
	a.DailyCounts[1] = RawCountCap + 1
	a.WeightedToday = 9000
	a.Streak = 3

	if !EnsureDailyReset(a, day0) {
		t.Fatal("overflow guard did not trigger")
	}
	if a.RawCount != 0 || a.WeightedToday != 0 || a.CountToday(1) != 0 {
		t.Errorf("counters not reset: raw=%d weighted=%d", a.RawCount, a.WeightedToday)
	}
	if a.Streak != 3 {
		t.Errorf("overflow guard must keep the streak, got %d", a.Streak)
	}
}

func TestRecordAction_Sessions(t *testing.T) {
	a := NewActor("u3")
	EnsureDailyReset(a, day0)

	RecordAction(a, 1, 10, day0)
	RecordAction(a, 1, 10, day0.Add(10*time.Minute))
	RecordAction(a, 3, 50, day0.Add(10*time.Minute+SessionTimeout+time.Second))

	if a.Sessions != 2 {
		t.Errorf("Sessions = %d, want 2", a.Sessions)
	}
	if a.CountToday(1) != 2 || a.CountToday(3) != 1 {
		t.Errorf("DailyCounts = %v", a.DailyCounts)
	}
	if a.WeightedToday != 70 {
		t.Errorf("WeightedToday = %d, want 70", a.WeightedToday)
	}
	if a.ActionTotals[catalog.ActionID(1)] != 2 {
		t.Errorf("ActionTotals[1] = %d, want 2", a.ActionTotals[1])
	}
}

func TestEffectiveWeighted_Stale(t *testing.T) {
	a := NewActor("u4")
	a.Day = DayOf(day0)
	a.WeightedToday = 1300

	if got := EffectiveWeighted(a, day0); got != 1300 {
		t.Errorf("EffectiveWeighted(today) = %d, want 1300", got)
	}
	if got := EffectiveWeighted(a, day0.Add(24*time.Hour)); got != 0 {
		t.Errorf("EffectiveWeighted(tomorrow) = %d, want 0", got)
	}
}
