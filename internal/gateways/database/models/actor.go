package models

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/uptrace/bun"
)

type Actor struct {
	bun.BaseModel `bun:"table:actors,alias:ac"`

	ID            string                   `bun:"id,pk"`
	Day           int64                    `bun:"day,notnull,default:0"`
	DailyCounts   map[catalog.ActionID]int `bun:"daily_counts,type:jsonb,notnull,default:'{}'"`
	WeightedToday int                      `bun:"weighted_today,notnull,default:0"`
	RawCount      int                      `bun:"raw_count,notnull,default:0"`

	Streak           int `bun:"streak,notnull,default:0"`
	LongestStreak    int `bun:"longest_streak,notnull,default:0"`
	StreakMultiplier int `bun:"streak_multiplier,notnull,default:100"`
	SkillRating      int `bun:"skill_rating,notnull,default:1000"`
	Consistency      int `bun:"consistency,notnull,default:0"`

	LastActivityAt time.Time `bun:"last_activity_at,nullzero"`
	LastSessionAt  time.Time `bun:"last_session_at,nullzero"`
	Sessions       int       `bun:"sessions,notnull,default:0"`

	ActionTotals map[catalog.ActionID]int64     `bun:"action_totals,type:jsonb,notnull,default:'{}'"`
	EventLog     map[catalog.ActionID]time.Time `bun:"event_log,type:jsonb,notnull,default:'{}'"`

	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// DailyActivity is the per-day history row for an actor. It is upserted on every
// committed action.
type DailyActivity struct {
	bun.BaseModel `bun:"table:daily_activity,alias:da"`

	ActorID       string                   `bun:"actor_id,pk"`
	Day           int64                    `bun:"day,pk"`
	Counts        map[catalog.ActionID]int `bun:"counts,type:jsonb,notnull,default:'{}'"`
	WeightedTotal int                      `bun:"weighted_total,notnull,default:0"`
	RawCount      int                      `bun:"raw_count,notnull,default:0"`
	Streak        int                      `bun:"streak,notnull,default:0"`
	UpdatedAt     time.Time                `bun:"updated_at,notnull,default:current_timestamp"`
}
