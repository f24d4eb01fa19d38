package ledger

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

// DefaultSkillRating is the rating every actor starts with.
const DefaultSkillRating = 1000

// Actor is an account's daily bookkeeping and engagement state.
type Actor struct {
	ID string

	// Day is the last activity day (unix seconds / 86400). Zero means never active.
	Day           int64
	DailyCounts   map[catalog.ActionID]int
	WeightedToday int
	// RawCount is today's total action count; it backs the overflow guard.
	RawCount int

	Streak           int
	LongestStreak    int
	StreakMultiplier int

	SkillRating int
	Consistency int

	LastActivityAt time.Time
	LastSessionAt  time.Time
	Sessions       int

	ActionTotals map[catalog.ActionID]int64
	// EventLog records per-actor action times while a colony event is open.
	EventLog map[catalog.ActionID]time.Time
}

// NewActor creates a never-active actor.
func NewActor(id string) *Actor {
	return &Actor{
		ID:               id,
		DailyCounts:      make(map[catalog.ActionID]int),
		StreakMultiplier: 100,
		SkillRating:      DefaultSkillRating,
		ActionTotals:     make(map[catalog.ActionID]int64),
		EventLog:         make(map[catalog.ActionID]time.Time),
	}
}

// Clone returns a deep copy.
func (a *Actor) Clone() *Actor {
	c := *a
	c.DailyCounts = make(map[catalog.ActionID]int, len(a.DailyCounts))
	for k, v := range a.DailyCounts {
		c.DailyCounts[k] = v
	}
	c.ActionTotals = make(map[catalog.ActionID]int64, len(a.ActionTotals))
	for k, v := range a.ActionTotals {
		c.ActionTotals[k] = v
	}
	c.EventLog = make(map[catalog.ActionID]time.Time, len(a.EventLog))
	for k, v := range a.EventLog {
		c.EventLog[k] = v
	}
	return &c
}

// CountToday returns today's count for one action.
func (a *Actor) CountToday(id catalog.ActionID) int {
	return a.DailyCounts[id]
}
