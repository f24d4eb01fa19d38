package catalog

import (
	"fmt"
	"time"
)

// ActionID identifies a configured action type.
type ActionID uint8

// Category groups action types. Exactly one category (CategoryColony) requires colony membership.
type Category uint8

const (
	CategoryGather Category = iota + 1
	CategoryExplore
	CategoryCraft
	CategoryBattle
	CategoryColony
)

var categoryNames = map[Category]string{
	CategoryGather:  "gather",
	CategoryExplore: "explore",
	CategoryCraft:   "craft",
	CategoryBattle:  "battle",
	CategoryColony:  "colony",
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// ParseCategory maps a table-file name back to a Category.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown action category %q", s)
}

// DailyLimit is the per-action daily cap: Base plus a streak progression bonus, capped at Max.
type DailyLimit struct {
	Base             int
	ProgressionStep  int
	ProgressionBonus int
	Max              int
}

// For returns the limit that applies to an actor on the given streak.
// A zero Base means the action has no daily limit and For returns 0.
func (l DailyLimit) For(streak int) int {
	if l.Base <= 0 {
		return 0
	}
	limit := l.Base
	if l.ProgressionStep > 0 && streak > 0 {
		limit += (streak / l.ProgressionStep) * l.ProgressionBonus
	}
	if l.Max > 0 && limit > l.Max {
		limit = l.Max
	}
	return limit
}

// TimeWindow is an optional scheduled window in unix seconds. End == 0 means unbounded.
type TimeWindow struct {
	Start int64
	End   int64
}

// Configured reports whether a window applies at all.
func (w TimeWindow) Configured() bool {
	return w.Start != 0 || w.End != 0
}

// Contains reports whether t falls within [Start, End].
func (w TimeWindow) Contains(t time.Time) bool {
	now := t.Unix()
	if now < w.Start {
		return false
	}
	return w.End == 0 || now <= w.End
}

// ActionType is the static configuration of one action.
type ActionType struct {
	ID       ActionID
	Name     string
	Category Category

	BaseCooldown time.Duration
	SmartFloor   time.Duration

	// Difficulty is the tier 1..5; 0 means unconfigured.
	Difficulty       int
	RewardMultiplier int
	ChargeCost       int
	DailyLimit       DailyLimit
	Window           TimeWindow
}

// DifficultyTier resolves the action's tier, falling back to a tier derived from the
// action id (1..5) when the table leaves it unset.
func (a ActionType) DifficultyTier() int {
	if a.Difficulty >= 1 && a.Difficulty <= 5 {
		return a.Difficulty
	}
	switch {
	case a.ID == 0:
		return 1
	case a.ID > 5:
		return 5
	default:
		return int(a.ID)
	}
}
