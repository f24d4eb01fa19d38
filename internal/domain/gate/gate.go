package gate

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
)

// Smart cooldown tiers, keyed on the actor's weighted activity for the day.
const (
	HighActivity     = 600
	VeryHighActivity = 900
	ExtremeActivity  = 1200

	highCooldown     = 3 * time.Minute
	veryHighCooldown = 5 * time.Minute
	extremeCooldown  = 10 * time.Minute
)

// activityPoints is the weighted-activity credit per difficulty tier.
var activityPoints = [...]int{0, 10, 25, 50, 80, 120}

// Membership is the colony state of the asset being checked.
type Membership struct {
	ColonyID uint64
	Member   bool
	// Bonus is the colony's effective bonus; zero means the colony is inactive.
	Bonus int
}

// Request is one (actor, asset, action) triple evaluated against a snapshot.
type Request struct {
	Actor    *ledger.Actor
	Asset    *assets.Asset
	Action   catalog.ActionType
	Colony   Membership
	Snapshot *catalog.Snapshot
	Now      time.Time
}

type failure struct {
	check     CheckKind
	reason    string
	remaining time.Duration
}

// Require is the hard path: it returns an *IneligibleError for the first failing check.
func Require(req Request) error {
	f := evaluate(req)
	if f == nil {
		return nil
	}
	return &IneligibleError{
		Check:     f.check,
		Reason:    f.reason,
		ActorID:   req.Actor.ID,
		Asset:     req.Asset.Key,
		Action:    req.Action.ID,
		Remaining: f.remaining,
	}
}

// Check is the advisory path. It never mutates state and reports the same first failure
// Require would.
func Check(req Request) (bool, string) {
	f := evaluate(req)
	if f == nil {
		return true, ""
	}
	return false, f.reason
}

func evaluate(req Request) *failure {
	for _, step := range []func(Request) *failure{
		checkAssetCooldown,
		checkSmartCooldown,
		checkDailyLimit,
		checkColony,
		checkTimeWindow,
	} {
		if f := step(req); f != nil {
			return f
		}
	}
	return nil
}

func colonyEvent(req Request) (*catalog.Event, bool) {
	if req.Snapshot == nil {
		return nil, false
	}
	return req.Snapshot.Schedule.Open(catalog.KindColony, req.Now)
}

// BaseCooldown resolves the action's cooldown, honouring an open colony event override.
func BaseCooldown(action catalog.ActionType, snap *catalog.Snapshot, now time.Time) time.Duration {
	if snap != nil {
		if ev, ok := snap.Schedule.Open(catalog.KindColony, now); ok &&
			ev.CooldownOverride > 0 && ev.OverrideCategory == action.Category {
			return ev.CooldownOverride
		}
	}
	return action.BaseCooldown
}

func checkAssetCooldown(req Request) *failure {
	last := req.Asset.LastActionAt(req.Action.ID)
	if last.IsZero() {
		return nil
	}
	ready := last.Add(BaseCooldown(req.Action, req.Snapshot, req.Now))
	if req.Now.Before(ready) {
		remaining := ready.Sub(req.Now)
		return &failure{
			check:     CheckAssetCooldown,
			reason:    fmt.Sprintf("asset is on cooldown for %s", formatWait(remaining)),
			remaining: remaining,
		}
	}
	return nil
}

func checkSmartCooldown(req Request) *failure {
	last := latestAction(req.Asset)
	if last.IsZero() {
		return nil
	}
	cd := SmartCooldown(req.Action.SmartFloor, ledger.EffectiveWeighted(req.Actor, req.Now),
		req.Actor.Streak, req.Actor.SkillRating)
	if cd <= 0 {
		return nil
	}
	ready := last.Add(cd)
	if req.Now.Before(ready) {
		remaining := ready.Sub(req.Now)
		return &failure{
			check:     CheckSmartCooldown,
			reason:    fmt.Sprintf("slow down, this asset can act again in %s", formatWait(remaining)),
			remaining: remaining,
		}
	}
	return nil
}

func checkDailyLimit(req Request) *failure {
	// A stale actor is about to be reset; yesterday's counts do not apply.
	if ledger.IsStale(req.Actor, req.Now) {
		return nil
	}
	untilReset := nextDay(req.Now).Sub(req.Now)

	if ev, ok := colonyEvent(req); ok && ev.DailyCap > 0 {
		if req.Actor.WeightedToday >= ev.DailyCap {
			return &failure{
				check:     CheckDailyLimit,
				reason:    fmt.Sprintf("event activity cap of %d points reached", ev.DailyCap),
				remaining: untilReset,
			}
		}
		return nil
	}

	limit := req.Action.DailyLimit.For(req.Actor.Streak)
	if limit <= 0 {
		return nil
	}
	if used := req.Actor.CountToday(req.Action.ID); used >= limit {
		return &failure{
			check:     CheckDailyLimit,
			reason:    fmt.Sprintf("daily limit reached for %s (%d/%d)", req.Action.Name, used, limit),
			remaining: untilReset,
		}
	}
	return nil
}

func checkColony(req Request) *failure {
	if req.Action.Category != catalog.CategoryColony {
		return nil
	}
	if !req.Colony.Member || req.Colony.Bonus <= 0 {
		return &failure{check: CheckColony, reason: "asset must belong to an active colony"}
	}
	if req.Snapshot == nil {
		return nil
	}
	ev, ok := req.Snapshot.Schedule.Get(catalog.KindColony)
	if !ok || !ev.Active || ev.Open(req.Now) {
		return nil
	}
	f := &failure{check: CheckColony, reason: fmt.Sprintf("colony event %q is not open", ev.Name)}
	if req.Now.Before(ev.Start) {
		f.remaining = ev.Start.Sub(req.Now)
	}
	return f
}

func checkTimeWindow(req Request) *failure {
	w := req.Action.Window
	if !w.Configured() || w.Contains(req.Now) {
		return nil
	}
	f := &failure{check: CheckTimeWindow, reason: fmt.Sprintf("%s is outside its scheduled window", req.Action.Name)}
	if start := time.Unix(w.Start, 0); req.Now.Before(start) {
		f.remaining = start.Sub(req.Now)
	}
	return f
}

// SmartCooldown computes the anti-spam cooldown for an actor's weighted activity. The tier
// cooldown sits on top of the action floor; streak and skill reductions then apply
// multiplicatively.
func SmartCooldown(floor time.Duration, weighted, streak, skill int) time.Duration {
	var tier time.Duration
	switch {
	case weighted >= ExtremeActivity:
		tier = extremeCooldown
	case weighted >= VeryHighActivity:
		tier = veryHighCooldown
	case weighted >= HighActivity:
		tier = highCooldown
	}
	cd := max(floor, tier)
	if cd <= 0 {
		return 0
	}

	switch {
	case streak >= 30:
		cd = cd * 50 / 100
	case streak >= 14:
		cd = cd * 70 / 100
	case streak >= 7:
		cd = cd * 85 / 100
	}
	switch {
	case skill >= 2000:
		cd = cd * 80 / 100
	case skill >= 1500:
		cd = cd * 90 / 100
	}
	return cd
}

// ActivityWeight is the weighted-activity credit of one action.
func ActivityWeight(action catalog.ActionType) int {
	return activityPoints[action.DifficultyTier()]
}

// UpdateAfterAction applies the bookkeeping of a passed action and returns the weight
// credited. Credit is dropped, not refused, when an event cap would be exceeded.
func UpdateAfterAction(req Request) (weight int, credited bool) {
	if req.Asset.LastAction == nil {
		req.Asset.LastAction = make(map[catalog.ActionID]time.Time)
	}
	req.Asset.LastAction[req.Action.ID] = req.Now

	weight = ActivityWeight(req.Action)
	ev, open := colonyEvent(req)
	if open {
		if req.Actor.EventLog == nil {
			req.Actor.EventLog = make(map[catalog.ActionID]time.Time)
		}
		req.Actor.EventLog[req.Action.ID] = req.Now

		if ev.DailyCap > 0 && req.Actor.WeightedToday+weight > ev.DailyCap {
			slog.Info("Event cap reached, activity credit dropped",
				slog.String("type", "gate"),
				slog.String("actor", req.Actor.ID),
				slog.Int("weighted", req.Actor.WeightedToday),
				slog.Int("cap", ev.DailyCap))
			return weight, false
		}
	}

	ledger.RecordAction(req.Actor, req.Action.ID, weight, req.Now)
	return weight, true
}

func latestAction(a *assets.Asset) time.Time {
	var last time.Time
	for _, t := range a.LastAction {
		if t.After(last) {
			last = t
		}
	}
	return last
}

func nextDay(now time.Time) time.Time {
	return time.Unix((ledger.DayOf(now)+1)*86400, 0).UTC()
}

func formatWait(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
