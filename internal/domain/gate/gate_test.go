package gate

import (
	"errors"
	"testing"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func activeActor(id string) *ledger.Actor {
	a := ledger.NewActor(id)
	a.Day = ledger.DayOf(now)
	return a
}

func newRequest(t *testing.T, actor *ledger.Actor, asset *assets.Asset, id catalog.ActionID) Request {
	t.Helper()
	snap := catalog.DefaultSnapshot()
	action, ok := snap.Action(id)
	if !ok {
		t.Fatalf("action %d missing from default table", id)
	}
	return Request{Actor: actor, Asset: asset, Action: action, Snapshot: snap, Now: now}
}

func withColonyEvent(t *testing.T, req Request, ev catalog.Event) Request {
	t.Helper()
	ev.Kind = catalog.KindColony
	schedule, err := catalog.NewSchedule(ev)
	if err != nil {
		t.Fatalf("NewSchedule() error = %v", err)
	}
	req.Snapshot = req.Snapshot.WithSchedule(schedule)
	return req
}

func TestRequire_AssetCooldownRemaining(t *testing.T) {
	actor := ledger.NewActor("u1")
	asset := assets.NewAsset(1, 1, "u1", 5, 2, now.Add(-48*time.Hour))
	asset.LastAction[5] = now.Add(-time.Hour)

	req := newRequest(t, actor, asset, 5)
	req.Colony = Membership{ColonyID: 1, Member: true, Bonus: 20}

	err := Require(req)
	if !errors.Is(err, ErrAssetCooldown) {
		t.Fatalf("Require() error = %v, want ErrAssetCooldown", err)
	}
	ie, ok := IsIneligible(err)
	if !ok {
		t.Fatalf("Require() error %T is not *IneligibleError", err)
	}
	if ie.Remaining != 11*time.Hour {
		t.Errorf("Remaining = %s, want 11h", ie.Remaining)
	}
	if ie.ActorID != "u1" || ie.Asset != asset.Key || ie.Action != 5 {
		t.Errorf("identifiers = (%s, %s, %d)", ie.ActorID, ie.Asset.Hex(), ie.Action)
	}
}

func TestSmartCooldown(t *testing.T) {
	tests := []struct {
		name     string
		floor    time.Duration
		weighted int
		streak   int
		skill    int
		want     time.Duration
	}{
		{name: "QuietActor", floor: 0, weighted: 100, streak: 0, skill: 1000, want: 0},
		{name: "FloorOnly", floor: time.Minute, weighted: 100, streak: 0, skill: 1000, want: time.Minute},
		{name: "HighTier", floor: 0, weighted: 600, streak: 0, skill: 1000, want: 3 * time.Minute},
		{name: "VeryHighTier", floor: 0, weighted: 950, streak: 0, skill: 1000, want: 5 * time.Minute},
		{name: "ExtremeOverFloor", floor: time.Minute, weighted: 1300, streak: 0, skill: 1000, want: 600 * time.Second},
		{name: "ExtremeLongStreak", floor: time.Minute, weighted: 1300, streak: 30, skill: 1000, want: 300 * time.Second},
		{name: "StreakAndSkill", floor: 0, weighted: 1300, streak: 14, skill: 2000, want: 336 * time.Second},
		{name: "SkilledWeekStreak", floor: 0, weighted: 600, streak: 7, skill: 1500, want: 137700 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SmartCooldown(tt.floor, tt.weighted, tt.streak, tt.skill); got != tt.want {
				t.Errorf("SmartCooldown() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRequire_SmartCooldownPerAsset(t *testing.T) {
	actor := activeActor("grinder")
	actor.WeightedToday = 1300
	actor.Streak = 30

	busy := assets.NewAsset(1, 1, "grinder", 5, 1, now.Add(-72*time.Hour))
	busy.LastAction[1] = now.Add(-200 * time.Second)
	idle := assets.NewAsset(1, 2, "grinder", 5, 1, now.Add(-72*time.Hour))

	err := Require(newRequest(t, actor, busy, 3))
	ie, ok := IsIneligible(err)
	if !ok || ie.Check != CheckSmartCooldown {
		t.Fatalf("Require(busy) error = %v, want smart cooldown", err)
	}
	if ie.Remaining != 100*time.Second {
		t.Errorf("Remaining = %s, want 100s", ie.Remaining)
	}

	if err := Require(newRequest(t, actor, idle, 3)); err != nil {
		t.Errorf("Require(idle) error = %v, a busy asset must not block the actor's other assets", err)
	}
}

func TestCheck_DailyLimitStaleCounters(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 1, 1, now.Add(-72*time.Hour))

	stale := ledger.NewActor("u1")
	stale.Day = ledger.DayOf(now) - 1
	stale.DailyCounts[1] = 12

	if ok, reason := Check(newRequest(t, stale, asset, 1)); !ok {
		t.Errorf("Check(stale) = false (%s), want available", reason)
	}

	fresh := stale.Clone()
	fresh.Day = ledger.DayOf(now)
	err := Require(newRequest(t, fresh, asset, 1))
	if !errors.Is(err, ErrDailyLimit) {
		t.Errorf("Require(fresh) error = %v, want ErrDailyLimit", err)
	}
}

func TestCheck_DailyLimitProgression(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 1, 1, now.Add(-72*time.Hour))
	actor := activeActor("u1")
	actor.DailyCounts[1] = 12
	actor.Streak = 7

	if ok, reason := Check(newRequest(t, actor, asset, 1)); !ok {
		t.Errorf("Check() = false (%s), a 7-day streak should raise the limit to 14", reason)
	}
	actor.DailyCounts[1] = 14
	if ok, _ := Check(newRequest(t, actor, asset, 1)); ok {
		t.Error("Check() = true at 14/14")
	}
}

func TestCheck_EventDailyCap(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 1, 1, now.Add(-72*time.Hour))
	actor := activeActor("u1")
	actor.WeightedToday = 100

	req := withColonyEvent(t, newRequest(t, actor, asset, 1), catalog.Event{
		Name: "harvest", Active: true, Start: now.Add(-time.Hour), DailyCap: 100,
	})
	err := Require(req)
	if !errors.Is(err, ErrDailyLimit) {
		t.Fatalf("Require() error = %v, want ErrDailyLimit", err)
	}

	actor.WeightedToday = 99
	if err := Require(req); err != nil {
		t.Errorf("Require() below cap error = %v", err)
	}
}

func TestCheck_ColonyRequirement(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 10, 3, now.Add(-72*time.Hour))
	actor := activeActor("u1")

	tests := []struct {
		name    string
		colony  Membership
		event   *catalog.Event
		wantErr error
	}{
		{name: "NotMember", colony: Membership{}, wantErr: ErrColony},
		{name: "InactiveColony", colony: Membership{ColonyID: 4, Member: true, Bonus: 0}, wantErr: ErrColony},
		{name: "ActiveColony", colony: Membership{ColonyID: 4, Member: true, Bonus: 25}},
		{
			name:    "EventNotStarted",
			colony:  Membership{ColonyID: 4, Member: true, Bonus: 25},
			event:   &catalog.Event{Name: "siege", Active: true, Start: now.Add(2 * time.Hour)},
			wantErr: ErrColony,
		},
		{
			name:   "EventOpen",
			colony: Membership{ColonyID: 4, Member: true, Bonus: 25},
			event:  &catalog.Event{Name: "siege", Active: true, Start: now.Add(-2 * time.Hour), End: now.Add(2 * time.Hour)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(t, actor, asset, 5)
			req.Colony = tt.colony
			if tt.event != nil {
				req = withColonyEvent(t, req, *tt.event)
			}
			err := Require(req)
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Errorf("Require() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheck_TimeWindow(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 1, 1, now.Add(-72*time.Hour))
	actor := activeActor("u1")

	req := newRequest(t, actor, asset, 2)
	req.Action.Window = catalog.TimeWindow{Start: now.Add(time.Hour).Unix()}
	err := Require(req)
	ie, ok := IsIneligible(err)
	if !ok || ie.Check != CheckTimeWindow || ie.Remaining != time.Hour {
		t.Fatalf("Require() error = %v, want time window with 1h remaining", err)
	}

	req.Action.Window = catalog.TimeWindow{Start: now.Add(-time.Hour).Unix(), End: 0}
	if err := Require(req); err != nil {
		t.Errorf("Require() with unbounded window error = %v", err)
	}
}

func TestCheck_CooldownOverride(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 1, 1, now.Add(-72*time.Hour))
	asset.LastAction[1] = now.Add(-40 * time.Minute)
	actor := activeActor("u1")

	req := newRequest(t, actor, asset, 1)
	if err := Require(req); !errors.Is(err, ErrAssetCooldown) {
		t.Fatalf("Require() without override error = %v", err)
	}

	req = withColonyEvent(t, req, catalog.Event{
		Name: "rush", Active: true, Start: now.Add(-time.Hour),
		CooldownOverride: 30 * time.Minute, OverrideCategory: catalog.CategoryGather,
	})
	if err := Require(req); err != nil {
		t.Errorf("Require() with override error = %v", err)
	}
}

func TestHardAndAdvisoryAgree(t *testing.T) {
	actor := activeActor("u1")
	actor.DailyCounts[4] = 4
	actor.WeightedToday = 950

	cooling := assets.NewAsset(2, 1, "u1", 3, 2, now.Add(-72*time.Hour))
	cooling.LastAction[2] = now.Add(-30 * time.Minute)
	spammed := assets.NewAsset(2, 2, "u1", 3, 2, now.Add(-72*time.Hour))
	spammed.LastAction[1] = now.Add(-2 * time.Minute)
	fresh := assets.NewAsset(2, 3, "u1", 3, 2, now.Add(-72*time.Hour))

	stale := actor.Clone()
	stale.Day--

	cases := []struct {
		name   string
		actor  *ledger.Actor
		asset  *assets.Asset
		action catalog.ActionID
		colony Membership
		want   CheckKind
	}{
		{name: "AssetCooldown", actor: actor, asset: cooling, action: 2, want: CheckAssetCooldown},
		{name: "SmartCooldown", actor: actor, asset: spammed, action: 3, want: CheckSmartCooldown},
		{name: "DailyLimit", actor: actor, asset: fresh, action: 4, want: CheckDailyLimit},
		{name: "StaleSkipsLimit", actor: stale, asset: fresh, action: 4},
		{name: "Colony", actor: actor, asset: fresh, action: 5, want: CheckColony},
		{name: "ColonyMember", actor: actor, asset: fresh, action: 5, colony: Membership{ColonyID: 1, Member: true, Bonus: 12}},
		{name: "Pass", actor: actor, asset: fresh, action: 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := newRequest(t, tc.actor, tc.asset, tc.action)
			req.Colony = tc.colony

			err := Require(req)
			ok, reason := Check(req)
			if (err == nil) != ok {
				t.Fatalf("Require() = %v but Check() = %v", err, ok)
			}
			if tc.want == 0 {
				if err != nil {
					t.Fatalf("Require() error = %v, want pass", err)
				}
				return
			}
			ie, _ := IsIneligible(err)
			if ie == nil || ie.Check != tc.want {
				t.Fatalf("Require() error = %v, want check %s", err, tc.want)
			}
			if ie.Reason != reason {
				t.Errorf("reasons differ: hard %q, advisory %q", ie.Reason, reason)
			}
		})
	}
}

func TestUpdateAfterAction(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 1, 1, now.Add(-72*time.Hour))
	actor := activeActor("u1")

	weight, credited := UpdateAfterAction(newRequest(t, actor, asset, 3))
	if weight != 50 || !credited {
		t.Fatalf("UpdateAfterAction() = (%d, %v), want (50, true)", weight, credited)
	}
	if actor.WeightedToday != 50 || actor.CountToday(3) != 1 {
		t.Errorf("counters = weighted %d count %d", actor.WeightedToday, actor.CountToday(3))
	}
	if !asset.LastActionAt(3).Equal(now) {
		t.Errorf("asset action log = %s, want %s", asset.LastActionAt(3), now)
	}
	if len(actor.EventLog) != 0 {
		t.Errorf("EventLog written without an open colony event: %v", actor.EventLog)
	}
}

func TestUpdateAfterAction_EventCapDropsCredit(t *testing.T) {
	asset := assets.NewAsset(1, 1, "u1", 1, 1, now.Add(-72*time.Hour))
	actor := activeActor("u1")
	actor.WeightedToday = 95

	req := withColonyEvent(t, newRequest(t, actor, asset, 1), catalog.Event{
		Name: "harvest", Active: true, Start: now.Add(-time.Hour), DailyCap: 100,
	})
	_, credited := UpdateAfterAction(req)
	if credited {
		t.Error("UpdateAfterAction() credited past the event cap")
	}
	if actor.WeightedToday != 95 || actor.CountToday(1) != 0 {
		t.Errorf("counters changed: weighted %d count %d", actor.WeightedToday, actor.CountToday(1))
	}
	if !asset.LastActionAt(1).Equal(now) {
		t.Error("asset action log must be written even when credit is dropped")
	}
	if _, ok := actor.EventLog[1]; !ok {
		t.Error("actor event log not written during an open colony event")
	}
}

func TestActivityWeight_FallbackTier(t *testing.T) {
	tests := []struct {
		action catalog.ActionType
		want   int
	}{
		{action: catalog.ActionType{ID: 2, Difficulty: 4}, want: 80},
		{action: catalog.ActionType{ID: 3}, want: 50},
		{action: catalog.ActionType{ID: 9}, want: 120},
		{action: catalog.ActionType{ID: 0}, want: 10},
	}
	for _, tt := range tests {
		if got := ActivityWeight(tt.action); got != tt.want {
			t.Errorf("ActivityWeight(%+v) = %d, want %d", tt.action, got, tt.want)
		}
	}
}
