package rewards

import (
	"math"
	"testing"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestPercentHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  int64
		want int64
	}{
		{name: "BonusTen", got: bonus(1000, 10), want: 1100},
		{name: "NegativeBonusIgnored", got: bonus(1000, -30), want: 1000},
		{name: "PenaltyClampedAt100", got: penalty(1000, 150), want: 0},
		{name: "NegativePenaltyIgnored", got: penalty(1000, -5), want: 1000},
		{name: "Saturates", got: mulDiv(math.MaxInt64, 300, 100), want: math.MaxInt64},
		{name: "NegativeValue", got: scale(-50, 100), want: 0},
		{name: "Wide", got: mulDiv(math.MaxInt64/2, 4, 8), want: math.MaxInt64 / 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestChargeRegen_Order(t *testing.T) {
	c := assets.ChargeState{
		Current:        0,
		Max:            100,
		RegenPerHour:   10,
		Fatigue:        70,
		Specialization: assets.SpecRegeneration,
		BoostEndsAt:    now.Add(time.Hour),
	}
	// 40 base, +25% boost, +20% event, +15% specialization, then -10% fatigue.
	got := ChargeRegen(c, 4*time.Hour, now, RegenEvent{End: now.Add(time.Hour), Bonus: 20})
	if got != 62 {
		t.Errorf("ChargeRegen() = %d, want 62", got)
	}

	expired := ChargeRegen(c, 4*time.Hour, now, RegenEvent{End: now.Add(-time.Minute), Bonus: 20})
	if expired >= got {
		t.Errorf("expired event still applied: %d >= %d", expired, got)
	}
}

func TestChargeRegen_MonotonicAndCapped(t *testing.T) {
	c := assets.ChargeState{Current: 12, Max: 100, RegenPerHour: 7, Fatigue: 95}
	prev := c.Current
	for elapsed := time.Duration(0); elapsed <= 48*time.Hour; elapsed += 17 * time.Minute {
		got := ChargeRegen(c, elapsed, now, RegenEvent{Bonus: 50})
		if got < prev {
			t.Fatalf("ChargeRegen(%s) = %d, decreased from %d", elapsed, got, prev)
		}
		if got > c.Max {
			t.Fatalf("ChargeRegen(%s) = %d exceeds max %d", elapsed, got, c.Max)
		}
		prev = got
	}
	if prev != c.Max {
		t.Errorf("ChargeRegen(48h) = %d, want full charge", prev)
	}
}

func TestChargeRegen_NoOp(t *testing.T) {
	full := assets.ChargeState{Current: 100, Max: 100, RegenPerHour: 10}
	if got := ChargeRegen(full, time.Hour, now, RegenEvent{}); got != 100 {
		t.Errorf("full charge regen = %d", got)
	}
	empty := assets.ChargeState{Current: 30, Max: 100, RegenPerHour: 10}
	if got := ChargeRegen(empty, 0, now, RegenEvent{}); got != 30 {
		t.Errorf("zero elapsed regen = %d", got)
	}
}

func testAsset() *assets.Asset {
	return assets.NewAsset(1, 1, "owner", 6, 3, now.Add(-40*24*time.Hour))
}

func TestActionReward_Base(t *testing.T) {
	got := ActionReward(ActionInput{
		Asset:  testAsset(),
		Action: catalog.ActionType{ID: 1, RewardMultiplier: 100},
	})
	if got != 10_000_000 {
		t.Errorf("ActionReward() = %d, want 10000000", got)
	}
}

func TestActionReward_FixedOrder(t *testing.T) {
	a := testAsset()
	a.Charge.Mastery = 80
	a.Charge.Evolution = 5
	a.Charge.Current = 50
	a.Charge.Fatigue = 60

	got := ActionReward(ActionInput{
		Asset:       a,
		Action:      catalog.ActionType{ID: 5, Category: catalog.CategoryColony, RewardMultiplier: 300},
		ColonyBonus: 20,
		Season:      &catalog.Event{Kind: catalog.KindSeason, ChargeBoost: 10},
		Accessories: []assets.Accessory{{
			EfficiencyBoost:     5,
			SpecializationType:  catalog.CategoryColony,
			SpecializationBoost: 10,
			Rare:                true,
		}},
	})
	if got != 37_065_959 {
		t.Errorf("ActionReward() = %d, want 37065959", got)
	}
}

func TestActionReward_WearHook(t *testing.T) {
	a := testAsset()
	a.Wear = 60
	in := ActionInput{Asset: a, Action: catalog.ActionType{ID: 1, RewardMultiplier: 100}}

	if got := ActionReward(in); got != 10_000_000 {
		t.Errorf("default wear source applied a penalty: %d", got)
	}

	snap := catalog.DefaultSnapshot()
	snap.Bonus.ApplyWearToActions = true
	in.Wear = WearSourceFor(snap)
	if got := ActionReward(in); got != 8_500_000 {
		t.Errorf("ActionReward() with table wear = %d, want 8500000", got)
	}
}

func TestActionReward_ClampedInputs(t *testing.T) {
	a := testAsset()
	a.Charge.Current = -20
	a.Charge.Fatigue = 400
	a.Charge.Mastery = 10_000

	got := ActionReward(ActionInput{
		Asset:       a,
		Action:      catalog.ActionType{ID: 1, RewardMultiplier: 100},
		ColonyBonus: -500,
	})
	if got <= 0 {
		t.Errorf("ActionReward() = %d, want a positive clamped reward", got)
	}
}

func TestChargeCost(t *testing.T) {
	tests := []struct {
		name   string
		action catalog.ActionType
		charge assets.ChargeState
		want   int
	}{
		{
			name:   "Plain",
			action: catalog.ActionType{ID: 1, Difficulty: 1, ChargeCost: 5},
			want:   5,
		},
		{
			name:   "AllAdjustments",
			action: catalog.ActionType{ID: 5, Difficulty: 5, ChargeCost: 30},
			charge: assets.ChargeState{Specialization: assets.SpecEfficiency, Evolution: 10, Fatigue: 50, Mastery: 200},
			want:   25,
		},
		{
			name:   "FloorOfOne",
			action: catalog.ActionType{ID: 1, Difficulty: 1, ChargeCost: 1},
			charge: assets.ChargeState{Mastery: 5000},
			want:   1,
		},
		{
			name:   "Free",
			action: catalog.ActionType{ID: 1, Difficulty: 1},
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChargeCost(tt.action, tt.charge); got != tt.want {
				t.Errorf("ChargeCost() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEnhancedReward(t *testing.T) {
	actor := ledger.NewActor("pro")
	actor.SkillRating = 2000
	actor.Consistency = 100

	if got := EnhancedReward(1000, actor, 5, 100); got != 5400 {
		t.Errorf("EnhancedReward() = %d, want 5400", got)
	}

	novice := ledger.NewActor("novice")
	novice.SkillRating = 900
	if got := EnhancedReward(1000, novice, 1, 0); got != 1000 {
		t.Errorf("EnhancedReward(novice) = %d, want 1000", got)
	}
}

func TestDynamicFee(t *testing.T) {
	actor := ledger.NewActor("regular")
	actor.Consistency = 100

	tests := []struct {
		name   string
		at     time.Time
		bounds FeeBounds
		want   int64
	}{
		{name: "Peak", at: time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC), bounds: FeeBounds{Min: 100}, want: 1020},
		{name: "OffPeak", at: time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC), bounds: FeeBounds{Min: 100}, want: 765},
		{name: "Normal", at: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC), bounds: FeeBounds{Min: 100}, want: 850},
		{name: "Ceiling", at: time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC), bounds: FeeBounds{Min: 100, Max: 500}, want: 500},
		{name: "Floor", at: time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC), bounds: FeeBounds{Min: 2000}, want: 2000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DynamicFee(1000, actor, 1, 100, tt.at, tt.bounds); got != tt.want {
				t.Errorf("DynamicFee() = %d, want %d", got, tt.want)
			}
		})
	}
}

func accrualInput() AccrualInput {
	a := testAsset()
	a.LastClaimAt = now.Add(-72 * time.Hour)
	return AccrualInput{
		Asset:       a,
		Accessories: []assets.Accessory{{StakingBoost: 10, KinshipBoost: 5}},
		ColonyBonus: 20,
		Now:         now,
	}
}

func TestAccrue_Breakdown(t *testing.T) {
	b := Accrue(catalog.DefaultSnapshot(), accrualInput())

	want := Breakdown{
		Elapsed:          72 * time.Hour,
		Base:             720_000_000,
		Level:            10,
		Variant:          25,
		Equipment:        15,
		Colony:           20,
		Loyalty:          10,
		Time:             4,
		BonusTotal:       84,
		ChargeEfficiency: 100,
		Decay:            100,
		Season:           100,
		Global:           100,
		Amount:           1_324_800_000,
	}
	if b != want {
		t.Errorf("Accrue() =\n%+v\nwant\n%+v", b, want)
	}
}

func TestAccrue_CombinedCap(t *testing.T) {
	snap := catalog.DefaultSnapshot()
	snap.Bonus.Caps.Combined = 30

	b := Accrue(snap, accrualInput())
	if b.BonusTotal != 30 {
		t.Errorf("BonusTotal = %d, want 30", b.BonusTotal)
	}
	if b.Amount != 936_000_000 {
		t.Errorf("Amount = %d, want 936000000", b.Amount)
	}
}

func TestAccrue_DecaySeasonGlobal(t *testing.T) {
	schedule, err := catalog.NewSchedule(catalog.Event{
		Kind: catalog.KindSeason, Name: "spring", Active: true, Start: now.Add(-time.Hour), Multiplier: 150,
	})
	if err != nil {
		t.Fatal(err)
	}
	snap := catalog.DefaultSnapshot().WithSchedule(schedule)
	snap.GlobalMultiplier = 200

	in := accrualInput()
	in.OwnerShareBps = 1500

	b := Accrue(snap, in)
	if b.Decay != 75 || b.Season != 150 || b.Global != 200 {
		t.Fatalf("multipliers = decay %d season %d global %d", b.Decay, b.Season, b.Global)
	}
	// 1324800000 * 75% * 150% * 200%
	if b.Amount != 2_980_800_000 {
		t.Errorf("Amount = %d, want 2980800000", b.Amount)
	}
}

func TestAccrue_MonotonicInElapsed(t *testing.T) {
	snap := catalog.DefaultSnapshot()
	var prev int64
	for h := 0; h <= 24*30; h += 5 {
		in := accrualInput()
		in.Asset.LastClaimAt = now.Add(-time.Duration(h) * time.Hour)
		got := Accrue(snap, in).Amount
		if got < prev {
			t.Fatalf("Accrue() after %dh = %d, decreased from %d", h, got, prev)
		}
		prev = got
	}
}

func TestApplyAction(t *testing.T) {
	a := testAsset()
	a.Charge.Mastery = 199
	a.Charge.Fatigue = 98

	ApplyAction(a, catalog.ActionType{ID: 5, Difficulty: 5}, 30)

	if a.Charge.Current != 70 || a.Charge.Fatigue != 100 || a.Charge.Mastery != 200 || a.Charge.Evolution != 2 {
		t.Errorf("charge after action = %+v", a.Charge)
	}

	ApplyAction(a, catalog.ActionType{ID: 5, Difficulty: 5}, 500)
	if a.Charge.Current != 0 {
		t.Errorf("charge went below zero: %d", a.Charge.Current)
	}
}

func TestSettleCharge(t *testing.T) {
	a := testAsset()
	a.Charge.Current = 0
	a.Charge.Fatigue = 20
	a.Charge.SettledAt = now.Add(-5 * time.Minute)

	SettleCharge(a, now, RegenEvent{})
	if a.Charge.Current != 0 || !a.Charge.SettledAt.Equal(now.Add(-5*time.Minute)) {
		t.Fatalf("short interval moved the anchor: %+v", a.Charge)
	}

	SettleCharge(a, now.Add(115*time.Minute), RegenEvent{})
	if a.Charge.Current != 20 || a.Charge.Fatigue != 10 {
		t.Errorf("charge after 2h = %+v, want current 20 fatigue 10", a.Charge)
	}
}

func TestSettleCharge_IntervalIndependent(t *testing.T) {
	tests := []struct {
		name  string
		steps []time.Duration
	}{
		{name: "Single", steps: []time.Duration{4 * time.Hour}},
		{name: "HalfHours", steps: []time.Duration{30 * time.Minute, 30 * time.Minute, 30 * time.Minute, 30 * time.Minute, 30 * time.Minute, 30 * time.Minute, 30 * time.Minute, 30 * time.Minute}},
		{name: "Irregular", steps: []time.Duration{50 * time.Minute, 20 * time.Minute, 95 * time.Minute, time.Minute, 74 * time.Minute}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAsset()
			a.Charge.Current = 0
			a.Charge.Fatigue = 60
			a.Charge.SettledAt = now

			at := now
			for _, d := range tt.steps {
				at = at.Add(d)
				SettleCharge(a, at, RegenEvent{})
			}

			// Hourly regen of 10 is cut by the fatigue penalty (5%, then 2%) in the
			// first two hours: 9 + 9 + 10 + 10.
			if a.Charge.Current != 38 || a.Charge.Fatigue != 40 {
				t.Errorf("after 4h charge = %d fatigue = %d, want 38 and 40", a.Charge.Current, a.Charge.Fatigue)
			}
			if !a.Charge.SettledAt.Equal(now.Add(4 * time.Hour)) {
				t.Errorf("SettledAt = %s, want anchor advanced by whole hours", a.Charge.SettledAt)
			}
		})
	}
}

func TestSettleCharge_RestedResetsAnchor(t *testing.T) {
	a := testAsset()
	a.Charge.Fatigue = 10
	a.Charge.SettledAt = now

	SettleCharge(a, now.Add(150*time.Minute), RegenEvent{})
	if a.Charge.Fatigue != 0 || !a.Charge.SettledAt.Equal(now.Add(150*time.Minute)) {
		t.Errorf("charge = %+v, want rested with anchor at settle time", a.Charge)
	}
}

func TestSettleWear(t *testing.T) {
	a := testAsset()
	a.WearSettledAt = now.Add(-10*24*time.Hour - time.Hour)

	SettleWear(a, []assets.Accessory{{WearResistance: 95}, {WearResistance: 10}}, 3, now)
	if a.Wear != 3 {
		t.Errorf("Wear = %d, want 3", a.Wear)
	}
	if !a.WearSettledAt.Equal(now.Add(-time.Hour)) {
		t.Errorf("WearSettledAt = %s, want leftover hour kept", a.WearSettledAt)
	}

	a.Wear = 99
	a.WearSettledAt = now.Add(-5 * 24 * time.Hour)
	SettleWear(a, nil, 3, now)
	if a.Wear != 100 {
		t.Errorf("Wear = %d, want clamp at 100", a.Wear)
	}

	Repair(a, now)
	if a.Wear != 0 {
		t.Errorf("Repair() left wear %d", a.Wear)
	}
}
