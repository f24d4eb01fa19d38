package rewards

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

const (
	fatigueRecoveryPerHour = 5
	fatiguePerTier         = 4
	masteryPerEvolution    = 100
	maxWearResistance      = 90
)

// SettleCharge applies regeneration and fatigue recovery for every whole hour since the
// last settlement. The anchor advances in whole hours, so the outcome depends on the
// elapsed time and not on how often settlement runs.
func SettleCharge(a *assets.Asset, now time.Time, event RegenEvent) {
	c := &a.Charge
	if c.SettledAt.IsZero() {
		c.SettledAt = now
		return
	}
	if !now.After(c.SettledAt) {
		return
	}

	for hours := int(now.Sub(c.SettledAt) / time.Hour); hours > 0 && !rested(*c); hours-- {
		step := c.SettledAt.Add(time.Hour)
		c.Current = ChargeRegen(*c, time.Hour, step, event)
		c.Fatigue = clamp(c.Fatigue-fatigueRecoveryPerHour, 0, assets.MaxFatigue)
		c.SettledAt = step
	}
	// A full, rested asset has nothing to accrue; regen starts from its next action.
	if rested(*c) {
		c.SettledAt = now
	}
}

func rested(c assets.ChargeState) bool {
	maxCharge := c.Max
	if maxCharge <= 0 {
		maxCharge = assets.MaxCharge
	}
	return c.Current >= maxCharge && c.Fatigue <= 0
}

// ApplyAction consumes charge and advances fatigue, mastery and evolution.
func ApplyAction(a *assets.Asset, action catalog.ActionType, cost int) {
	c := &a.Charge
	c.Current = max(c.Current-cost, 0)
	c.Fatigue = clamp(c.Fatigue+fatiguePerTier*action.DifficultyTier(), 0, assets.MaxFatigue)
	c.Mastery++
	c.Evolution = min(c.Mastery/masteryPerEvolution, assets.MaxEvolution)
}

// SettleWear adds whole days of wear since the last settlement, reduced by the most
// resistant accessory.
func SettleWear(a *assets.Asset, accessories []assets.Accessory, perDay int, now time.Time) {
	if a.WearSettledAt.IsZero() {
		a.WearSettledAt = now
		return
	}
	days := int(now.Sub(a.WearSettledAt) / (24 * time.Hour))
	if days <= 0 || perDay <= 0 {
		return
	}

	resistance := 0
	for _, acc := range accessories {
		resistance = max(resistance, acc.WearResistance)
	}
	added := int(penalty(int64(perDay*days), min(resistance, maxWearResistance)))

	a.Wear = clamp(a.Wear+added, 0, assets.MaxWear)
	a.WearSettledAt = a.WearSettledAt.Add(time.Duration(days) * 24 * time.Hour)
}

// Repair clears accumulated wear.
func Repair(a *assets.Asset, now time.Time) {
	a.Wear = 0
	a.WearSettledAt = now
}
