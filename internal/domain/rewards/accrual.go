package rewards

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

// AccrualInput is the state an accrual is computed over.
type AccrualInput struct {
	Asset       *assets.Asset
	Accessories []assets.Accessory
	ColonyBonus int
	// OwnerShareBps is the owner's share of all staked assets, in basis points.
	OwnerShareBps int
	Now           time.Time
}

// Breakdown reports every factor of one accrual. Percent fields hold the value actually
// applied after caps.
type Breakdown struct {
	Elapsed time.Duration
	Base    int64

	Level          int
	Variant        int
	Specialization int
	Equipment      int
	Colony         int
	Loyalty        int
	Time           int
	BonusTotal     int

	ChargeEfficiency int
	FatiguePenalty   int
	WearPenalty      int
	Decay            int
	Season           int
	Global           int

	Amount int64
}

// Accrue computes what an asset has earned since its last claim. Bonus families are capped
// individually, summed, capped again and applied as one multiplier; penalties and
// multipliers follow in a fixed order.
func Accrue(snap *catalog.Snapshot, in AccrualInput) Breakdown {
	b := Breakdown{}
	a := in.Asset
	cfg := &snap.Bonus
	caps := cfg.Caps

	since := a.LastClaimAt
	if since.IsZero() {
		since = a.StakedAt
	}
	if in.Now.After(since) {
		b.Elapsed = in.Now.Sub(since)
	}
	b.Base = mulDiv(int64(b.Elapsed/time.Second), cfg.BaseRatePerHour, 3600)

	b.Level = capped(max(a.Level-1, 0)*cfg.LevelBonusPerLevel, caps.Level)
	b.Variant = capped(cfg.VariantBonus(a.Variant), caps.Variant)
	if a.Charge.Specialization != assets.SpecBalanced {
		b.Specialization = capped(cfg.SpecializationBonus, caps.Specialization)
	}
	b.Equipment = capped(equipmentBonus(in.Accessories), caps.Equipment)
	b.Colony = capped(in.ColonyBonus, caps.Colony)
	if !a.StakedAt.IsZero() && in.Now.After(a.StakedAt) {
		b.Loyalty = capped(cfg.LoyaltyBonus(in.Now.Sub(a.StakedAt)), caps.Loyalty)
	}
	b.Time = capped(cfg.TimeBonus.Percent(b.Elapsed), caps.Time)

	b.BonusTotal = capped(b.Level+b.Variant+b.Specialization+b.Equipment+b.Colony+b.Loyalty+b.Time, caps.Combined)

	v := bonus(b.Base, b.BonusTotal)

	b.ChargeEfficiency = chargeEfficiency(a.Charge.Current, a.Charge.Max)
	v = scale(v, b.ChargeEfficiency)
	b.FatiguePenalty = fatiguePenalty(a.Charge.Fatigue)
	v = penalty(v, b.FatiguePenalty)
	b.WearPenalty = cfg.WearPenalty(a.Wear)
	v = penalty(v, b.WearPenalty)

	b.Decay = cfg.DecayMultiplier(in.OwnerShareBps)
	v = scale(v, clamp(b.Decay, 0, 100))

	b.Season = 100
	if ev, ok := snap.Schedule.Open(catalog.KindSeason, in.Now); ok {
		b.Season = neutral(ev.Multiplier)
	}
	v = scale(v, b.Season)

	b.Global = snap.Multiplier()
	b.Amount = scale(v, b.Global)
	return b
}

// equipmentBonus sums the staking-related accessory boosts.
func equipmentBonus(items []assets.Accessory) int {
	total := 0
	for i, acc := range items {
		if i == assets.MaxAccessories {
			break
		}
		total += max(acc.StakingBoost, 0) + max(acc.KinshipBoost, 0)
	}
	return total
}
