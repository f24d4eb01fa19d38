package rewards

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
)

// difficultyPercent is the payout multiplier for tiers 1..5.
var difficultyPercent = [...]int{100, 100, 125, 150, 200, 300}

const (
	maxSkillBonus       = 50
	maxConsistencyBonus = 20
	maxFeeDiscount      = 15

	peakStartHour    = 18
	peakEndHour      = 22
	offPeakStartHour = 2
	offPeakEndHour   = 6
	peakSurcharge    = 20
	offPeakDiscount  = 10
)

// DifficultyPercent returns the multiplier for a tier, clamped to 1..5.
func DifficultyPercent(tier int) int {
	return difficultyPercent[clamp(tier, 1, 5)]
}

// SkillBonus is +1% per 20 rating above the default, capped at 50%.
func SkillBonus(skill int) int {
	return capped((skill-ledger.DefaultSkillRating)/20, maxSkillBonus)
}

// ConsistencyBonus is consistency/5 percent, capped at 20%.
func ConsistencyBonus(consistency int) int {
	return capped(consistency/5, maxConsistencyBonus)
}

// EnhancedReward layers actor bonuses, the difficulty tier and the global multiplier on
// top of a base value.
func EnhancedReward(base int64, actor *ledger.Actor, tier, globalMultiplier int) int64 {
	v := base
	if actor != nil {
		v = bonus(v, SkillBonus(actor.SkillRating))
		v = bonus(v, ConsistencyBonus(actor.Consistency))
	}
	v = scale(v, DifficultyPercent(tier))
	return scale(v, neutral(globalMultiplier))
}

// FeeBounds are the absolute fee clamps. A zero Max leaves the fee uncapped.
type FeeBounds struct {
	Min int64
	Max int64
}

// DynamicFee prices an action fee: difficulty and global multipliers, a time-of-day
// adjustment (UTC), a consistency discount, then the absolute bounds.
func DynamicFee(base int64, actor *ledger.Actor, tier, globalMultiplier int, now time.Time, bounds FeeBounds) int64 {
	fee := scale(base, DifficultyPercent(tier))
	fee = scale(fee, neutral(globalMultiplier))

	switch h := now.UTC().Hour(); {
	case h >= peakStartHour && h < peakEndHour:
		fee = bonus(fee, peakSurcharge)
	case h >= offPeakStartHour && h < offPeakEndHour:
		fee = penalty(fee, offPeakDiscount)
	}

	if actor != nil {
		fee = penalty(fee, capped(actor.Consistency/5, maxFeeDiscount))
	}

	if fee < bounds.Min {
		fee = bounds.Min
	}
	if bounds.Max > 0 && fee > bounds.Max {
		fee = bounds.Max
	}
	return fee
}

func neutral(pct int) int {
	if pct <= 0 {
		return 100
	}
	return pct
}
