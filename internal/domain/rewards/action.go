package rewards

import (
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

const (
	baseActionReward = 10 * catalog.Unit

	masteryThreshold   = 50
	masteryStep        = 5
	maxMasteryPenalty  = 20
	evolutionStepBonus = 2
	maxEvolutionBonus  = 20
	rareAccessoryBonus = 10
)

// WearPenaltySource supplies the wear penalty percent for action rewards.
type WearPenaltySource interface {
	WearPenalty(asset *assets.Asset) int
}

// NoWear is the default source: action rewards carry no wear penalty.
type NoWear struct{}

func (NoWear) WearPenalty(*assets.Asset) int { return 0 }

// TableWear reads the penalty from the bonus table's wear thresholds.
type TableWear struct {
	Bonus *catalog.BonusConfig
}

func (w TableWear) WearPenalty(a *assets.Asset) int {
	if w.Bonus == nil || a == nil {
		return 0
	}
	return w.Bonus.WearPenalty(a.Wear)
}

// WearSourceFor picks the wear source configured by a snapshot.
func WearSourceFor(snap *catalog.Snapshot) WearPenaltySource {
	if snap != nil && snap.Bonus.ApplyWearToActions {
		return TableWear{Bonus: &snap.Bonus}
	}
	return NoWear{}
}

// ActionInput carries everything an action reward depends on.
type ActionInput struct {
	Asset       *assets.Asset
	Action      catalog.ActionType
	ColonyBonus int
	Accessories []assets.Accessory
	// Season is the open season event, nil when none.
	Season *catalog.Event
	Wear   WearPenaltySource
}

// ActionReward computes the payout of one action. Every step multiplies the running total,
// in a fixed order.
func ActionReward(in ActionInput) int64 {
	mult := in.Action.RewardMultiplier
	if mult <= 0 {
		mult = 100
	}
	reward := scale(baseActionReward, mult)

	c := in.Asset.Charge
	if c.Mastery > masteryThreshold {
		reward = penalty(reward, min((c.Mastery-masteryThreshold)/masteryStep, maxMasteryPenalty))
	}
	reward = bonus(reward, min(c.Evolution*evolutionStepBonus, maxEvolutionBonus))

	reward = bonus(reward, in.ColonyBonus)
	reward = scale(reward, chargeEfficiency(c.Current, c.Max))
	reward = penalty(reward, fatiguePenalty(c.Fatigue))
	if in.Season != nil {
		reward = bonus(reward, in.Season.ChargeBoost)
	}

	for i, acc := range in.Accessories {
		if i == assets.MaxAccessories {
			break
		}
		reward = bonus(reward, acc.EfficiencyBoost)
		if acc.MatchesCategory(in.Action.Category) {
			reward = bonus(reward, acc.SpecializationBoost)
		}
		if acc.Rare {
			reward = bonus(reward, rareAccessoryBonus)
		}
	}

	wear := in.Wear
	if wear == nil {
		wear = NoWear{}
	}
	return penalty(reward, wear.WearPenalty(in.Asset))
}

// ChargeCost is the charge an action consumes. Adjustments apply as sequential multiplies
// and a configured cost never drops below 1.
func ChargeCost(action catalog.ActionType, c assets.ChargeState) int {
	if action.ChargeCost <= 0 {
		return 0
	}
	cost := int64(action.ChargeCost) * 100

	if c.Specialization == assets.SpecEfficiency {
		cost = penalty(cost, 10+min(c.Evolution, 10))
	}
	cost = bonus(cost, clamp(c.Fatigue, 0, 100)/5)
	cost = bonus(cost, 5*(action.DifficultyTier()-1))
	cost = penalty(cost, min(max(c.Mastery, 0)/10, 50))

	return max(int(cost/100), 1)
}
