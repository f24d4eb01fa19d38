package catalog

import "time"

// TimeBonus rewards long uninterrupted accrual periods.
type TimeBonus struct {
	// MinHours of accrual before any time bonus applies.
	MinHours int
	// PerDay percent per full day beyond MinHours.
	PerDay int
	Max    int
}

// Percent returns the time bonus for an accrual period.
func (t TimeBonus) Percent(elapsed time.Duration) int {
	hours := int(elapsed / time.Hour)
	if t.PerDay <= 0 || hours < t.MinHours {
		return 0
	}
	pct := (hours - t.MinHours) / 24 * t.PerDay
	if t.Max > 0 && pct > t.Max {
		pct = t.Max
	}
	return pct
}

// Caps bounds each bonus family and the combined sum.
type Caps struct {
	Level          int
	Variant        int
	Specialization int
	Equipment      int
	Colony         int
	Loyalty        int
	Time           int
	Combined       int
}

// BonusConfig is one version of the tunable accrual tables.
type BonusConfig struct {
	Version int

	// BaseRatePerHour is the accrual rate of a level-1, variant-1 asset, in base units.
	BaseRatePerHour int64

	LevelBonusPerLevel int
	// VariantBonuses is indexed by variant-1.
	VariantBonuses []int
	// SpecializationBonus applies to specialised (non-balanced) assets.
	SpecializationBonus int

	WearThresholds []int
	WearPenalties  []int
	WearPerDay     int

	// LoyaltyThresholds are staking durations; LoyaltyBonuses the matching percents.
	LoyaltyThresholds []time.Duration
	LoyaltyBonuses    []int

	// DecayShareThresholds are owner shares in basis points; DecayMultipliers the
	// matching percent multipliers (100 = no decay).
	DecayShareThresholds []int
	DecayMultipliers     []int

	TimeBonus TimeBonus
	Caps      Caps

	// ApplyWearToActions turns on the wear hook in action rewards.
	ApplyWearToActions bool
}

// thresholdIndex returns the index of the highest threshold <= v, or -1.
// Mismatched table lengths fail safe with -1.
func thresholdIndex(thresholds []int, values []int, v int) int {
	if len(thresholds) != len(values) {
		return -1
	}
	idx := -1
	for i, t := range thresholds {
		if v >= t {
			idx = i
		}
	}
	return idx
}

// WearPenalty returns the penalty percent for a wear level.
func (c *BonusConfig) WearPenalty(wear int) int {
	i := thresholdIndex(c.WearThresholds, c.WearPenalties, wear)
	if i < 0 {
		return 0
	}
	return c.WearPenalties[i]
}

// LoyaltyBonus returns the loyalty percent for a staking duration.
func (c *BonusConfig) LoyaltyBonus(staked time.Duration) int {
	if len(c.LoyaltyThresholds) != len(c.LoyaltyBonuses) {
		return 0
	}
	bonus := 0
	for i, t := range c.LoyaltyThresholds {
		if staked >= t {
			bonus = c.LoyaltyBonuses[i]
		}
	}
	return bonus
}

// DecayMultiplier returns the progressive decay multiplier (percent) for an owner
// holding shareBps of the staked supply. Returns 100 when no threshold applies.
func (c *BonusConfig) DecayMultiplier(shareBps int) int {
	i := thresholdIndex(c.DecayShareThresholds, c.DecayMultipliers, shareBps)
	if i < 0 {
		return 100
	}
	return c.DecayMultipliers[i]
}

// VariantBonus returns the bonus percent for a variant in 1..4.
func (c *BonusConfig) VariantBonus(variant int) int {
	if variant < 1 || variant > len(c.VariantBonuses) {
		return 0
	}
	return c.VariantBonuses[variant-1]
}
