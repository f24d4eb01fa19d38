package catalog

import "time"

// DefaultActions is the built-in action table used when no table file is configured.
func DefaultActions() map[ActionID]ActionType {
	actions := []ActionType{
		{
			ID: 1, Name: "forage", Category: CategoryGather,
			BaseCooldown: time.Hour, SmartFloor: 0,
			Difficulty: 1, RewardMultiplier: 100, ChargeCost: 5,
			DailyLimit: DailyLimit{Base: 12, ProgressionStep: 7, ProgressionBonus: 2, Max: 20},
		},
		{
			ID: 2, Name: "scout", Category: CategoryExplore,
			BaseCooldown: 2 * time.Hour, SmartFloor: 0,
			Difficulty: 2, RewardMultiplier: 130, ChargeCost: 10,
			DailyLimit: DailyLimit{Base: 8, ProgressionStep: 7, ProgressionBonus: 1, Max: 12},
		},
		{
			ID: 3, Name: "craft", Category: CategoryCraft,
			BaseCooldown: 4 * time.Hour, SmartFloor: 30 * time.Second,
			Difficulty: 3, RewardMultiplier: 170, ChargeCost: 15,
			DailyLimit: DailyLimit{Base: 5, ProgressionStep: 14, ProgressionBonus: 1, Max: 8},
		},
		{
			ID: 4, Name: "duel", Category: CategoryBattle,
			BaseCooldown: 6 * time.Hour, SmartFloor: 30 * time.Second,
			Difficulty: 4, RewardMultiplier: 220, ChargeCost: 20,
			DailyLimit: DailyLimit{Base: 4, ProgressionStep: 14, ProgressionBonus: 1, Max: 6},
		},
		{
			ID: 5, Name: "raid", Category: CategoryColony,
			BaseCooldown: 12 * time.Hour, SmartFloor: time.Minute,
			Difficulty: 5, RewardMultiplier: 300, ChargeCost: 30,
			DailyLimit: DailyLimit{Base: 2, ProgressionStep: 30, ProgressionBonus: 1, Max: 3},
		},
	}
	out := make(map[ActionID]ActionType, len(actions))
	for _, a := range actions {
		out[a.ID] = a
	}
	return out
}

// DefaultBonus is version 1 of the accrual tables.
func DefaultBonus() BonusConfig {
	return BonusConfig{
		Version:              1,
		BaseRatePerHour:      10 * Unit,
		LevelBonusPerLevel:   2,
		VariantBonuses:       []int{0, 10, 25, 50},
		SpecializationBonus:  5,
		WearThresholds:       []int{25, 50, 75, 90},
		WearPenalties:        []int{5, 15, 30, 50},
		WearPerDay:           3,
		LoyaltyThresholds:    []time.Duration{7 * 24 * time.Hour, 30 * 24 * time.Hour, 90 * 24 * time.Hour, 180 * 24 * time.Hour},
		LoyaltyBonuses:       []int{5, 10, 20, 30},
		DecayShareThresholds: []int{500, 1000, 2500},
		DecayMultipliers:     []int{90, 75, 50},
		TimeBonus:            TimeBonus{MinHours: 24, PerDay: 2, Max: 20},
		Caps: Caps{
			Level:          50,
			Variant:        50,
			Specialization: 10,
			Equipment:      40,
			Colony:         50,
			Loyalty:        30,
			Time:           20,
			Combined:       150,
		},
	}
}

// Unit is one whole reward token in base units.
const Unit int64 = 1_000_000

// DefaultSnapshot bundles the built-in tables with an empty schedule.
func DefaultSnapshot() *Snapshot {
	schedule, _ := NewSchedule()
	return &Snapshot{
		Actions:          DefaultActions(),
		Bonus:            DefaultBonus(),
		Schedule:         schedule,
		GlobalMultiplier: 100,
	}
}
