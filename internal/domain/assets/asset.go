package assets

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

// Specialization of an asset's charge behaviour.
type Specialization uint8

const (
	SpecBalanced Specialization = iota
	SpecEfficiency
	SpecRegeneration
)

const (
	MinVariant = 1
	MaxVariant = 4

	MaxCharge    = 100
	MaxFatigue   = 100
	MaxWear      = 100
	MaxEvolution = 10
)

// ChargeState is the accrual state of one asset.
type ChargeState struct {
	Current        int
	Max            int
	RegenPerHour   int
	Fatigue        int
	Specialization Specialization
	Mastery        int
	Evolution      int
	BoostEndsAt    time.Time
	// SettledAt is the last time regen and fatigue recovery were applied.
	SettledAt time.Time
}

// Asset is the ledger's record of one staked asset.
type Asset struct {
	Key          Key
	CollectionID uint64
	TokenID      uint64
	Owner        string
	Level        int
	Variant      int

	Charge ChargeState

	Wear          int
	WearSettledAt time.Time

	StakedAt    time.Time
	LastClaimAt time.Time

	LastAction map[catalog.ActionID]time.Time
	// ColonyID is zero when the asset belongs to no colony.
	ColonyID uint64
}

// NewAsset creates a freshly staked asset with full charge.
func NewAsset(collectionID, tokenID uint64, owner string, level, variant int, now time.Time) *Asset {
	if variant < MinVariant || variant > MaxVariant {
		variant = MinVariant
	}
	return &Asset{
		Key:          KeyOf(collectionID, tokenID),
		CollectionID: collectionID,
		TokenID:      tokenID,
		Owner:        owner,
		Level:        level,
		Variant:      variant,
		Charge: ChargeState{
			Current:      MaxCharge,
			Max:          MaxCharge,
			RegenPerHour: 10,
			SettledAt:    now,
		},
		WearSettledAt: now,
		StakedAt:      now,
		LastClaimAt:   now,
		LastAction:    make(map[catalog.ActionID]time.Time),
	}
}

// LastActionAt returns when action last ran on this asset (zero if never).
func (a *Asset) LastActionAt(id catalog.ActionID) time.Time {
	return a.LastAction[id]
}

// Clone returns a deep copy suitable for speculative mutation.
func (a *Asset) Clone() *Asset {
	c := *a
	c.LastAction = make(map[catalog.ActionID]time.Time, len(a.LastAction))
	for k, v := range a.LastAction {
		c.LastAction[k] = v
	}
	return &c
}

// Accessory is one equipped item as reported by the asset registry.
type Accessory struct {
	ID                  string
	EfficiencyBoost     int
	RegenBoost          int
	ChargeBoost         int
	Rare                bool
	SpecializationType  catalog.Category
	SpecializationBoost int
	WearResistance      int
	KinshipBoost        int
	StakingBoost        int
}

// MatchesCategory reports whether the accessory's specialization targets the category.
func (a Accessory) MatchesCategory(c catalog.Category) bool {
	return a.SpecializationType != 0 && a.SpecializationType == c
}
