package repositories

import (
	"fmt"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database/models"
)

func actorRow(a *ledger.Actor, now time.Time) *models.Actor {
	return &models.Actor{
		ID:               a.ID,
		Day:              a.Day,
		DailyCounts:      nonNil(a.DailyCounts),
		WeightedToday:    a.WeightedToday,
		RawCount:         a.RawCount,
		Streak:           a.Streak,
		LongestStreak:    a.LongestStreak,
		StreakMultiplier: a.StreakMultiplier,
		SkillRating:      a.SkillRating,
		Consistency:      a.Consistency,
		LastActivityAt:   a.LastActivityAt,
		LastSessionAt:    a.LastSessionAt,
		Sessions:         a.Sessions,
		ActionTotals:     nonNil(a.ActionTotals),
		EventLog:         nonNil(a.EventLog),
		UpdatedAt:        now,
	}
}

func actorFromRow(m *models.Actor) *ledger.Actor {
	a := ledger.NewActor(m.ID)
	a.Day = m.Day
	a.WeightedToday = m.WeightedToday
	a.RawCount = m.RawCount
	a.Streak = m.Streak
	a.LongestStreak = m.LongestStreak
	a.StreakMultiplier = m.StreakMultiplier
	a.SkillRating = m.SkillRating
	a.Consistency = m.Consistency
	a.LastActivityAt = m.LastActivityAt
	a.LastSessionAt = m.LastSessionAt
	a.Sessions = m.Sessions
	for k, v := range m.DailyCounts {
		a.DailyCounts[k] = v
	}
	for k, v := range m.ActionTotals {
		a.ActionTotals[k] = v
	}
	for k, v := range m.EventLog {
		a.EventLog[k] = v
	}
	return a
}

func dailyRow(a *ledger.Actor, now time.Time) *models.DailyActivity {
	return &models.DailyActivity{
		ActorID:       a.ID,
		Day:           a.Day,
		Counts:        nonNil(a.DailyCounts),
		WeightedTotal: a.WeightedToday,
		RawCount:      a.RawCount,
		Streak:        a.Streak,
		UpdatedAt:     now,
	}
}

func assetRow(a *assets.Asset, now time.Time) *models.Asset {
	return &models.Asset{
		Key:            a.Key.Hex(),
		CollectionID:   a.CollectionID,
		TokenID:        a.TokenID,
		Owner:          a.Owner,
		Level:          a.Level,
		Variant:        a.Variant,
		Charge:         a.Charge.Current,
		MaxCharge:      a.Charge.Max,
		RegenPerHour:   a.Charge.RegenPerHour,
		Fatigue:        a.Charge.Fatigue,
		Specialization: uint8(a.Charge.Specialization),
		Mastery:        a.Charge.Mastery,
		Evolution:      a.Charge.Evolution,
		BoostEndsAt:    a.Charge.BoostEndsAt,
		SettledAt:      a.Charge.SettledAt,
		Wear:           a.Wear,
		WearSettledAt:  a.WearSettledAt,
		StakedAt:       a.StakedAt,
		LastClaimAt:    a.LastClaimAt,
		LastAction:     nonNil(a.LastAction),
		ColonyID:       a.ColonyID,
		UpdatedAt:      now,
	}
}

func assetFromRow(m *models.Asset) (*assets.Asset, error) {
	key, err := assets.ParseKey(m.Key)
	if err != nil {
		return nil, err
	}
	a := &assets.Asset{
		Key:          key,
		CollectionID: m.CollectionID,
		TokenID:      m.TokenID,
		Owner:        m.Owner,
		Level:        m.Level,
		Variant:      m.Variant,
		Charge: assets.ChargeState{
			Current:        m.Charge,
			Max:            m.MaxCharge,
			RegenPerHour:   m.RegenPerHour,
			Fatigue:        m.Fatigue,
			Specialization: assets.Specialization(m.Specialization),
			Mastery:        m.Mastery,
			Evolution:      m.Evolution,
			BoostEndsAt:    m.BoostEndsAt,
			SettledAt:      m.SettledAt,
		},
		Wear:          m.Wear,
		WearSettledAt: m.WearSettledAt,
		StakedAt:      m.StakedAt,
		LastClaimAt:   m.LastClaimAt,
		LastAction:    make(map[catalog.ActionID]time.Time, len(m.LastAction)),
		ColonyID:      m.ColonyID,
	}
	for k, v := range m.LastAction {
		a.LastAction[k] = v
	}
	return a, nil
}

func colonyRows(c *colony.Colony) (*models.Colony, []models.ColonyMember, []models.ColonyRequest) {
	row := &models.Colony{
		ID:                    c.ID,
		Name:                  c.Name,
		Creator:               c.Creator,
		BonusOverride:         c.BonusOverride,
		ActivityScore:         c.ActivityScore,
		Health:                c.Health,
		MinLevel:              c.Criteria.MinLevel,
		MinVariant:            c.Criteria.MinVariant,
		Specialization:        uint8(c.Criteria.Specialization),
		RequireSpecialization: c.Criteria.RequireSpecialization,
		RequireApproval:       c.Criteria.RequireApproval,
		CreatedAt:             c.CreatedAt,
		LastActiveDay:         c.LastActiveDay,
		DecayedThrough:        c.DecayedThrough,
	}

	members := make([]models.ColonyMember, 0, c.Size())
	for i, k := range c.Members() {
		members = append(members, models.ColonyMember{ColonyID: c.ID, AssetKey: k.Hex(), Position: i})
	}
	var requests []models.ColonyRequest
	for k, at := range c.Pending() {
		requests = append(requests, models.ColonyRequest{ColonyID: c.ID, AssetKey: k.Hex(), RequestedAt: at})
	}
	return row, members, requests
}

func colonyFromRows(m *models.Colony, members []models.ColonyMember, requests []models.ColonyRequest) (*colony.Colony, error) {
	keys := make([]assets.Key, 0, len(members))
	for _, mem := range members {
		k, err := assets.ParseKey(mem.AssetKey)
		if err != nil {
			return nil, fmt.Errorf("colony %d member: %w", m.ID, err)
		}
		keys = append(keys, k)
	}
	pending := make(map[assets.Key]time.Time, len(requests))
	for _, req := range requests {
		k, err := assets.ParseKey(req.AssetKey)
		if err != nil {
			return nil, fmt.Errorf("colony %d request: %w", m.ID, err)
		}
		pending[k] = req.RequestedAt
	}

	return colony.Restore(colony.Colony{
		ID:            m.ID,
		Name:          m.Name,
		Creator:       m.Creator,
		BonusOverride: m.BonusOverride,
		ActivityScore: m.ActivityScore,
		Health:        m.Health,
		Criteria: colony.Criteria{
			MinLevel:              m.MinLevel,
			MinVariant:            m.MinVariant,
			Specialization:        assets.Specialization(m.Specialization),
			RequireSpecialization: m.RequireSpecialization,
			RequireApproval:       m.RequireApproval,
		},
		CreatedAt:      m.CreatedAt,
		LastActiveDay:  m.LastActiveDay,
		DecayedThrough: m.DecayedThrough,
	}, keys, pending), nil
}

func receiptRow(r *engine.Receipt) *models.ActionReceipt {
	return &models.ActionReceipt{
		ID:        r.ID,
		ActorID:   r.ActorID,
		AssetKey:  r.Asset.Hex(),
		ActionID:  uint8(r.Action),
		Reward:    r.Reward,
		Fee:       r.Fee,
		Cost:      r.Cost,
		Weight:    r.Weight,
		Credited:  r.Credited,
		CreatedAt: r.At,
	}
}

func claimRow(c *engine.ClaimReceipt) *models.RewardClaim {
	return &models.RewardClaim{
		ID:        c.ID,
		ActorID:   c.ActorID,
		AssetKey:  c.Asset.Hex(),
		Amount:    c.Amount,
		Breakdown: c.Breakdown,
		ClaimedAt: c.At,
	}
}

// nonNil keeps jsonb columns as '{}' rather than null.
func nonNil[K comparable, V any](m map[K]V) map[K]V {
	if m == nil {
		return map[K]V{}
	}
	return m
}
