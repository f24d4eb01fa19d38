package models

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
	dbmodels "github.com/ellavondegurechaff/stakeforge/internal/gateways/database/models"
)

type EligibilityView struct {
	Asset   string `json:"asset"`
	Action  uint8  `json:"action"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
	Charge  int    `json:"charge"`
	Cost    int    `json:"cost"`
	Reward  int64  `json:"reward"`
	Fee     int64  `json:"fee"`
}

func NewEligibilityView(el engine.Eligibility) EligibilityView {
	return EligibilityView{
		Asset:   assets.FormatKey(el.Asset),
		Action:  uint8(el.Action),
		Allowed: el.Allowed,
		Reason:  el.Reason,
		Charge:  el.Charge,
		Cost:    el.Cost,
		Reward:  el.Reward,
		Fee:     el.Fee,
	}
}

type PreviewRequest struct {
	Actor  string   `json:"actor"`
	Assets []string `json:"assets"`
	Action uint8    `json:"action"`
}

// BreakdownView mirrors rewards.Breakdown with stable JSON names.
type BreakdownView struct {
	Asset          string `json:"asset"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	Base           int64  `json:"base"`
	Level          int    `json:"level_bonus"`
	Variant        int    `json:"variant_bonus"`
	Specialization int    `json:"specialization_bonus"`
	Equipment      int    `json:"equipment_bonus"`
	Colony         int    `json:"colony_bonus"`
	Loyalty        int    `json:"loyalty_bonus"`
	Time           int    `json:"time_bonus"`
	BonusTotal     int    `json:"bonus_total"`
	Efficiency     int    `json:"charge_efficiency"`
	FatiguePenalty int    `json:"fatigue_penalty"`
	WearPenalty    int    `json:"wear_penalty"`
	Decay          int    `json:"decay"`
	Season         int    `json:"season"`
	Global         int    `json:"global"`
	Amount         int64  `json:"amount"`
}

func NewBreakdownView(key assets.Key, bd rewards.Breakdown) BreakdownView {
	return BreakdownView{
		Asset:          assets.FormatKey(key),
		ElapsedSeconds: int64(bd.Elapsed / time.Second),
		Base:           bd.Base,
		Level:          bd.Level,
		Variant:        bd.Variant,
		Specialization: bd.Specialization,
		Equipment:      bd.Equipment,
		Colony:         bd.Colony,
		Loyalty:        bd.Loyalty,
		Time:           bd.Time,
		BonusTotal:     bd.BonusTotal,
		Efficiency:     bd.ChargeEfficiency,
		FatiguePenalty: bd.FatiguePenalty,
		WearPenalty:    bd.WearPenalty,
		Decay:          bd.Decay,
		Season:         bd.Season,
		Global:         bd.Global,
		Amount:         bd.Amount,
	}
}

type ColonyBonusView struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Members       int    `json:"members"`
	Health        int    `json:"health"`
	ActivityScore int    `json:"activity_score"`
	Sampled       int    `json:"sampled"`
	Valid         int    `json:"valid"`
	Weighted      int    `json:"weighted"`
	Diversity     int    `json:"diversity"`
	SampledBonus  int    `json:"sampled_bonus"`
	Override      int    `json:"override,omitempty"`
	Effective     int    `json:"effective_bonus"`
}

func NewColonyBonusView(r engine.ColonyReport) ColonyBonusView {
	return ColonyBonusView{
		ID:            r.Colony.ID,
		Name:          r.Colony.Name,
		Members:       r.Colony.Size(),
		Health:        r.Colony.Health,
		ActivityScore: r.Colony.ActivityScore,
		Sampled:       r.Sample.Sampled,
		Valid:         r.Sample.Valid,
		Weighted:      r.Sample.Weighted,
		Diversity:     r.Sample.Diversity,
		SampledBonus:  r.Sample.Bonus,
		Override:      r.Colony.BonusOverride,
		Effective:     r.Effective,
	}
}

type ActorView struct {
	ID               string        `json:"id"`
	Day              int64         `json:"day"`
	WeightedToday    int           `json:"weighted_today"`
	RawCount         int           `json:"raw_count"`
	Streak           int           `json:"streak"`
	LongestStreak    int           `json:"longest_streak"`
	StreakMultiplier int           `json:"streak_multiplier"`
	DailyCounts      map[uint8]int `json:"daily_counts"`
	LastActivityAt   *time.Time    `json:"last_activity_at,omitempty"`
}

func NewActorView(a *ledger.Actor) ActorView {
	v := ActorView{
		ID:               a.ID,
		Day:              a.Day,
		WeightedToday:    a.WeightedToday,
		RawCount:         a.RawCount,
		Streak:           a.Streak,
		LongestStreak:    a.LongestStreak,
		StreakMultiplier: a.StreakMultiplier,
		DailyCounts:      make(map[uint8]int, len(a.DailyCounts)),
	}
	for id, n := range a.DailyCounts {
		v.DailyCounts[uint8(id)] = n
	}
	if !a.LastActivityAt.IsZero() {
		t := a.LastActivityAt
		v.LastActivityAt = &t
	}
	return v
}

type HistoryView struct {
	Days    []dbmodels.DailyActivity `json:"days"`
	Actions []dbmodels.ActionReceipt `json:"actions"`
}

// EventRequest activates a scheduled event. Times are RFC 3339.
type EventRequest struct {
	Kind             string    `json:"kind"`
	Name             string    `json:"name"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Multiplier       int       `json:"multiplier"`
	ChargeBoost      int       `json:"charge_boost"`
	RegenBonus       int       `json:"regen_bonus"`
	DailyCap         int       `json:"daily_cap"`
	CooldownSeconds  int       `json:"cooldown_override_seconds"`
	OverrideCategory string    `json:"override_category"`
}

// Event validates the request and builds the catalog event.
func (r EventRequest) Event() (catalog.Event, error) {
	kind, err := catalog.ParseEventKind(r.Kind)
	if err != nil {
		return catalog.Event{}, err
	}
	ev := catalog.Event{
		Kind:             kind,
		Name:             r.Name,
		Start:            r.Start,
		End:              r.End,
		Multiplier:       r.Multiplier,
		ChargeBoost:      r.ChargeBoost,
		RegenBonus:       r.RegenBonus,
		DailyCap:         r.DailyCap,
		CooldownOverride: time.Duration(r.CooldownSeconds) * time.Second,
	}
	if r.OverrideCategory != "" {
		if ev.OverrideCategory, err = catalog.ParseCategory(r.OverrideCategory); err != nil {
			return catalog.Event{}, err
		}
	}
	return ev, nil
}
