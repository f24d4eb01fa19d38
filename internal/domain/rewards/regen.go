package rewards

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
)

const (
	boostRegenBonus          = 25
	regenerationSpecialBonus = 15
)

// RegenEvent is the global regeneration event in effect, if any.
type RegenEvent struct {
	End   time.Time
	Bonus int
}

func (e RegenEvent) activeAt(now time.Time) bool {
	return e.Bonus > 0 && (e.End.IsZero() || now.Before(e.End))
}

// ChargeRegen returns the charge level after elapsed time of regeneration. Boosts apply
// in order (personal boost, global event, regeneration specialization) and the fatigue
// penalty is applied last. The result never exceeds the maximum charge.
func ChargeRegen(c assets.ChargeState, elapsed time.Duration, now time.Time, event RegenEvent) int {
	maxCharge := c.Max
	if maxCharge <= 0 {
		maxCharge = assets.MaxCharge
	}
	current := clamp(c.Current, 0, maxCharge)
	if current >= maxCharge || elapsed <= 0 || c.RegenPerHour <= 0 {
		return current
	}

	regen := mulDiv(int64(elapsed/time.Second), int64(c.RegenPerHour), 3600)
	if now.Before(c.BoostEndsAt) {
		regen = bonus(regen, boostRegenBonus)
	}
	if event.activeAt(now) {
		regen = bonus(regen, event.Bonus)
	}
	if c.Specialization == assets.SpecRegeneration {
		regen = bonus(regen, regenerationSpecialBonus)
	}
	regen = penalty(regen, fatiguePenalty(c.Fatigue))

	if regen >= int64(maxCharge-current) {
		return maxCharge
	}
	return current + int(regen)
}
