package colony

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
)

const (
	MaxHealth = 100
	// MinimalBonus is the flat bonus of a colony with no members.
	MinimalBonus = 10
)

// Criteria gate who may join a colony.
type Criteria struct {
	MinLevel   int
	MinVariant int
	// Specialization is only enforced when RequireSpecialization is set.
	Specialization        assets.Specialization
	RequireSpecialization bool
	RequireApproval       bool
}

// Allows reports whether an asset with the given stats meets the criteria.
func (c Criteria) Allows(level, variant int, spec assets.Specialization) bool {
	if level < c.MinLevel || variant < c.MinVariant {
		return false
	}
	return !c.RequireSpecialization || spec == c.Specialization
}

// Colony is a named group of assets. Members live in an arena: a slice plus a 1-based
// position index, so that zero means absent and removal is swap-and-pop.
type Colony struct {
	ID      uint64
	Name    string
	Creator string

	// BonusOverride replaces the sampled bonus when positive.
	BonusOverride int
	ActivityScore int
	Health        int
	Criteria      Criteria

	CreatedAt     time.Time
	LastActiveDay int64
	// DecayedThrough is the last day health decay was applied for.
	DecayedThrough int64

	members []assets.Key
	index   map[assets.Key]int
	pending map[assets.Key]time.Time
}

// New creates an empty colony at full health.
func New(id uint64, name, creator string, criteria Criteria, day int64, now time.Time) *Colony {
	return &Colony{
		ID:             id,
		Name:           name,
		Creator:        creator,
		Health:         MaxHealth,
		Criteria:       criteria,
		CreatedAt:      now,
		LastActiveDay:  day,
		DecayedThrough: day,
		index:          make(map[assets.Key]int),
		pending:        make(map[assets.Key]time.Time),
	}
}

// Size returns the member count.
func (c *Colony) Size() int {
	return len(c.members)
}

// Member returns the member at position i (0-based).
func (c *Colony) Member(i int) assets.Key {
	return c.members[i]
}

// Members returns a copy of the member list in arena order.
func (c *Colony) Members() []assets.Key {
	out := make([]assets.Key, len(c.members))
	copy(out, c.members)
	return out
}

// Contains reports whether key is a member.
func (c *Colony) Contains(key assets.Key) bool {
	return c.index[key] != 0
}

// Pending lists assets waiting for approval.
func (c *Colony) Pending() map[assets.Key]time.Time {
	out := make(map[assets.Key]time.Time, len(c.pending))
	for k, v := range c.pending {
		out[k] = v
	}
	return out
}

// IsPending reports whether key awaits approval.
func (c *Colony) IsPending(key assets.Key) bool {
	_, ok := c.pending[key]
	return ok
}

func (c *Colony) add(key assets.Key) {
	if c.Contains(key) {
		return
	}
	if c.index == nil {
		c.index = make(map[assets.Key]int)
	}
	c.members = append(c.members, key)
	c.index[key] = len(c.members)
	delete(c.pending, key)
}

func (c *Colony) remove(key assets.Key) bool {
	pos := c.index[key]
	if pos == 0 {
		return false
	}
	last := len(c.members) - 1
	moved := c.members[last]
	c.members[pos-1] = moved
	c.index[moved] = pos
	c.members = c.members[:last]
	delete(c.index, key)
	return true
}

func (c *Colony) request(key assets.Key, now time.Time) {
	if c.pending == nil {
		c.pending = make(map[assets.Key]time.Time)
	}
	c.pending[key] = now
}

// Clone returns a deep copy.
func (c *Colony) Clone() *Colony {
	n := *c
	n.members = make([]assets.Key, len(c.members))
	copy(n.members, c.members)
	n.index = make(map[assets.Key]int, len(c.index))
	for k, v := range c.index {
		n.index[k] = v
	}
	n.pending = make(map[assets.Key]time.Time, len(c.pending))
	for k, v := range c.pending {
		n.pending[k] = v
	}
	return &n
}

// Touch credits points of activity on day. Activity also counts as upkeep, so decay
// resumes from day.
func (c *Colony) Touch(day int64, points int) {
	c.ActivityScore += max(points, 0)
	c.LastActiveDay = day
	c.DecayedThrough = max(c.DecayedThrough, day)
}

// Restore rebuilds a colony from persisted rows. Members keep the given order.
func Restore(c Colony, members []assets.Key, pending map[assets.Key]time.Time) *Colony {
	c.members = nil
	c.index = make(map[assets.Key]int, len(members))
	c.pending = make(map[assets.Key]time.Time, len(pending))
	for _, k := range members {
		c.add(k)
	}
	for k, v := range pending {
		c.pending[k] = v
	}
	return &c
}

// EffectiveBonus scales the base bonus (override or sampled) by health.
func (c *Colony) EffectiveBonus(sampled int) int {
	base := sampled
	if c.BonusOverride > 0 {
		base = c.BonusOverride
	}
	health := min(max(c.Health, 0), MaxHealth)
	return base * health / MaxHealth
}
