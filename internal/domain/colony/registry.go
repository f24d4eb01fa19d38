package colony

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
)

const (
	healthDecayPerDay = 5
	healthGraceDays   = 1
)

var (
	ErrNotFound        = errors.New("colony not found")
	ErrAlreadyMember   = errors.New("asset already belongs to a colony")
	ErrNotMember       = errors.New("asset is not in this colony")
	ErrCriteria        = errors.New("asset does not meet colony criteria")
	ErrNotPending      = errors.New("asset has no pending request")
	ErrNotCreator      = errors.New("only the colony creator can do this")
	ErrInvalidColonyID = errors.New("invalid colony id")
)

// Registry owns every colony and the reverse asset -> colony index. It is not safe for
// concurrent use; callers serialize access.
type Registry struct {
	colonies map[uint64]*Colony
	byAsset  map[assets.Key]uint64
	nextID   uint64
}

// ParseColonyID parses a user supplied colony id, with or without a leading '#'.
func ParseColonyID(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidColonyID, s)
	}
	return id, nil
}

func NewRegistry() *Registry {
	return &Registry{
		colonies: make(map[uint64]*Colony),
		byAsset:  make(map[assets.Key]uint64),
		nextID:   1,
	}
}

// Get returns a colony by id.
func (r *Registry) Get(id uint64) (*Colony, bool) {
	c, ok := r.colonies[id]
	return c, ok
}

// ColonyOf returns the colony an asset belongs to.
func (r *Registry) ColonyOf(key assets.Key) (uint64, bool) {
	id, ok := r.byAsset[key]
	return id, ok
}

// All returns colonies ordered by id.
func (r *Registry) All() []*Colony {
	out := make([]*Colony, 0, len(r.colonies))
	for _, c := range r.colonies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create registers a new colony and returns it.
func (r *Registry) Create(name, creator string, criteria Criteria, day int64, now time.Time) *Colony {
	c := New(r.nextID, name, creator, criteria, day, now)
	r.colonies[c.ID] = c
	r.nextID++
	return c
}

// Join adds an asset or, when the colony requires approval, records a pending request.
// It reports whether the asset became a member.
func (r *Registry) Join(id uint64, a *assets.Asset, variant int, now time.Time) (bool, error) {
	c, ok := r.colonies[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if cur, ok := r.byAsset[a.Key]; ok {
		return false, fmt.Errorf("%w: colony %d", ErrAlreadyMember, cur)
	}
	if !c.Criteria.Allows(a.Level, variant, a.Charge.Specialization) {
		return false, ErrCriteria
	}
	if c.Criteria.RequireApproval {
		c.request(a.Key, now)
		return false, nil
	}
	r.admit(c, a)
	return true, nil
}

// Approve admits a pending asset. Only the creator may approve.
func (r *Registry) Approve(id uint64, approver string, a *assets.Asset) error {
	c, ok := r.colonies[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if approver != c.Creator {
		return ErrNotCreator
	}
	if !c.IsPending(a.Key) {
		return ErrNotPending
	}
	if cur, ok := r.byAsset[a.Key]; ok {
		delete(c.pending, a.Key)
		return fmt.Errorf("%w: colony %d", ErrAlreadyMember, cur)
	}
	r.admit(c, a)
	return nil
}

func (r *Registry) admit(c *Colony, a *assets.Asset) {
	c.add(a.Key)
	r.byAsset[a.Key] = c.ID
	a.ColonyID = c.ID
}

// Leave removes an asset from its colony.
func (r *Registry) Leave(a *assets.Asset) (uint64, error) {
	id, ok := r.byAsset[a.Key]
	if !ok {
		return 0, ErrNotMember
	}
	c := r.colonies[id]
	if c == nil || !c.remove(a.Key) {
		delete(r.byAsset, a.Key)
		return 0, ErrNotMember
	}
	delete(r.byAsset, a.Key)
	a.ColonyID = 0
	return id, nil
}

// Touch records colony activity worth points for the day.
func (r *Registry) Touch(id uint64, day int64, points int) {
	if c, ok := r.colonies[id]; ok {
		c.Touch(day, points)
	}
}

// Decay applies health decay up to day and returns the colonies that changed.
func (r *Registry) Decay(day int64) []*Colony {
	var changed []*Colony
	for _, c := range r.All() {
		if decay(c, day) {
			changed = append(changed, c)
		}
	}
	return changed
}

func decay(c *Colony, day int64) bool {
	from := max(c.LastActiveDay+healthGraceDays, c.DecayedThrough)
	if day <= from {
		return false
	}
	c.Health = max(c.Health-int(day-from)*healthDecayPerDay, 0)
	c.DecayedThrough = day
	return true
}

// RestoreHealth adds health up to the maximum.
func (r *Registry) RestoreHealth(id uint64, amount int) (*Colony, error) {
	c, ok := r.colonies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	c.Health = min(c.Health+max(amount, 0), MaxHealth)
	return c, nil
}

// SetOverride sets or clears (pct <= 0) the explicit bonus.
func (r *Registry) SetOverride(id uint64, pct int) (*Colony, error) {
	c, ok := r.colonies[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	c.BonusOverride = max(pct, 0)
	return c, nil
}

// Replace installs c, keeping the reverse index in step. Used to load persisted colonies
// and to publish a clone once its write has committed.
func (r *Registry) Replace(c *Colony) {
	if cur, ok := r.colonies[c.ID]; ok {
		for _, k := range cur.members {
			if r.byAsset[k] == c.ID {
				delete(r.byAsset, k)
			}
		}
	}
	r.colonies[c.ID] = c
	for _, k := range c.members {
		r.byAsset[k] = c.ID
	}
	if c.ID >= r.nextID {
		r.nextID = c.ID + 1
	}
}

// Remove drops a colony and its reverse index entries.
func (r *Registry) Remove(id uint64) {
	c, ok := r.colonies[id]
	if !ok {
		return
	}
	for _, k := range c.members {
		delete(r.byAsset, k)
	}
	delete(r.colonies, id)
}
