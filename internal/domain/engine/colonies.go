package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
)

// ColonyReport is a read-only view of a colony and its bonus.
type ColonyReport struct {
	Colony    *colony.Colony
	Sample    colony.Result
	Effective int
}

// CreateColony registers a new colony owned by creator.
func (e *Engine) CreateColony(ctx context.Context, creator, name string, criteria colony.Criteria) (*colony.Colony, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	c := e.colonies.Create(name, creator, criteria, ledger.DayOf(now), now)
	if err := e.persister.Commit(ctx, ChangeSet{Colonies: []*colony.Colony{c}}); err != nil {
		e.colonies.Remove(c.ID)
		return nil, fmt.Errorf("failed to persist colony: %w", err)
	}
	return c.Clone(), nil
}

// JoinColony adds an owned asset to a colony, or queues it when approval is required.
func (e *Engine) JoinColony(ctx context.Context, actorID string, colonyID uint64, key assets.Key) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.ownedAsset(actorID, key)
	if err != nil {
		return false, err
	}
	c, ok := e.colonies.Get(colonyID)
	if !ok {
		return false, fmt.Errorf("%w: %d", colony.ErrNotFound, colonyID)
	}
	before := c.Clone()

	joined, err := e.colonies.Join(colonyID, a, a.Variant, e.clock())
	if err != nil {
		return false, err
	}
	if err := e.persister.Commit(ctx, ChangeSet{Assets: []*assets.Asset{a}, Colonies: []*colony.Colony{c}}); err != nil {
		e.colonies.Replace(before)
		return false, fmt.Errorf("failed to persist membership: %w", err)
	}
	e.assets[key] = a
	return joined, nil
}

// ApproveMember admits a pending asset. Only the colony creator may approve.
func (e *Engine) ApproveMember(ctx context.Context, approver string, colonyID uint64, key assets.Key) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	stored, ok := e.assets[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAsset, assets.FormatKey(key))
	}
	a := stored.Clone()
	c, ok := e.colonies.Get(colonyID)
	if !ok {
		return fmt.Errorf("%w: %d", colony.ErrNotFound, colonyID)
	}
	before := c.Clone()

	if err := e.colonies.Approve(colonyID, approver, a); err != nil {
		return err
	}
	if err := e.persister.Commit(ctx, ChangeSet{Assets: []*assets.Asset{a}, Colonies: []*colony.Colony{c}}); err != nil {
		e.colonies.Replace(before)
		return fmt.Errorf("failed to persist approval: %w", err)
	}
	e.assets[key] = a
	return nil
}

// LeaveColony removes an owned asset from its colony.
func (e *Engine) LeaveColony(ctx context.Context, actorID string, key assets.Key) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.ownedAsset(actorID, key)
	if err != nil {
		return 0, err
	}
	id, ok := e.colonies.ColonyOf(key)
	if !ok {
		return 0, colony.ErrNotMember
	}
	c, _ := e.colonies.Get(id)
	before := c.Clone()

	if _, err := e.colonies.Leave(a); err != nil {
		return 0, err
	}
	if err := e.persister.Commit(ctx, ChangeSet{Assets: []*assets.Asset{a}, Colonies: []*colony.Colony{c}}); err != nil {
		e.colonies.Replace(before)
		return 0, fmt.Errorf("failed to persist leave: %w", err)
	}
	e.assets[key] = a
	return id, nil
}

// ColonyBonus samples a colony and reports its effective bonus.
func (e *Engine) ColonyBonus(ctx context.Context, colonyID uint64) (ColonyReport, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.colonies.Get(colonyID)
	if !ok {
		return ColonyReport{}, fmt.Errorf("%w: %d", colony.ErrNotFound, colonyID)
	}
	sample := e.sampler.Bonus(ctx, c)
	return ColonyReport{
		Colony:    c.Clone(),
		Sample:    sample,
		Effective: c.EffectiveBonus(sample.Bonus),
	}, nil
}

// ColonyOf returns the colony an asset belongs to.
func (e *Engine) ColonyOf(key assets.Key) (uint64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.colonies.ColonyOf(key)
}

// Colonies lists all colonies.
func (e *Engine) Colonies() []*colony.Colony {
	e.mu.RLock()
	defer e.mu.RUnlock()
	all := e.colonies.All()
	out := make([]*colony.Colony, len(all))
	for i, c := range all {
		out[i] = c.Clone()
	}
	return out
}

// RestoreColonyHealth adds health to a colony. Only the creator may restore.
func (e *Engine) RestoreColonyHealth(ctx context.Context, actorID string, colonyID uint64, amount int) (*colony.Colony, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.colonies.Get(colonyID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", colony.ErrNotFound, colonyID)
	}
	if c.Creator != actorID {
		return nil, colony.ErrNotCreator
	}
	before := c.Clone()

	if _, err := e.colonies.RestoreHealth(colonyID, amount); err != nil {
		return nil, err
	}
	if err := e.persister.Commit(ctx, ChangeSet{Colonies: []*colony.Colony{c}}); err != nil {
		e.colonies.Replace(before)
		return nil, fmt.Errorf("failed to persist colony health: %w", err)
	}
	return c.Clone(), nil
}

// DecayColonies applies daily health decay and returns how many colonies changed.
func (e *Engine) DecayColonies(ctx context.Context) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := e.colonies.All()
	before := make([]*colony.Colony, len(all))
	for i, c := range all {
		before[i] = c.Clone()
	}

	changed := e.colonies.Decay(ledger.DayOf(e.clock()))
	if len(changed) == 0 {
		return 0, nil
	}
	if err := e.persister.Commit(ctx, ChangeSet{Colonies: changed}); err != nil {
		for _, c := range before {
			e.colonies.Replace(c)
		}
		return 0, fmt.Errorf("failed to persist colony decay: %w", err)
	}

	slog.Info("Colony health decayed",
		slog.String("type", "sys"),
		slog.Int("colonies", len(changed)))
	return len(changed), nil
}
