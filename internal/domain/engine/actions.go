package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/gate"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Eligibility is the advisory answer for one (actor, asset, action) triple.
type Eligibility struct {
	Asset   assets.Key
	Action  catalog.ActionID
	Allowed bool
	Reason  string
	Charge  int
	Cost    int
	Reward  int64
	Fee     int64
}

// PerformAction runs the gate in hard mode and, when every check passes, applies the
// action and persists the result. Nothing is committed on failure.
func (e *Engine) PerformAction(ctx context.Context, actorID string, key assets.Key, actionID catalog.ActionID) (*Receipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.tables.Load()
	action, ok := snap.Action(actionID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, actionID)
	}
	asset, err := e.ownedAsset(actorID, key)
	if err != nil {
		return nil, err
	}

	now := e.clock()
	actor := e.actorFor(actorID)
	ledger.EnsureDailyReset(actor, now)

	accessories := e.provider.Accessories(ctx, key)
	settle(asset, snap, accessories, now)

	req := gate.Request{
		Actor:    actor,
		Asset:    asset,
		Action:   action,
		Colony:   e.membership(ctx, key),
		Snapshot: snap,
		Now:      now,
	}
	if err := gate.Require(req); err != nil {
		slog.Info("Action rejected",
			slog.String("type", "gate"),
			slog.String("actor", actorID),
			slog.String("asset", assets.FormatKey(key)),
			slog.Any("error", err))
		return nil, err
	}

	cost := rewards.ChargeCost(action, asset.Charge)
	if asset.Charge.Current < cost {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientCharge, cost, asset.Charge.Current)
	}

	reward := rewards.ActionReward(rewards.ActionInput{
		Asset:       asset,
		Action:      action,
		ColonyBonus: req.Colony.Bonus,
		Accessories: accessories,
		Season:      season(snap, now),
		Wear:        rewards.WearSourceFor(snap),
	})
	reward = rewards.EnhancedReward(reward, actor, action.DifficultyTier(), snap.Multiplier())
	fee := rewards.DynamicFee(e.cfg.FeeBase, actor, action.DifficultyTier(), snap.Multiplier(), now, e.cfg.FeeBounds)

	weight, credited := gate.UpdateAfterAction(req)
	rewards.ApplyAction(asset, action, cost)

	receipt := &Receipt{
		ID:       uuid.New(),
		ActorID:  actorID,
		Asset:    key,
		Action:   action.ID,
		Reward:   reward,
		Fee:      fee,
		Cost:     cost,
		Weight:   weight,
		Credited: credited,
		At:       now,
	}
	cs := ChangeSet{
		Actors: []*ledger.Actor{actor},
		Assets: []*assets.Asset{asset},
		Action: receipt,
	}

	var touched *colony.Colony
	if action.Category == catalog.CategoryColony && req.Colony.Member {
		if c, ok := e.colonies.Get(req.Colony.ColonyID); ok {
			touched = c.Clone()
			touched.Touch(ledger.DayOf(now), action.DifficultyTier())
			cs.Colonies = append(cs.Colonies, touched)
		}
	}

	if err := e.persister.Commit(ctx, cs); err != nil {
		return nil, fmt.Errorf("failed to persist action: %w", err)
	}

	e.actors[actor.ID] = actor
	e.assets[key] = asset
	if touched != nil {
		e.colonies.Replace(touched)
	}
	return receipt, nil
}

// CheckEligibility evaluates an action in advisory mode. It never mutates state.
func (e *Engine) CheckEligibility(ctx context.Context, actorID string, key assets.Key, actionID catalog.ActionID) (Eligibility, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := e.tables.Load()
	action, ok := snap.Action(actionID)
	if !ok {
		return Eligibility{}, fmt.Errorf("%w: %d", ErrUnknownAction, actionID)
	}
	asset, err := e.ownedAsset(actorID, key)
	if err != nil {
		return Eligibility{}, err
	}

	now := e.clock()
	actor := e.actorFor(actorID)
	// Roll the clone over the same way PerformAction does, so both paths see one day.
	ledger.EnsureDailyReset(actor, now)
	accessories := e.provider.Accessories(ctx, key)
	settle(asset, snap, accessories, now)

	req := gate.Request{
		Actor:    actor,
		Asset:    asset,
		Action:   action,
		Colony:   e.membership(ctx, key),
		Snapshot: snap,
		Now:      now,
	}
	out := Eligibility{
		Asset:  key,
		Action: actionID,
		Charge: asset.Charge.Current,
		Cost:   rewards.ChargeCost(action, asset.Charge),
	}
	out.Allowed, out.Reason = gate.Check(req)
	if out.Allowed && out.Charge < out.Cost {
		out.Allowed = false
		out.Reason = fmt.Sprintf("not enough charge (%d/%d)", out.Charge, out.Cost)
	}

	reward := rewards.ActionReward(rewards.ActionInput{
		Asset:       asset,
		Action:      action,
		ColonyBonus: req.Colony.Bonus,
		Accessories: accessories,
		Season:      season(snap, now),
		Wear:        rewards.WearSourceFor(snap),
	})
	out.Reward = rewards.EnhancedReward(reward, actor, action.DifficultyTier(), snap.Multiplier())
	out.Fee = rewards.DynamicFee(e.cfg.FeeBase, actor, action.DifficultyTier(), snap.Multiplier(), now, e.cfg.FeeBounds)
	return out, nil
}

// PreviewBatch checks one action across many assets. A failing lookup for one asset is
// reported in its entry and does not abort the batch.
func (e *Engine) PreviewBatch(ctx context.Context, actorID string, keys []assets.Key, actionID catalog.ActionID) ([]Eligibility, error) {
	if _, ok := e.tables.Load().Action(actionID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, actionID)
	}

	out := make([]Eligibility, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.PreviewConcurrency)

	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.CheckEligibility(gctx, actorID, key, actionID)
			if err != nil {
				res = Eligibility{Asset: key, Action: actionID, Reason: err.Error()}
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
