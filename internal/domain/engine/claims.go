package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
	"github.com/google/uuid"
)

// RegisterAsset stakes an asset for owner. The registry's owner, when known, must match
// and the variant is read from the registry.
func (e *Engine) RegisterAsset(ctx context.Context, owner string, collectionID, tokenID uint64, level int) (*assets.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := assets.KeyOf(collectionID, tokenID)
	if _, ok := e.assets[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAssetExists, assets.FormatKey(key))
	}
	if registered := e.provider.Owner(ctx, key); registered != "" && registered != owner {
		return nil, ErrNotOwner
	}

	a := assets.NewAsset(collectionID, tokenID, owner, max(level, 1), e.provider.Variant(ctx, key), e.clock())
	if err := e.persister.Commit(ctx, ChangeSet{Assets: []*assets.Asset{a}}); err != nil {
		return nil, fmt.Errorf("failed to persist asset: %w", err)
	}

	e.assets[key] = a
	e.owned[owner]++
	return a.Clone(), nil
}

func (e *Engine) accrue(ctx context.Context, a *assets.Asset) rewards.Breakdown {
	snap := e.tables.Load()
	now := e.clock()
	accessories := e.provider.Accessories(ctx, a.Key)
	settle(a, snap, accessories, now)

	return rewards.Accrue(snap, rewards.AccrualInput{
		Asset:         a,
		Accessories:   accessories,
		ColonyBonus:   e.membership(ctx, a.Key).Bonus,
		OwnerShareBps: e.shareBps(a.Owner),
		Now:           now,
	})
}

// PendingRewards reports what an asset would pay if claimed now.
func (e *Engine) PendingRewards(ctx context.Context, key assets.Key) (rewards.Breakdown, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.assets[key]
	if !ok {
		return rewards.Breakdown{}, fmt.Errorf("%w: %s", ErrUnknownAsset, assets.FormatKey(key))
	}
	return e.accrue(ctx, a.Clone()), nil
}

// ClaimRewards pays out accrued rewards and restarts accrual.
func (e *Engine) ClaimRewards(ctx context.Context, actorID string, key assets.Key) (*ClaimReceipt, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.ownedAsset(actorID, key)
	if err != nil {
		return nil, err
	}
	b := e.accrue(ctx, a)
	if b.Amount <= 0 {
		return nil, ErrNothingToClaim
	}

	now := e.clock()
	a.LastClaimAt = now
	receipt := &ClaimReceipt{
		ID:        uuid.New(),
		ActorID:   actorID,
		Asset:     key,
		Breakdown: b,
		Amount:    b.Amount,
		At:        now,
	}
	if err := e.persister.Commit(ctx, ChangeSet{Assets: []*assets.Asset{a}, Claim: receipt}); err != nil {
		return nil, fmt.Errorf("failed to persist claim: %w", err)
	}
	e.assets[key] = a

	slog.Info("Rewards claimed",
		slog.String("type", "rwd"),
		slog.String("actor", actorID),
		slog.String("asset", assets.FormatKey(key)),
		slog.Int64("amount", b.Amount))
	return receipt, nil
}

// RepairAsset clears wear on an owned asset.
func (e *Engine) RepairAsset(ctx context.Context, actorID string, key assets.Key) (*assets.Asset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, err := e.ownedAsset(actorID, key)
	if err != nil {
		return nil, err
	}
	rewards.Repair(a, e.clock())
	if err := e.persister.Commit(ctx, ChangeSet{Assets: []*assets.Asset{a}}); err != nil {
		return nil, fmt.Errorf("failed to persist repair: %w", err)
	}
	e.assets[key] = a
	return a.Clone(), nil
}
