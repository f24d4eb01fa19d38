package engine

import (
	"context"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
	"github.com/google/uuid"
)

// Receipt records one committed action.
type Receipt struct {
	ID       uuid.UUID
	ActorID  string
	Asset    assets.Key
	Action   catalog.ActionID
	Reward   int64
	Fee      int64
	Cost     int
	Weight   int
	Credited bool
	At       time.Time
}

// ClaimReceipt records one committed reward claim.
type ClaimReceipt struct {
	ID        uuid.UUID
	ActorID   string
	Asset     assets.Key
	Breakdown rewards.Breakdown
	Amount    int64
	At        time.Time
}

// ChangeSet is everything one call writes. It is persisted as a unit.
type ChangeSet struct {
	Actors   []*ledger.Actor
	Assets   []*assets.Asset
	Colonies []*colony.Colony
	Action   *Receipt
	Claim    *ClaimReceipt
}

// Persister stores a change set atomically. The engine commits to memory only after
// Commit succeeds.
type Persister interface {
	Commit(ctx context.Context, cs ChangeSet) error
}

// NopPersister keeps state in memory only.
type NopPersister struct{}

func (NopPersister) Commit(context.Context, ChangeSet) error { return nil }

// State is a full ledger image used to warm the engine at startup.
type State struct {
	Actors   []*ledger.Actor
	Assets   []*assets.Asset
	Colonies []*colony.Colony
}
