package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/gate"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/ledger"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
)

var (
	ErrUnknownAction      = errors.New("unknown action")
	ErrUnknownAsset       = errors.New("asset is not staked")
	ErrAssetExists        = errors.New("asset is already staked")
	ErrNotOwner           = errors.New("asset belongs to another player")
	ErrInsufficientCharge = errors.New("not enough charge")
	ErrNothingToClaim     = errors.New("nothing to claim yet")
)

// Config tunes fees and batch previews.
type Config struct {
	FeeBase            int64
	FeeBounds          rewards.FeeBounds
	PreviewConcurrency int
}

func DefaultConfig() Config {
	return Config{
		FeeBase:            catalog.Unit / 10,
		FeeBounds:          rewards.FeeBounds{Min: catalog.Unit / 100, Max: 10 * catalog.Unit},
		PreviewConcurrency: 8,
	}
}

type Option func(*Engine)

func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

func WithPersister(p Persister) Option {
	return func(e *Engine) { e.persister = p }
}

func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// Engine is the single writer over the ledger. Mutating calls hold the write lock, work
// on clones and publish them only after the change set has been persisted.
type Engine struct {
	mu sync.RWMutex

	actors   map[string]*ledger.Actor
	assets   map[assets.Key]*assets.Asset
	owned    map[string]int
	colonies *colony.Registry

	tables    *catalog.Store
	provider  *assets.SafeProvider
	sampler   *colony.Sampler
	persister Persister
	clock     func() time.Time
	cfg       Config
}

func New(tables *catalog.Store, provider *assets.SafeProvider, opts ...Option) *Engine {
	e := &Engine{
		actors:    make(map[string]*ledger.Actor),
		assets:    make(map[assets.Key]*assets.Asset),
		owned:     make(map[string]int),
		colonies:  colony.NewRegistry(),
		tables:    tables,
		provider:  provider,
		persister: NopPersister{},
		clock:     time.Now,
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.PreviewConcurrency <= 0 {
		e.cfg.PreviewConcurrency = 1
	}
	e.sampler = colony.NewSampler(memberStats{e: e})
	return e
}

// Load replaces the in-memory ledger with a persisted image.
func (e *Engine) Load(state State) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.actors = make(map[string]*ledger.Actor, len(state.Actors))
	for _, a := range state.Actors {
		e.actors[a.ID] = a
	}
	e.assets = make(map[assets.Key]*assets.Asset, len(state.Assets))
	e.owned = make(map[string]int)
	for _, a := range state.Assets {
		e.assets[a.Key] = a
		e.owned[a.Owner]++
	}
	e.colonies = colony.NewRegistry()
	for _, c := range state.Colonies {
		e.colonies.Replace(c)
	}

	slog.Info("Ledger loaded",
		slog.String("type", "sys"),
		slog.Int("actors", len(state.Actors)),
		slog.Int("assets", len(state.Assets)),
		slog.Int("colonies", len(state.Colonies)))
}

// Tables returns the snapshot currently in effect.
func (e *Engine) Tables() *catalog.Snapshot {
	return e.tables.Load()
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time {
	return e.clock()
}

// Actor returns a copy of an actor, or a fresh actor when unknown.
func (e *Engine) Actor(id string) *ledger.Actor {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if a, ok := e.actors[id]; ok {
		return a.Clone()
	}
	return ledger.NewActor(id)
}

// Asset returns a copy of a staked asset.
func (e *Engine) Asset(key assets.Key) (*assets.Asset, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.assets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, assets.FormatKey(key))
	}
	return a.Clone(), nil
}

// AssetsOf lists an owner's staked assets ordered by key.
func (e *Engine) AssetsOf(owner string) []*assets.Asset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*assets.Asset
	for _, a := range e.assets {
		if a.Owner == owner {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key.Big().Cmp(out[j].Key.Big()) < 0 })
	return out
}

func (e *Engine) actorFor(id string) *ledger.Actor {
	if a, ok := e.actors[id]; ok {
		return a.Clone()
	}
	return ledger.NewActor(id)
}

func (e *Engine) ownedAsset(actorID string, key assets.Key) (*assets.Asset, error) {
	a, ok := e.assets[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, assets.FormatKey(key))
	}
	if a.Owner != actorID {
		return nil, ErrNotOwner
	}
	return a.Clone(), nil
}

// shareBps is the owner's share of all staked assets in basis points.
func (e *Engine) shareBps(owner string) int {
	if len(e.assets) == 0 {
		return 0
	}
	return e.owned[owner] * 10_000 / len(e.assets)
}

func (e *Engine) membership(ctx context.Context, key assets.Key) gate.Membership {
	id, ok := e.colonies.ColonyOf(key)
	if !ok {
		return gate.Membership{}
	}
	return gate.Membership{
		ColonyID: id,
		Member:   true,
		Bonus:    e.sampler.EffectiveBonus(ctx, e.colonies, id),
	}
}

// settle brings a cloned asset's charge and wear up to now.
func settle(a *assets.Asset, snap *catalog.Snapshot, accessories []assets.Accessory, now time.Time) {
	rewards.SettleCharge(a, now, regenEvent(snap, now))
	rewards.SettleWear(a, accessories, snap.Bonus.WearPerDay, now)
}

func regenEvent(snap *catalog.Snapshot, now time.Time) rewards.RegenEvent {
	ev, ok := snap.Schedule.Open(catalog.KindGlobal, now)
	if !ok {
		return rewards.RegenEvent{}
	}
	return rewards.RegenEvent{End: ev.End, Bonus: ev.RegenBonus}
}

func season(snap *catalog.Snapshot, now time.Time) *catalog.Event {
	ev, ok := snap.Schedule.Open(catalog.KindSeason, now)
	if !ok {
		return nil
	}
	return ev
}

// memberStats feeds the sampler from the ledger. Callers hold the engine lock.
type memberStats struct {
	e *Engine
}

func (s memberStats) MemberStats(ctx context.Context, key assets.Key) colony.MemberStats {
	a, ok := s.e.assets[key]
	if !ok {
		return colony.MemberStats{}
	}
	return colony.MemberStats{
		Level:       a.Level,
		Variant:     a.Variant,
		Accessories: s.e.provider.Accessories(ctx, key),
	}
}
