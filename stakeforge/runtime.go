package stakeforge

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/configstore"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database/repositories"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/registry"
)

// Runtime is the engine with its storage and collaborators, shared by the bot and the
// HTTP API.
type Runtime struct {
	DB       *database.DB
	Engine   *engine.Engine
	History  *repositories.HistoryRepository
	Tables   configstore.Store
	Registry *registry.MongoProvider
}

// Bootstrap connects to Postgres and the asset registry, loads the game tables and warms
// the engine from the persisted ledger.
func Bootstrap(ctx context.Context, cfg *Config) (*Runtime, error) {
	start := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	slog.Info("Database connected successfully",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(start)))

	rt := &Runtime{DB: db, History: repositories.NewHistoryRepository(db.BunDB())}

	var provider assets.AttributeProvider
	if cfg.Registry.URI != "" {
		mp, err := registry.Connect(ctx, cfg.Registry)
		if err != nil {
			rt.Close(ctx)
			return nil, err
		}
		rt.Registry = mp
		provider = registry.NewCachedProvider(mp, cfg.Registry.CacheSize,
			time.Duration(cfg.Registry.CacheTTL)*time.Second, cfg.Registry.MaxInFlight)
	} else {
		slog.Warn("No asset registry configured, using default attributes", slog.String("type", "registry"))
	}

	if rt.Tables, err = cfg.TableStore(ctx); err != nil {
		rt.Close(ctx)
		return nil, err
	}
	snap, err := rt.Tables.Load(ctx)
	if err != nil {
		rt.Close(ctx)
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}

	ledger := repositories.NewLedgerRepository(db.BunDB())
	rt.Engine = engine.New(catalog.NewStore(snap), assets.NewSafeProvider(provider),
		engine.WithPersister(ledger),
		engine.WithConfig(cfg.EngineOptions()))

	state, err := ledger.LoadState(ctx)
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	rt.Engine.Load(state)
	return rt, nil
}

// ReloadTables re-reads the table source and publishes it. The active schedule is kept
// when the new document defines no events.
func (rt *Runtime) ReloadTables(ctx context.Context) error {
	snap, err := rt.Tables.Load(ctx)
	if err != nil {
		return err
	}
	if len(snap.Schedule.Events()) == 0 {
		snap = snap.WithSchedule(rt.Engine.Tables().Schedule)
	}
	return rt.Engine.ReloadTables(snap)
}

func (rt *Runtime) Close(ctx context.Context) {
	if rt.Registry != nil {
		if err := rt.Registry.Close(ctx); err != nil {
			slog.Warn("Failed to close registry", slog.String("type", "registry"), slog.Any("error", err))
		}
	}
	if rt.DB != nil {
		rt.DB.Close()
	}
}
