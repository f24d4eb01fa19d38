package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultCollection = "assets"

var ErrNotRegistered = errors.New("asset not found in registry")

type Config struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	CacheSize  int    `toml:"cache_size"`
	// CacheTTL is in seconds.
	CacheTTL int `toml:"cache_ttl"`
	// MaxInFlight bounds concurrent registry round trips.
	MaxInFlight int64 `toml:"max_in_flight"`
}

// Record is everything the engine reads about one asset.
type Record struct {
	Owner       string
	Variant     int
	Accessories []assets.Accessory
}

// Source fetches whole records. CachedProvider sits on top of it.
type Source interface {
	Record(ctx context.Context, key assets.Key) (Record, error)
}

type accessoryDocument struct {
	ID                  string `bson:"id"`
	EfficiencyBoost     int    `bson:"efficiency_boost"`
	RegenBoost          int    `bson:"regen_boost"`
	ChargeBoost         int    `bson:"charge_boost"`
	Rare                bool   `bson:"rare"`
	SpecializationType  string `bson:"specialization_type,omitempty"`
	SpecializationBoost int    `bson:"specialization_boost"`
	WearResistance      int    `bson:"wear_resistance"`
	KinshipBoost        int    `bson:"kinship_boost"`
	StakingBoost        int    `bson:"staking_boost"`
}

type assetDocument struct {
	Key          string              `bson:"key"`
	CollectionID uint64              `bson:"collection_id"`
	TokenID      uint64              `bson:"token_id"`
	Owner        string              `bson:"owner"`
	Variant      int                 `bson:"variant"`
	Accessories  []accessoryDocument `bson:"accessories"`
}

// MongoProvider reads asset ownership and attributes from a MongoDB collection keyed by
// "collection:token".
type MongoProvider struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func Connect(ctx context.Context, cfg Config) (*MongoProvider, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to registry: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping registry: %w", err)
	}

	name := cfg.Collection
	if name == "" {
		name = defaultCollection
	}
	slog.Info("Connected to asset registry",
		slog.String("type", "registry"),
		slog.String("database", cfg.Database),
		slog.String("collection", name))
	return &MongoProvider{client: client, coll: client.Database(cfg.Database).Collection(name)}, nil
}

func (p *MongoProvider) Close(ctx context.Context) error {
	return p.client.Disconnect(ctx)
}

func (p *MongoProvider) Record(ctx context.Context, key assets.Key) (Record, error) {
	var doc assetDocument
	err := p.coll.FindOne(ctx, bson.M{"key": assets.FormatKey(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotRegistered, assets.FormatKey(key))
	}
	if err != nil {
		return Record{}, err
	}
	return recordFromDocument(doc), nil
}

func (p *MongoProvider) Owner(ctx context.Context, key assets.Key) (string, error) {
	r, err := p.Record(ctx, key)
	if errors.Is(err, ErrNotRegistered) {
		return "", nil
	}
	return r.Owner, err
}

func (p *MongoProvider) Variant(ctx context.Context, key assets.Key) (int, error) {
	r, err := p.Record(ctx, key)
	return r.Variant, err
}

func (p *MongoProvider) Accessories(ctx context.Context, key assets.Key) ([]assets.Accessory, error) {
	r, err := p.Record(ctx, key)
	return r.Accessories, err
}

func recordFromDocument(doc assetDocument) Record {
	r := Record{Owner: doc.Owner, Variant: doc.Variant}
	for _, d := range doc.Accessories {
		acc := assets.Accessory{
			ID:                  d.ID,
			EfficiencyBoost:     d.EfficiencyBoost,
			RegenBoost:          d.RegenBoost,
			ChargeBoost:         d.ChargeBoost,
			Rare:                d.Rare,
			SpecializationBoost: d.SpecializationBoost,
			WearResistance:      d.WearResistance,
			KinshipBoost:        d.KinshipBoost,
			StakingBoost:        d.StakingBoost,
		}
		// unknown categories leave the accessory unspecialized
		if d.SpecializationType != "" {
			if c, err := catalog.ParseCategory(d.SpecializationType); err == nil {
				acc.SpecializationType = c
			}
		}
		r.Accessories = append(r.Accessories, acc)
	}
	return r
}
