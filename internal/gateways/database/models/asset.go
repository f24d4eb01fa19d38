package models

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/uptrace/bun"
)

type Asset struct {
	bun.BaseModel `bun:"table:assets,alias:a"`

	// Key is the packed 32-byte key in 0x-prefixed hex.
	Key          string `bun:"key,pk,type:char(66)"`
	CollectionID uint64 `bun:"collection_id,notnull"`
	TokenID      uint64 `bun:"token_id,notnull"`
	Owner        string `bun:"owner,notnull"`
	Level        int    `bun:"level,notnull,default:1"`
	Variant      int    `bun:"variant,notnull,default:1"`

	Charge         int       `bun:"charge,notnull"`
	MaxCharge      int       `bun:"max_charge,notnull"`
	RegenPerHour   int       `bun:"regen_per_hour,notnull"`
	Fatigue        int       `bun:"fatigue,notnull,default:0"`
	Specialization uint8     `bun:"specialization,notnull,default:0"`
	Mastery        int       `bun:"mastery,notnull,default:0"`
	Evolution      int       `bun:"evolution,notnull,default:0"`
	BoostEndsAt    time.Time `bun:"boost_ends_at,nullzero"`
	SettledAt      time.Time `bun:"settled_at,nullzero"`

	Wear          int       `bun:"wear,notnull,default:0"`
	WearSettledAt time.Time `bun:"wear_settled_at,nullzero"`

	StakedAt    time.Time                      `bun:"staked_at,notnull"`
	LastClaimAt time.Time                      `bun:"last_claim_at,nullzero"`
	LastAction  map[catalog.ActionID]time.Time `bun:"last_action,type:jsonb,notnull,default:'{}'"`
	ColonyID    uint64                         `bun:"colony_id,notnull,default:0"`

	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
