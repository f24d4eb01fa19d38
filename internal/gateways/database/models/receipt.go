package models

import (
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ActionReceipt struct {
	bun.BaseModel `bun:"table:action_receipts,alias:ar"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	ActorID   string    `bun:"actor_id,notnull"`
	AssetKey  string    `bun:"asset_key,notnull,type:char(66)"`
	ActionID  uint8     `bun:"action_id,notnull"`
	Reward    int64     `bun:"reward,notnull"`
	Fee       int64     `bun:"fee,notnull"`
	Cost      int       `bun:"cost,notnull"`
	Weight    int       `bun:"weight,notnull"`
	Credited  bool      `bun:"credited,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

type RewardClaim struct {
	bun.BaseModel `bun:"table:reward_claims,alias:rc"`

	ID        uuid.UUID         `bun:"id,pk,type:uuid"`
	ActorID   string            `bun:"actor_id,notnull"`
	AssetKey  string            `bun:"asset_key,notnull,type:char(66)"`
	Amount    int64             `bun:"amount,notnull"`
	Breakdown rewards.Breakdown `bun:"breakdown,type:jsonb"`
	ClaimedAt time.Time         `bun:"claimed_at,notnull"`
}
