package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Colony struct {
	bun.BaseModel `bun:"table:colonies,alias:col"`

	ID            uint64 `bun:"id,pk"`
	Name          string `bun:"name,notnull"`
	Creator       string `bun:"creator,notnull"`
	BonusOverride int    `bun:"bonus_override,notnull,default:0"`
	ActivityScore int    `bun:"activity_score,notnull,default:0"`
	Health        int    `bun:"health,notnull,default:100"`

	MinLevel              int   `bun:"min_level,notnull,default:0"`
	MinVariant            int   `bun:"min_variant,notnull,default:0"`
	Specialization        uint8 `bun:"specialization,notnull,default:0"`
	RequireSpecialization bool  `bun:"require_specialization,notnull,default:false"`
	RequireApproval       bool  `bun:"require_approval,notnull,default:false"`

	CreatedAt      time.Time `bun:"created_at,notnull"`
	LastActiveDay  int64     `bun:"last_active_day,notnull,default:0"`
	DecayedThrough int64     `bun:"decayed_through,notnull,default:0"`
}

// ColonyMember keeps arena order in Position so that swap-and-pop order survives a reload.
type ColonyMember struct {
	bun.BaseModel `bun:"table:colony_members,alias:cm"`

	ColonyID uint64 `bun:"colony_id,pk"`
	AssetKey string `bun:"asset_key,pk,type:char(66)"`
	Position int    `bun:"position,notnull"`
}

type ColonyRequest struct {
	bun.BaseModel `bun:"table:colony_requests,alias:cr"`

	ColonyID    uint64    `bun:"colony_id,pk"`
	AssetKey    string    `bun:"asset_key,pk,type:char(66)"`
	RequestedAt time.Time `bun:"requested_at,notnull"`
}
