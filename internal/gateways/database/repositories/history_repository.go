package repositories

import (
	"context"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/logger"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

const maxHistoryRows = 100

// HistoryRepository reads the append-only tables written alongside change sets.
type HistoryRepository struct {
	*BaseRepository
}

func NewHistoryRepository(db *bun.DB) *HistoryRepository {
	return &HistoryRepository{BaseRepository: NewBaseRepository(db)}
}

// DailyActivity returns an actor's most recent days, newest first.
func (r *HistoryRepository) DailyActivity(ctx context.Context, actorID string, limit int) ([]models.DailyActivity, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ql := logger.NewQueryLogger("select", "daily_activity", actorID, limit)
	var rows []models.DailyActivity
	err := r.db.NewSelect().
		Model(&rows).
		Where("actor_id = ?", actorID).
		Order("day DESC").
		Limit(clampLimit(limit)).
		Scan(ctx)
	ql.Log(err, int64(len(rows)))
	return rows, r.HandleErrorWithID("select", "daily_activity", actorID, err)
}

// RecentActions returns an actor's latest action receipts, newest first.
func (r *HistoryRepository) RecentActions(ctx context.Context, actorID string, limit int) ([]models.ActionReceipt, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	ql := logger.NewQueryLogger("select", "action_receipts", actorID, limit)
	var rows []models.ActionReceipt
	err := r.db.NewSelect().
		Model(&rows).
		Where("actor_id = ?", actorID).
		Order("created_at DESC").
		Limit(clampLimit(limit)).
		Scan(ctx)
	ql.Log(err, int64(len(rows)))
	return rows, r.HandleErrorWithID("select", "action_receipts", actorID, err)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > maxHistoryRows {
		return maxHistoryRows
	}
	return limit
}
