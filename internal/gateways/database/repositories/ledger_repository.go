package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/logger"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/database/models"
	"github.com/uptrace/bun"
)

// LedgerRepository persists engine change sets and loads the full ledger at startup.
type LedgerRepository struct {
	*BaseRepository
	clock func() time.Time
}

var _ engine.Persister = (*LedgerRepository)(nil)

func NewLedgerRepository(db *bun.DB) *LedgerRepository {
	return &LedgerRepository{
		BaseRepository: NewBaseRepository(db),
		clock:          time.Now,
	}
}

// Commit writes one change set in a single transaction.
func (r *LedgerRepository) Commit(ctx context.Context, cs engine.ChangeSet) error {
	ql := logger.NewQueryLogger("commit", "ledger change set",
		len(cs.Actors), len(cs.Assets), len(cs.Colonies))

	var rows int64
	err := r.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		n, err := r.writeActors(ctx, tx, cs)
		if err != nil {
			return err
		}
		rows += n

		if n, err = r.writeAssets(ctx, tx, cs); err != nil {
			return err
		}
		rows += n

		if n, err = r.writeColonies(ctx, tx, cs); err != nil {
			return err
		}
		rows += n

		if cs.Action != nil {
			if _, err := tx.NewInsert().Model(receiptRow(cs.Action)).Exec(ctx); err != nil {
				return fmt.Errorf("insert action receipt: %w", err)
			}
			rows++
		}
		if cs.Claim != nil {
			if _, err := tx.NewInsert().Model(claimRow(cs.Claim)).Exec(ctx); err != nil {
				return fmt.Errorf("insert reward claim: %w", err)
			}
			rows++
		}
		return nil
	})

	ql.Log(err, rows)
	return r.HandleError("commit", "ledger", err)
}

func (r *LedgerRepository) writeActors(ctx context.Context, tx bun.Tx, cs engine.ChangeSet) (int64, error) {
	if len(cs.Actors) == 0 {
		return 0, nil
	}
	now := r.clock()
	actors := make([]*models.Actor, 0, len(cs.Actors))
	var daily []*models.DailyActivity
	for _, a := range cs.Actors {
		actors = append(actors, actorRow(a, now))
		if a.Day != 0 {
			daily = append(daily, dailyRow(a, now))
		}
	}

	res, err := tx.NewInsert().Model(&actors).On("CONFLICT (id) DO UPDATE").Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert actors: %w", err)
	}
	n, _ := res.RowsAffected()

	if len(daily) > 0 {
		if _, err := tx.NewInsert().Model(&daily).On("CONFLICT (actor_id, day) DO UPDATE").Exec(ctx); err != nil {
			return 0, fmt.Errorf("upsert daily activity: %w", err)
		}
		n += int64(len(daily))
	}
	return n, nil
}

func (r *LedgerRepository) writeAssets(ctx context.Context, tx bun.Tx, cs engine.ChangeSet) (int64, error) {
	if len(cs.Assets) == 0 {
		return 0, nil
	}
	now := r.clock()
	rows := make([]*models.Asset, 0, len(cs.Assets))
	for _, a := range cs.Assets {
		rows = append(rows, assetRow(a, now))
	}

	res, err := tx.NewInsert().Model(&rows).On("CONFLICT (key) DO UPDATE").Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert assets: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// writeColonies upserts colony rows and rewrites their member and request lists.
// All deletes run before any insert so that an asset moving between colonies in one
// change set does not trip the unique member index.
func (r *LedgerRepository) writeColonies(ctx context.Context, tx bun.Tx, cs engine.ChangeSet) (int64, error) {
	if len(cs.Colonies) == 0 {
		return 0, nil
	}
	ids := make([]uint64, 0, len(cs.Colonies))
	rows := make([]*models.Colony, 0, len(cs.Colonies))
	var members []models.ColonyMember
	var requests []models.ColonyRequest
	for _, c := range cs.Colonies {
		row, m, req := colonyRows(c)
		ids = append(ids, c.ID)
		rows = append(rows, row)
		members = append(members, m...)
		requests = append(requests, req...)
	}

	res, err := tx.NewInsert().Model(&rows).On("CONFLICT (id) DO UPDATE").Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert colonies: %w", err)
	}
	n, _ := res.RowsAffected()

	if _, err := tx.NewDelete().Model((*models.ColonyMember)(nil)).Where("colony_id IN (?)", bun.In(ids)).Exec(ctx); err != nil {
		return 0, fmt.Errorf("clear colony members: %w", err)
	}
	if _, err := tx.NewDelete().Model((*models.ColonyRequest)(nil)).Where("colony_id IN (?)", bun.In(ids)).Exec(ctx); err != nil {
		return 0, fmt.Errorf("clear colony requests: %w", err)
	}
	if len(members) > 0 {
		if _, err := tx.NewInsert().Model(&members).Exec(ctx); err != nil {
			return 0, fmt.Errorf("insert colony members: %w", err)
		}
		n += int64(len(members))
	}
	if len(requests) > 0 {
		if _, err := tx.NewInsert().Model(&requests).Exec(ctx); err != nil {
			return 0, fmt.Errorf("insert colony requests: %w", err)
		}
		n += int64(len(requests))
	}
	return n, nil
}

// LoadState reads the whole ledger.
func (r *LedgerRepository) LoadState(ctx context.Context) (engine.State, error) {
	ctx, cancel := r.WithCustomTimeout(ctx, loadTimeout)
	defer cancel()

	ql := logger.NewQueryLogger("load", "ledger state")
	state, err := r.loadState(ctx)
	ql.Log(err, int64(len(state.Actors)+len(state.Assets)+len(state.Colonies)))
	if err != nil {
		return engine.State{}, r.HandleError("load", "ledger", err)
	}
	return state, nil
}

func (r *LedgerRepository) loadState(ctx context.Context) (engine.State, error) {
	var state engine.State

	var actorRows []*models.Actor
	if err := r.db.NewSelect().Model(&actorRows).Scan(ctx); err != nil {
		return state, fmt.Errorf("select actors: %w", err)
	}
	for _, m := range actorRows {
		state.Actors = append(state.Actors, actorFromRow(m))
	}

	var assetRows []*models.Asset
	if err := r.db.NewSelect().Model(&assetRows).Scan(ctx); err != nil {
		return state, fmt.Errorf("select assets: %w", err)
	}
	for _, m := range assetRows {
		a, err := assetFromRow(m)
		if err != nil {
			return state, err
		}
		state.Assets = append(state.Assets, a)
	}

	var colonyRows []*models.Colony
	if err := r.db.NewSelect().Model(&colonyRows).Order("id ASC").Scan(ctx); err != nil {
		return state, fmt.Errorf("select colonies: %w", err)
	}
	var memberRows []models.ColonyMember
	if err := r.db.NewSelect().Model(&memberRows).Order("colony_id ASC", "position ASC").Scan(ctx); err != nil {
		return state, fmt.Errorf("select colony members: %w", err)
	}
	var requestRows []models.ColonyRequest
	if err := r.db.NewSelect().Model(&requestRows).Scan(ctx); err != nil {
		return state, fmt.Errorf("select colony requests: %w", err)
	}

	members := make(map[uint64][]models.ColonyMember)
	for _, m := range memberRows {
		members[m.ColonyID] = append(members[m.ColonyID], m)
	}
	requests := make(map[uint64][]models.ColonyRequest)
	for _, req := range requestRows {
		requests[req.ColonyID] = append(requests[req.ColonyID], req)
	}
	for _, m := range colonyRows {
		c, err := colonyFromRows(m, members[m.ID], requests[m.ID])
		if err != nil {
			return state, err
		}
		state.Colonies = append(state.Colonies, c)
	}
	return state, nil
}
