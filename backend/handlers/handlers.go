package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/ellavondegurechaff/stakeforge/backend/models"
	"github.com/ellavondegurechaff/stakeforge/backend/utils"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	dbmodels "github.com/ellavondegurechaff/stakeforge/internal/gateways/database/models"
	"github.com/gofiber/fiber/v2"
)

const (
	requestTimeout  = 10 * time.Second
	maxPreviewBatch = 100
)

type HistorySource interface {
	DailyActivity(ctx context.Context, actorID string, limit int) ([]dbmodels.DailyActivity, error)
	RecentActions(ctx context.Context, actorID string, limit int) ([]dbmodels.ActionReceipt, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Reloader interface {
	ReloadTables(ctx context.Context) error
}

// API serves the engine over HTTP. History, DB and Tables are optional.
type API struct {
	Engine  *engine.Engine
	History HistorySource
	DB      Pinger
	Tables  Reloader
	Version string
}

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

func parseActionID(s string) (catalog.ActionID, bool) {
	id, err := strconv.ParseUint(s, 10, 8)
	return catalog.ActionID(id), err == nil
}

// HealthCheck GET /api/health
func (a *API) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	health := models.NewHealthCheck(a.Version)
	if a.DB != nil {
		start := time.Now()
		if err := a.DB.Ping(ctx); err != nil {
			health.AddComponent("database", "unhealthy", err.Error(), nil)
		} else {
			health.AddComponent("database", "healthy", "", map[string]any{"ping_ms": time.Since(start).Milliseconds()})
		}
	}
	snap := a.Engine.Tables()
	health.AddComponent("tables", "healthy", "", map[string]any{
		"version": snap.Bonus.Version,
		"actions": len(snap.Actions),
	})

	status := fiber.StatusOK
	if health.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SendJSON(c, status, health)
}

// Eligibility GET /api/eligibility?actor=&asset=&action=
func (a *API) Eligibility(c *fiber.Ctx) error {
	actor := c.Query("actor")
	if actor == "" {
		return utils.SendBadRequest(c, "actor is required", nil)
	}
	key, err := assets.ParseKey(c.Query("asset"))
	if err != nil {
		return utils.SendDomainError(c, err)
	}
	action, ok := parseActionID(c.Query("action"))
	if !ok {
		return utils.SendBadRequest(c, "action must be a numeric action id", nil)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	el, err := a.Engine.CheckEligibility(ctx, actor, key, action)
	if err != nil {
		return utils.SendDomainError(c, err)
	}
	return utils.SendSuccess(c, models.NewEligibilityView(el), "")
}

// Preview POST /api/preview
func (a *API) Preview(c *fiber.Ctx) error {
	var req models.PreviewRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "invalid request body", nil)
	}
	if req.Actor == "" || len(req.Assets) == 0 {
		return utils.SendBadRequest(c, "actor and assets are required", nil)
	}
	if len(req.Assets) > maxPreviewBatch {
		return utils.SendBadRequest(c, "too many assets", map[string]string{"max": strconv.Itoa(maxPreviewBatch)})
	}

	keys := make([]assets.Key, len(req.Assets))
	for i, s := range req.Assets {
		key, err := assets.ParseKey(s)
		if err != nil {
			return utils.SendBadRequest(c, err.Error(), map[string]string{"index": strconv.Itoa(i)})
		}
		keys[i] = key
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	results, err := a.Engine.PreviewBatch(ctx, req.Actor, keys, catalog.ActionID(req.Action))
	if err != nil {
		return utils.SendDomainError(c, err)
	}
	views := make([]models.EligibilityView, len(results))
	for i, el := range results {
		views[i] = models.NewEligibilityView(el)
	}
	return utils.SendSuccess(c, views, "")
}

// PendingRewards GET /api/rewards/:key
func (a *API) PendingRewards(c *fiber.Ctx) error {
	key, err := assets.ParseKey(c.Params("key"))
	if err != nil {
		return utils.SendDomainError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	bd, err := a.Engine.PendingRewards(ctx, key)
	if err != nil {
		return utils.SendDomainError(c, err)
	}
	return utils.SendSuccess(c, models.NewBreakdownView(key, bd), "")
}

// ColonyBonus GET /api/colonies/:id/bonus
func (a *API) ColonyBonus(c *fiber.Ctx) error {
	id, err := colony.ParseColonyID(c.Params("id"))
	if err != nil {
		return utils.SendDomainError(c, err)
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	report, err := a.Engine.ColonyBonus(ctx, id)
	if err != nil {
		return utils.SendDomainError(c, err)
	}
	return utils.SendSuccess(c, models.NewColonyBonusView(report), "")
}

// Actor GET /api/actors/:id
func (a *API) Actor(c *fiber.Ctx) error {
	return utils.SendSuccess(c, models.NewActorView(a.Engine.Actor(c.Params("id"))), "")
}

// ActorHistory GET /api/actors/:id/history?limit=
func (a *API) ActorHistory(c *fiber.Ctx) error {
	if a.History == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "UNAVAILABLE", "history is not stored", nil)
	}
	actor := c.Params("id")
	limit := c.QueryInt("limit", 14)

	ctx, cancel := requestContext(c)
	defer cancel()

	days, err := a.History.DailyActivity(ctx, actor, limit)
	if err != nil {
		slog.Error("Failed to load daily activity", slog.String("type", "api"), slog.Any("error", err))
		return utils.SendInternalServerError(c, "failed to load history")
	}
	actions, err := a.History.RecentActions(ctx, actor, limit)
	if err != nil {
		slog.Error("Failed to load recent actions", slog.String("type", "api"), slog.Any("error", err))
		return utils.SendInternalServerError(c, "failed to load history")
	}
	return utils.SendSuccess(c, models.HistoryView{Days: days, Actions: actions}, "")
}

// ActivateEvent POST /api/admin/events
func (a *API) ActivateEvent(c *fiber.Ctx) error {
	var req models.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "invalid request body", nil)
	}
	ev, err := req.Event()
	if err != nil {
		return utils.SendBadRequest(c, err.Error(), nil)
	}
	if !ev.End.IsZero() && ev.End.Before(ev.Start) {
		return utils.SendBadRequest(c, "end is before start", nil)
	}
	if err := a.Engine.ActivateEvent(ev); err != nil {
		return utils.SendDomainError(c, err)
	}
	return utils.SendSuccess(c, fiber.Map{"kind": ev.Kind.String(), "name": ev.Name}, "event activated")
}

// DeactivateEvent DELETE /api/admin/events/:kind
func (a *API) DeactivateEvent(c *fiber.Ctx) error {
	kind, err := catalog.ParseEventKind(c.Params("kind"))
	if err != nil {
		return utils.SendBadRequest(c, err.Error(), nil)
	}
	a.Engine.DeactivateEvent(kind)
	return utils.SendSuccess(c, fiber.Map{"kind": kind.String()}, "event deactivated")
}

// ReloadTables POST /api/admin/tables/reload
func (a *API) ReloadTables(c *fiber.Ctx) error {
	if a.Tables == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "UNAVAILABLE", "no table source configured", nil)
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := a.Tables.ReloadTables(ctx); err != nil {
		slog.Error("Table reload failed", slog.String("type", "api"), slog.Any("error", err))
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "RELOAD_FAILED", err.Error(), nil)
	}
	return utils.SendSuccess(c, fiber.Map{"version": a.Engine.Tables().Bonus.Version}, "tables reloaded")
}
