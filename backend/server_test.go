package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ellavondegurechaff/stakeforge/backend/handlers"
	"github.com/ellavondegurechaff/stakeforge/backend/models"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	dbmodels "github.com/ellavondegurechaff/stakeforge/internal/gateways/database/models"
	"github.com/gofiber/fiber/v2"
)

const testKey = "s3cret"

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubHistory struct{}

func (stubHistory) DailyActivity(_ context.Context, actorID string, _ int) ([]dbmodels.DailyActivity, error) {
	return []dbmodels.DailyActivity{{ActorID: actorID, Day: 20522, RawCount: 3}}, nil
}

func (stubHistory) RecentActions(context.Context, string, int) ([]dbmodels.ActionReceipt, error) {
	return nil, nil
}

func newTestServer(t *testing.T, db handlers.Pinger) (*fiber.App, *engine.Engine) {
	t.Helper()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := engine.New(catalog.NewStore(catalog.DefaultSnapshot()), assets.NewSafeProvider(nil),
		engine.WithClock(func() time.Time { return now }))
	if _, err := e.RegisterAsset(context.Background(), "u1", 1, 7, 5); err != nil {
		t.Fatal(err)
	}
	api := &handlers.API{Engine: e, History: stubHistory{}, DB: db, Version: "test"}
	return NewServer(api, Options{APIKey: testKey}), e
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, models.APIResponse) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out models.APIResponse
	_ = json.Unmarshal(body, &out)
	return resp.StatusCode, out
}

func TestServer_Routes(t *testing.T) {
	app, _ := newTestServer(t, stubPinger{})

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		apiKey   string
		wantCode int
		wantErr  string
	}{
		{name: "Health", method: http.MethodGet, path: "/api/health", wantCode: http.StatusOK},
		{name: "Eligible", method: http.MethodGet, path: "/api/eligibility?actor=u1&asset=1:7&action=1", wantCode: http.StatusOK},
		{name: "EligibilityBadAsset", method: http.MethodGet, path: "/api/eligibility?actor=u1&asset=nope&action=1", wantCode: http.StatusBadRequest},
		{name: "EligibilityMissingActor", method: http.MethodGet, path: "/api/eligibility?asset=1:7&action=1", wantCode: http.StatusBadRequest},
		{name: "Rewards", method: http.MethodGet, path: "/api/rewards/1:7", wantCode: http.StatusOK},
		{name: "RewardsUnknownAsset", method: http.MethodGet, path: "/api/rewards/9:9", wantCode: http.StatusNotFound, wantErr: "NOT_FOUND"},
		{name: "ColonyMissing", method: http.MethodGet, path: "/api/colonies/3/bonus", wantCode: http.StatusNotFound},
		{name: "ColonyInvalidID", method: http.MethodGet, path: "/api/colonies/zero/bonus", wantCode: http.StatusBadRequest},
		{name: "Preview", method: http.MethodPost, path: "/api/preview", body: `{"actor":"u1","assets":["1:7","2:2"],"action":1}`, wantCode: http.StatusOK},
		{name: "PreviewEmpty", method: http.MethodPost, path: "/api/preview", body: `{"actor":"u1","assets":[]}`, wantCode: http.StatusBadRequest},
		{name: "History", method: http.MethodGet, path: "/api/actors/u1/history", wantCode: http.StatusOK},
		{name: "AdminNoKey", method: http.MethodPost, path: "/api/admin/events", body: `{}`, wantCode: http.StatusUnauthorized},
		{name: "AdminBadKind", method: http.MethodPost, path: "/api/admin/events", body: `{"kind":"eclipse"}`, apiKey: testKey, wantCode: http.StatusBadRequest},
		{name: "AdminReloadNoSource", method: http.MethodPost, path: "/api/admin/tables/reload", apiKey: testKey, wantCode: http.StatusServiceUnavailable},
		{name: "UnknownRoute", method: http.MethodGet, path: "/api/nothing", wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}

			code, resp := do(t, app, req)
			if code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.wantCode, resp.Error)
			}
			if tt.wantErr != "" && (resp.Error == nil || resp.Error.Code != tt.wantErr) {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestServer_HealthUnhealthy(t *testing.T) {
	app, _ := newTestServer(t, stubPinger{err: errors.New("connection refused")})

	code, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", code)
	}
}

func TestServer_EventLifecycle(t *testing.T) {
	app, e := newTestServer(t, nil)

	body := `{"kind":"season","name":"spring","start":"2026-03-10T00:00:00Z","end":"2026-03-20T00:00:00Z","multiplier":150}`
	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/events", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+testKey)
		code, _ := do(t, app, req)
		return code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("activate status = %d", code)
	}
	if _, ok := e.Tables().Schedule.Open(catalog.KindSeason, e.Now()); !ok {
		t.Fatal("season not open after activation")
	}
	if code := post(); code != http.StatusConflict {
		t.Errorf("second activate status = %d, want 409", code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/events/season", nil)
	req.Header.Set("X-API-Key", testKey)
	if code, _ := do(t, app, req); code != http.StatusOK {
		t.Errorf("deactivate status = %d", code)
	}
	if _, ok := e.Tables().Schedule.Get(catalog.KindSeason); ok {
		t.Error("season still scheduled after deactivation")
	}
}

func TestServer_ActorHistory(t *testing.T) {
	app, _ := newTestServer(t, stubPinger{})

	code, resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/actors/u7/history?limit=5", nil))
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%+v)", code, resp.Error)
	}
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %T, want object", resp.Data)
	}
	days, ok := data["days"].([]any)
	if !ok || len(days) != 1 {
		t.Fatalf("days = %v, want one entry from the history source", data["days"])
	}
	if day, _ := days[0].(map[string]any); day["ActorID"] != "u7" {
		t.Errorf("day = %v, want ActorID u7", day)
	}
}

func TestServer_ActorHistoryWithoutStore(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	e := engine.New(catalog.NewStore(catalog.DefaultSnapshot()), assets.NewSafeProvider(nil),
		engine.WithClock(func() time.Time { return now }))
	app := NewServer(&handlers.API{Engine: e, Version: "test"}, Options{})

	if code, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/actors/u1/history", nil)); code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", code)
	}
}
