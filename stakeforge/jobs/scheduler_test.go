package jobs

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
)

type failingReloader struct{ calls int }

func (r *failingReloader) ReloadTables(context.Context) error {
	r.calls++
	return errors.New("bucket unreachable")
}

func TestJobs_DriveEngine(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	e := engine.New(catalog.NewStore(catalog.DefaultSnapshot()), assets.NewSafeProvider(nil), engine.WithClock(clock))

	if _, err := e.CreateColony(context.Background(), "u1", "quiet", colony.Criteria{}); err != nil {
		t.Fatal(err)
	}
	season := catalog.Event{Kind: catalog.KindSeason, Name: "winter", Start: now, End: now.Add(time.Hour), Multiplier: 120}
	if err := e.ActivateEvent(season); err != nil {
		t.Fatal(err)
	}

	if n := DecayColonies(e); n != 0 {
		t.Errorf("DecayColonies() on day of creation = %d, want 0", n)
	}
	if kinds := ExpireEvents(e); len(kinds) != 0 {
		t.Errorf("ExpireEvents() before end = %v", kinds)
	}

	now = now.Add(3 * 24 * time.Hour)
	if n := DecayColonies(e); n != 1 {
		t.Errorf("DecayColonies() after three days = %d, want 1", n)
	}
	if kinds := ExpireEvents(e); !reflect.DeepEqual(kinds, []catalog.EventKind{catalog.KindSeason}) {
		t.Errorf("ExpireEvents() = %v, want [season]", kinds)
	}
}

func TestReloadTables_Failure(t *testing.T) {
	r := &failingReloader{}
	if ReloadTables(r) {
		t.Error("ReloadTables() reported success")
	}
	if r.calls != 1 {
		t.Errorf("calls = %d, want 1", r.calls)
	}
}
