package engine

import (
	"fmt"
	"log/slog"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
)

// ActivateEvent schedules ev. Activation fails while an event of the same kind is active.
func (e *Engine) ActivateEvent(ev catalog.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.tables.Load()
	next, err := snap.Schedule.Activate(ev)
	if err != nil {
		return err
	}
	e.tables.Swap(snap.WithSchedule(next))

	slog.Info("Event activated",
		slog.String("type", "sys"),
		slog.String("kind", ev.Kind.String()),
		slog.String("name", ev.Name))
	return nil
}

// DeactivateEvent clears the event of a kind.
func (e *Engine) DeactivateEvent(kind catalog.EventKind) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.tables.Load()
	e.tables.Swap(snap.WithSchedule(snap.Schedule.Deactivate(kind)))
}

// ExpireEvents deactivates every event past its end time and returns their kinds.
func (e *Engine) ExpireEvents() []catalog.EventKind {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.tables.Load()
	kinds := snap.Schedule.Expired(e.clock())
	if len(kinds) == 0 {
		return nil
	}
	schedule := snap.Schedule
	for _, kind := range kinds {
		schedule = schedule.Deactivate(kind)
	}
	e.tables.Swap(snap.WithSchedule(schedule))
	return kinds
}

// ReloadTables validates and publishes a new table snapshot.
func (e *Engine) ReloadTables(snap *catalog.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid tables: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.tables.Swap(snap)

	attrs := []any{
		slog.String("type", "sys"),
		slog.Int("version", snap.Bonus.Version),
		slog.Int("actions", len(snap.Actions)),
	}
	if prev != nil {
		attrs = append(attrs, slog.Int("previous_version", prev.Bonus.Version))
	}
	slog.Info("Tables reloaded", attrs...)
	return nil
}
