package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/logger"
	"github.com/go-co-op/gocron/v2"
)

// Maintainer is the part of the engine the periodic jobs drive.
type Maintainer interface {
	DecayColonies(ctx context.Context) (int, error)
	ExpireEvents() []catalog.EventKind
}

// Reloader re-reads the game tables.
type Reloader interface {
	ReloadTables(ctx context.Context) error
}

type Scheduler struct {
	s gocron.Scheduler
}

// Start schedules colony decay, event expiry and, when reloadEvery is positive, table
// reloads. Every job runs in singleton mode so a slow run is never overlapped.
func Start(m Maintainer, r Reloader, reloadEvery time.Duration) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	jobs := []struct {
		name  string
		every time.Duration
		run   func()
	}{
		{"colony-decay", config.ColonyDecayInterval, func() { DecayColonies(m) }},
		{"event-expiry", config.EventExpiryInterval, func() { ExpireEvents(m) }},
	}
	if reloadEvery > 0 && r != nil {
		jobs = append(jobs, struct {
			name  string
			every time.Duration
			run   func()
		}{"table-reload", reloadEvery, func() { ReloadTables(r) }})
	}

	for _, j := range jobs {
		if _, err := s.NewJob(
			gocron.DurationJob(j.every),
			gocron.NewTask(j.run),
			gocron.WithName(j.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			_ = s.Shutdown()
			return nil, fmt.Errorf("failed to schedule %s: %w", j.name, err)
		}
		logger.LogSystem("Job scheduled", slog.String("job", j.name), slog.Duration("every", j.every))
	}

	s.Start()
	return &Scheduler{s: s}, nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

// DecayColonies applies colony health decay and returns how many colonies changed.
func DecayColonies(m Maintainer) int {
	ctx, cancel := context.WithTimeout(context.Background(), config.JobTimeout)
	defer cancel()

	n, err := m.DecayColonies(ctx)
	if err != nil {
		logger.LogError("Colony decay failed", err)
		return 0
	}
	return n
}

// ExpireEvents deactivates events past their end.
func ExpireEvents(m Maintainer) []catalog.EventKind {
	kinds := m.ExpireEvents()
	for _, k := range kinds {
		logger.LogSystem("Event expired", slog.String("kind", k.String()))
	}
	return kinds
}

func ReloadTables(r Reloader) bool {
	ctx, cancel := context.WithTimeout(context.Background(), config.JobTimeout)
	defer cancel()

	if err := r.ReloadTables(ctx); err != nil {
		logger.LogError("Table reload failed", err)
		return false
	}
	return true
}
