package catalog

import (
	"errors"
	"fmt"
	"time"
)

// EventKind distinguishes the independently scheduled modifiers.
type EventKind uint8

const (
	// KindSeason carries the season charge boost and reward multiplier.
	KindSeason EventKind = iota + 1
	// KindGlobal boosts charge regeneration for every asset.
	KindGlobal
	// KindColony is the colony-scoped event: shared daily cap, colony window, cooldown override.
	KindColony
)

func (k EventKind) String() string {
	switch k {
	case KindSeason:
		return "season"
	case KindGlobal:
		return "global"
	case KindColony:
		return "colony"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseEventKind maps a name back to an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	for _, k := range []EventKind{KindSeason, KindGlobal, KindColony} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

var ErrEventActive = errors.New("an event of this kind is already active")

// Event is a time-boxed modifier.
type Event struct {
	Kind   EventKind
	Name   string
	Start  time.Time
	End    time.Time
	Active bool

	// Multiplier is a percent applied to accrued rewards (season) ; 0 means neutral.
	Multiplier int
	// ChargeBoost is a percent bonus on action rewards (season).
	ChargeBoost int
	// RegenBonus is a percent bonus on charge regeneration (global).
	RegenBonus int

	// DailyCap is the shared weighted-activity cap while a colony event is open.
	DailyCap int
	// CooldownOverride replaces the base cooldown of OverrideCategory while open.
	CooldownOverride time.Duration
	OverrideCategory Category
}

// Open reports whether the event is flagged active and now is inside [Start, End].
// A zero End means the event runs until deactivated.
func (e *Event) Open(now time.Time) bool {
	if e == nil || !e.Active {
		return false
	}
	if now.Before(e.Start) {
		return false
	}
	return e.End.IsZero() || !now.After(e.End)
}

// Schedule holds at most one event per kind.
type Schedule struct {
	events map[EventKind]Event
}

// NewSchedule builds a schedule from events; later duplicates of an active kind are rejected.
func NewSchedule(events ...Event) (Schedule, error) {
	s := Schedule{events: make(map[EventKind]Event, len(events))}
	for _, ev := range events {
		if !ev.Active {
			if _, exists := s.events[ev.Kind]; !exists {
				s.events[ev.Kind] = ev
			}
			continue
		}
		next, err := s.Activate(ev)
		if err != nil {
			return Schedule{}, err
		}
		s = next
	}
	return s, nil
}

// Get returns the event of a kind, if any.
func (s Schedule) Get(kind EventKind) (*Event, bool) {
	ev, ok := s.events[kind]
	if !ok {
		return nil, false
	}
	return &ev, true
}

// Open returns the event of a kind only when it is currently open.
func (s Schedule) Open(kind EventKind, now time.Time) (*Event, bool) {
	ev, ok := s.Get(kind)
	if !ok || !ev.Open(now) {
		return nil, false
	}
	return ev, true
}

// Activate returns a copy of the schedule with ev active. Activation is refused while an
// event of the same kind is still flagged active.
func (s Schedule) Activate(ev Event) (Schedule, error) {
	if cur, ok := s.events[ev.Kind]; ok && cur.Active {
		return s, fmt.Errorf("%w: %s %q", ErrEventActive, ev.Kind, cur.Name)
	}
	ev.Active = true
	next := s.clone()
	next.events[ev.Kind] = ev
	return next, nil
}

// Deactivate returns a copy of the schedule with the kind's event cleared.
func (s Schedule) Deactivate(kind EventKind) Schedule {
	next := s.clone()
	delete(next.events, kind)
	return next
}

// Expired lists kinds whose events are active but past their end time.
func (s Schedule) Expired(now time.Time) []EventKind {
	var kinds []EventKind
	for kind, ev := range s.events {
		if ev.Active && !ev.End.IsZero() && now.After(ev.End) {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Events returns all scheduled events.
func (s Schedule) Events() []Event {
	out := make([]Event, 0, len(s.events))
	for _, kind := range []EventKind{KindSeason, KindGlobal, KindColony} {
		if ev, ok := s.events[kind]; ok {
			out = append(out, ev)
		}
	}
	return out
}

func (s Schedule) clone() Schedule {
	next := Schedule{events: make(map[EventKind]Event, len(s.events)+1)}
	for k, v := range s.events {
		next.events[k] = v
	}
	return next
}
