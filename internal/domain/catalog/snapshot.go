package catalog

import (
	"fmt"
	"sync/atomic"
)

// Snapshot is one immutable version of the game tables. Computations receive a *Snapshot
// and never observe a mix of two versions.
type Snapshot struct {
	Actions  map[ActionID]ActionType
	Bonus    BonusConfig
	Schedule Schedule
	// GlobalMultiplier is a percent applied to every payout; 0 is treated as 100.
	GlobalMultiplier int
}

// Action looks up an action type.
func (s *Snapshot) Action(id ActionID) (ActionType, bool) {
	a, ok := s.Actions[id]
	return a, ok
}

// Multiplier returns the global multiplier with the neutral default applied.
func (s *Snapshot) Multiplier() int {
	if s.GlobalMultiplier <= 0 {
		return 100
	}
	return s.GlobalMultiplier
}

// WithSchedule returns a shallow copy of the snapshot with a new schedule.
func (s *Snapshot) WithSchedule(schedule Schedule) *Snapshot {
	next := *s
	next.Schedule = schedule
	return &next
}

// Validate reports table inconsistencies. Lookups already fail safe; Validate exists so
// that operators see the problem when loading a table file.
func (s *Snapshot) Validate() error {
	b := s.Bonus
	if len(b.WearThresholds) != len(b.WearPenalties) {
		return fmt.Errorf("wear thresholds (%d) and penalties (%d) differ in length", len(b.WearThresholds), len(b.WearPenalties))
	}
	if len(b.LoyaltyThresholds) != len(b.LoyaltyBonuses) {
		return fmt.Errorf("loyalty thresholds (%d) and bonuses (%d) differ in length", len(b.LoyaltyThresholds), len(b.LoyaltyBonuses))
	}
	if len(b.DecayShareThresholds) != len(b.DecayMultipliers) {
		return fmt.Errorf("decay thresholds (%d) and multipliers (%d) differ in length", len(b.DecayShareThresholds), len(b.DecayMultipliers))
	}
	for id, a := range s.Actions {
		if id != a.ID {
			return fmt.Errorf("action %d stored under id %d", a.ID, id)
		}
		if a.BaseCooldown < 0 || a.SmartFloor < 0 {
			return fmt.Errorf("action %d has a negative cooldown", id)
		}
	}
	return nil
}

// Store publishes the current snapshot. Readers Load once per call sequence.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding snap.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}

// Swap publishes a new snapshot and returns the previous one.
func (s *Store) Swap(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}
