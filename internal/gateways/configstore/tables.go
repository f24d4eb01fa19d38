package configstore

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks a format from a file name, defaulting to TOML.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Duration reads Go duration strings ("90s", "12h") in both formats.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

type dailyLimitEntry struct {
	Base             int `toml:"base" yaml:"base"`
	ProgressionStep  int `toml:"progression_step" yaml:"progression_step"`
	ProgressionBonus int `toml:"progression_bonus" yaml:"progression_bonus"`
	Max              int `toml:"max" yaml:"max"`
}

type actionEntry struct {
	ID               uint8           `toml:"id" yaml:"id"`
	Name             string          `toml:"name" yaml:"name"`
	Category         string          `toml:"category" yaml:"category"`
	Cooldown         Duration        `toml:"cooldown" yaml:"cooldown"`
	SmartFloor       Duration        `toml:"smart_floor" yaml:"smart_floor"`
	Difficulty       int             `toml:"difficulty" yaml:"difficulty"`
	RewardMultiplier int             `toml:"reward_multiplier" yaml:"reward_multiplier"`
	ChargeCost       int             `toml:"charge_cost" yaml:"charge_cost"`
	DailyLimit       dailyLimitEntry `toml:"daily_limit" yaml:"daily_limit"`
	WindowStart      int64           `toml:"window_start,omitempty" yaml:"window_start,omitempty"`
	WindowEnd        int64           `toml:"window_end,omitempty" yaml:"window_end,omitempty"`
}

type capsEntry struct {
	Level          int `toml:"level" yaml:"level"`
	Variant        int `toml:"variant" yaml:"variant"`
	Specialization int `toml:"specialization" yaml:"specialization"`
	Equipment      int `toml:"equipment" yaml:"equipment"`
	Colony         int `toml:"colony" yaml:"colony"`
	Loyalty        int `toml:"loyalty" yaml:"loyalty"`
	Time           int `toml:"time" yaml:"time"`
	Combined       int `toml:"combined" yaml:"combined"`
}

type timeBonusEntry struct {
	MinHours int `toml:"min_hours" yaml:"min_hours"`
	PerDay   int `toml:"per_day" yaml:"per_day"`
	Max      int `toml:"max" yaml:"max"`
}

type bonusEntry struct {
	BaseRatePerHour      int64          `toml:"base_rate_per_hour" yaml:"base_rate_per_hour"`
	LevelBonusPerLevel   int            `toml:"level_bonus_per_level" yaml:"level_bonus_per_level"`
	VariantBonuses       []int          `toml:"variant_bonuses" yaml:"variant_bonuses"`
	SpecializationBonus  int            `toml:"specialization_bonus" yaml:"specialization_bonus"`
	WearThresholds       []int          `toml:"wear_thresholds" yaml:"wear_thresholds"`
	WearPenalties        []int          `toml:"wear_penalties" yaml:"wear_penalties"`
	WearPerDay           int            `toml:"wear_per_day" yaml:"wear_per_day"`
	LoyaltyThresholds    []Duration     `toml:"loyalty_thresholds" yaml:"loyalty_thresholds"`
	LoyaltyBonuses       []int          `toml:"loyalty_bonuses" yaml:"loyalty_bonuses"`
	DecayShareThresholds []int          `toml:"decay_share_thresholds" yaml:"decay_share_thresholds"`
	DecayMultipliers     []int          `toml:"decay_multipliers" yaml:"decay_multipliers"`
	TimeBonus            timeBonusEntry `toml:"time_bonus" yaml:"time_bonus"`
	Caps                 capsEntry      `toml:"caps" yaml:"caps"`
	ApplyWearToActions   bool           `toml:"apply_wear_to_actions" yaml:"apply_wear_to_actions"`
}

type eventEntry struct {
	Kind             string    `toml:"kind" yaml:"kind"`
	Name             string    `toml:"name" yaml:"name"`
	Start            time.Time `toml:"start" yaml:"start"`
	End              time.Time `toml:"end,omitempty" yaml:"end,omitempty"`
	Active           bool      `toml:"active" yaml:"active"`
	Multiplier       int       `toml:"multiplier,omitempty" yaml:"multiplier,omitempty"`
	ChargeBoost      int       `toml:"charge_boost,omitempty" yaml:"charge_boost,omitempty"`
	RegenBonus       int       `toml:"regen_bonus,omitempty" yaml:"regen_bonus,omitempty"`
	DailyCap         int       `toml:"daily_cap,omitempty" yaml:"daily_cap,omitempty"`
	CooldownOverride Duration  `toml:"cooldown_override,omitempty" yaml:"cooldown_override,omitempty"`
	OverrideCategory string    `toml:"override_category,omitempty" yaml:"override_category,omitempty"`
}

// tableFile is the on-disk shape of a table document.
type tableFile struct {
	Version          int           `toml:"version" yaml:"version"`
	GlobalMultiplier int           `toml:"global_multiplier" yaml:"global_multiplier"`
	Actions          []actionEntry `toml:"actions" yaml:"actions"`
	Bonus            bonusEntry    `toml:"bonus" yaml:"bonus"`
	Events           []eventEntry  `toml:"events,omitempty" yaml:"events,omitempty"`
}

// Decode parses a table document and returns a validated snapshot.
func Decode(data []byte, format Format) (*catalog.Snapshot, error) {
	var f tableFile
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &f)
	default:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s tables: %w", format, err)
	}

	snap, err := f.snapshot()
	if err != nil {
		return nil, err
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tables: %w", err)
	}
	return snap, nil
}

// Encode renders a snapshot as a table document.
func Encode(snap *catalog.Snapshot, format Format) ([]byte, error) {
	f := fileFromSnapshot(snap)
	if format == FormatYAML {
		return yaml.Marshal(f)
	}
	return toml.Marshal(f)
}

func (f *tableFile) snapshot() (*catalog.Snapshot, error) {
	if len(f.Actions) == 0 {
		return nil, fmt.Errorf("table file defines no actions")
	}

	actions := make(map[catalog.ActionID]catalog.ActionType, len(f.Actions))
	for _, a := range f.Actions {
		id := catalog.ActionID(a.ID)
		if _, dup := actions[id]; dup {
			return nil, fmt.Errorf("action %d defined twice", a.ID)
		}
		category, err := catalog.ParseCategory(a.Category)
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", a.ID, err)
		}
		actions[id] = catalog.ActionType{
			ID:               id,
			Name:             a.Name,
			Category:         category,
			BaseCooldown:     time.Duration(a.Cooldown),
			SmartFloor:       time.Duration(a.SmartFloor),
			Difficulty:       a.Difficulty,
			RewardMultiplier: a.RewardMultiplier,
			ChargeCost:       a.ChargeCost,
			DailyLimit:       catalog.DailyLimit(a.DailyLimit),
			Window:           catalog.TimeWindow{Start: a.WindowStart, End: a.WindowEnd},
		}
	}

	events := make([]catalog.Event, 0, len(f.Events))
	for _, e := range f.Events {
		kind, err := catalog.ParseEventKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("event %q: %w", e.Name, err)
		}
		ev := catalog.Event{
			Kind:             kind,
			Name:             e.Name,
			Start:            e.Start,
			End:              e.End,
			Active:           e.Active,
			Multiplier:       e.Multiplier,
			ChargeBoost:      e.ChargeBoost,
			RegenBonus:       e.RegenBonus,
			DailyCap:         e.DailyCap,
			CooldownOverride: time.Duration(e.CooldownOverride),
		}
		if e.OverrideCategory != "" {
			if ev.OverrideCategory, err = catalog.ParseCategory(e.OverrideCategory); err != nil {
				return nil, fmt.Errorf("event %q: %w", e.Name, err)
			}
		}
		events = append(events, ev)
	}
	schedule, err := catalog.NewSchedule(events...)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}

	b := f.Bonus
	loyalty := make([]time.Duration, len(b.LoyaltyThresholds))
	for i, d := range b.LoyaltyThresholds {
		loyalty[i] = time.Duration(d)
	}

	return &catalog.Snapshot{
		Actions: actions,
		Bonus: catalog.BonusConfig{
			Version:              f.Version,
			BaseRatePerHour:      b.BaseRatePerHour,
			LevelBonusPerLevel:   b.LevelBonusPerLevel,
			VariantBonuses:       b.VariantBonuses,
			SpecializationBonus:  b.SpecializationBonus,
			WearThresholds:       b.WearThresholds,
			WearPenalties:        b.WearPenalties,
			WearPerDay:           b.WearPerDay,
			LoyaltyThresholds:    loyalty,
			LoyaltyBonuses:       b.LoyaltyBonuses,
			DecayShareThresholds: b.DecayShareThresholds,
			DecayMultipliers:     b.DecayMultipliers,
			TimeBonus:            catalog.TimeBonus(b.TimeBonus),
			Caps:                 catalog.Caps(b.Caps),
			ApplyWearToActions:   b.ApplyWearToActions,
		},
		Schedule:         schedule,
		GlobalMultiplier: f.GlobalMultiplier,
	}, nil
}

func fileFromSnapshot(snap *catalog.Snapshot) tableFile {
	b := snap.Bonus
	f := tableFile{
		Version:          b.Version,
		GlobalMultiplier: snap.GlobalMultiplier,
		Bonus: bonusEntry{
			BaseRatePerHour:      b.BaseRatePerHour,
			LevelBonusPerLevel:   b.LevelBonusPerLevel,
			VariantBonuses:       b.VariantBonuses,
			SpecializationBonus:  b.SpecializationBonus,
			WearThresholds:       b.WearThresholds,
			WearPenalties:        b.WearPenalties,
			WearPerDay:           b.WearPerDay,
			LoyaltyBonuses:       b.LoyaltyBonuses,
			DecayShareThresholds: b.DecayShareThresholds,
			DecayMultipliers:     b.DecayMultipliers,
			TimeBonus:            timeBonusEntry(b.TimeBonus),
			Caps:                 capsEntry(b.Caps),
			ApplyWearToActions:   b.ApplyWearToActions,
		},
	}
	for _, d := range b.LoyaltyThresholds {
		f.Bonus.LoyaltyThresholds = append(f.Bonus.LoyaltyThresholds, Duration(d))
	}

	ids := make([]int, 0, len(snap.Actions))
	for id := range snap.Actions {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		a := snap.Actions[catalog.ActionID(id)]
		f.Actions = append(f.Actions, actionEntry{
			ID:               uint8(a.ID),
			Name:             a.Name,
			Category:         a.Category.String(),
			Cooldown:         Duration(a.BaseCooldown),
			SmartFloor:       Duration(a.SmartFloor),
			Difficulty:       a.Difficulty,
			RewardMultiplier: a.RewardMultiplier,
			ChargeCost:       a.ChargeCost,
			DailyLimit:       dailyLimitEntry(a.DailyLimit),
			WindowStart:      a.Window.Start,
			WindowEnd:        a.Window.End,
		})
	}

	for _, ev := range snap.Schedule.Events() {
		e := eventEntry{
			Kind:             ev.Kind.String(),
			Name:             ev.Name,
			Start:            ev.Start,
			End:              ev.End,
			Active:           ev.Active,
			Multiplier:       ev.Multiplier,
			ChargeBoost:      ev.ChargeBoost,
			RegenBonus:       ev.RegenBonus,
			DailyCap:         ev.DailyCap,
			CooldownOverride: Duration(ev.CooldownOverride),
		}
		if ev.OverrideCategory != 0 {
			e.OverrideCategory = ev.OverrideCategory.String()
		}
		f.Events = append(f.Events, e)
	}
	return f
}
