package colony

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

const today int64 = 20522

type statsMap map[assets.Key]MemberStats

func (m statsMap) MemberStats(_ context.Context, key assets.Key) MemberStats {
	return m[key]
}

func filledColony(id uint64, n int, stats statsMap, fn func(i int) MemberStats) *Colony {
	c := New(id, "test", "creator", Criteria{}, today, now)
	for i := 0; i < n; i++ {
		key := assets.KeyOf(id, uint64(i+1))
		c.add(key)
		if fn != nil {
			stats[key] = fn(i)
		}
	}
	return c
}

func assertIndexConsistent(t *testing.T, c *Colony) {
	t.Helper()
	if len(c.index) != len(c.members) {
		t.Fatalf("index has %d entries for %d members", len(c.index), len(c.members))
	}
	for i, k := range c.members {
		if c.index[k] != i+1 {
			t.Fatalf("index[%s] = %d, want %d", assets.FormatKey(k), c.index[k], i+1)
		}
	}
}

func TestColony_SwapAndPop(t *testing.T) {
	c := filledColony(1, 5, statsMap{}, nil)
	k2, k5 := assets.KeyOf(1, 2), assets.KeyOf(1, 5)

	if !c.remove(k2) {
		t.Fatal("remove() of a member returned false")
	}
	if c.Member(1) != k5 {
		t.Errorf("last member was not moved into the freed slot")
	}
	assertIndexConsistent(t, c)

	if c.remove(k2) {
		t.Error("second remove() returned true")
	}
	for _, k := range c.Members() {
		c.remove(k)
		assertIndexConsistent(t, c)
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d after removing everyone", c.Size())
	}
}

func TestSampleSize(t *testing.T) {
	tests := []struct{ n, want int }{
		{0, 0}, {7, 7}, {10, 10}, {11, 10}, {49, 10}, {50, 10}, {60, 12}, {100, 20}, {5000, 20},
	}
	for _, tt := range tests {
		if got := SampleSize(tt.n); got != tt.want {
			t.Errorf("SampleSize(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSampleIndices_DistinctAndDeterministic(t *testing.T) {
	for _, n := range []int{1, 9, 10, 23, 49, 50, 77, 100, 1000} {
		for _, id := range []uint64{1, 2, 42, 1 << 40} {
			first := SampleIndices(id, n)
			second := SampleIndices(id, n)
			seen := make(map[int]bool, len(first))
			for i, idx := range first {
				if idx < 0 || idx >= n {
					t.Fatalf("n=%d id=%d: index %d out of range", n, id, idx)
				}
				if seen[idx] {
					t.Fatalf("n=%d id=%d: index %d selected twice", n, id, idx)
				}
				seen[idx] = true
				if second[i] != idx {
					t.Fatalf("n=%d id=%d: selection not reproducible", n, id)
				}
			}
			if len(first) != SampleSize(n) {
				t.Fatalf("n=%d: %d indices, want %d", n, len(first), SampleSize(n))
			}
		}
	}
}

func TestSampler_UniformVariantColony(t *testing.T) {
	stats := statsMap{}
	c := filledColony(7, 7, stats, func(int) MemberStats {
		return MemberStats{Level: 20, Variant: 3}
	})

	res := NewSampler(stats).Bonus(context.Background(), c)
	if res.Valid != 7 || res.Diversity != 0 {
		t.Fatalf("Bonus() = %+v, want 7 valid samples and no diversity", res)
	}
	// calibration 6.5, accessory 0, variant 12 -> weighted 5
	if res.Weighted != 5 || res.Bonus != 15 {
		t.Errorf("Bonus() = %+v, want weighted 5 bonus 15", res)
	}
}

func TestSampler_Diversity(t *testing.T) {
	stats := statsMap{}
	c := filledColony(3, 4, stats, func(i int) MemberStats {
		return MemberStats{Level: 10, Variant: i + 1}
	})

	res := NewSampler(stats).Bonus(context.Background(), c)
	if res.Diversity != 5 || res.Weighted != 4 || res.Bonus != 19 {
		t.Errorf("Bonus() = %+v, want weighted 4 diversity 5 bonus 19", res)
	}
}

func TestSampler_DiversityNeedsThreeSamples(t *testing.T) {
	stats := statsMap{}
	c := filledColony(3, 2, stats, func(i int) MemberStats {
		return MemberStats{Level: 10, Variant: i + 1}
	})
	if res := NewSampler(stats).Bonus(context.Background(), c); res.Diversity != 0 {
		t.Errorf("Diversity = %d with two samples", res.Diversity)
	}
}

func TestSampler_SkipsInvalidMembers(t *testing.T) {
	stats := statsMap{}
	c := filledColony(9, 6, stats, func(i int) MemberStats {
		if i%2 == 0 {
			return MemberStats{}
		}
		return MemberStats{Level: 20, Variant: 3}
	})

	res := NewSampler(stats).Bonus(context.Background(), c)
	if res.Sampled != 6 || res.Valid != 3 {
		t.Errorf("Bonus() = %+v, want 6 sampled 3 valid", res)
	}
	if res.Bonus != 15 {
		t.Errorf("Bonus = %d, want invalid members excluded from averages", res.Bonus)
	}

	ghost := filledColony(10, 4, statsMap{}, nil)
	if got := NewSampler(statsMap{}).Bonus(context.Background(), ghost).Bonus; got != MinimalBonus {
		t.Errorf("all-invalid colony Bonus = %d, want %d", got, MinimalBonus)
	}
}

func TestSampler_EmptyAndMissing(t *testing.T) {
	r := NewRegistry()
	c := r.Create("empty", "creator", Criteria{}, today, now)
	s := NewSampler(statsMap{})

	if got := s.BonusOf(context.Background(), r, c.ID); got != MinimalBonus {
		t.Errorf("empty colony bonus = %d, want %d", got, MinimalBonus)
	}
	if got := s.BonusOf(context.Background(), r, 999); got != 0 {
		t.Errorf("missing colony bonus = %d, want 0", got)
	}
}

func TestSampler_Reproducible(t *testing.T) {
	stats := statsMap{}
	c := filledColony(11, 237, stats, func(i int) MemberStats {
		return MemberStats{
			Level:       i % 60,
			Variant:     i%4 + 1,
			Accessories: make([]assets.Accessory, i%3),
		}
	})
	s := NewSampler(stats)
	first := s.Bonus(context.Background(), c)
	if second := s.Bonus(context.Background(), c); first != second {
		t.Errorf("Bonus() not reproducible: %+v vs %+v", first, second)
	}
	if first.Sampled != 20 {
		t.Errorf("Sampled = %d, want 20", first.Sampled)
	}
}

func TestScore_Accessories(t *testing.T) {
	s := Score(MemberStats{Level: 1, Variant: 1, Accessories: []assets.Accessory{
		{Rare: true, StakingBoost: 5},
		{Rare: true},
		{},
	}})
	// 7 + 5 + 2
	if s.Accessory != 140 {
		t.Errorf("Accessory = %d, want 140", s.Accessory)
	}

	many := make([]assets.Accessory, 8)
	for i := range many {
		many[i] = assets.Accessory{Rare: true, StakingBoost: 1}
	}
	if s := Score(MemberStats{Level: 1, Variant: 1, Accessories: many}); s.Accessory != 150 {
		t.Errorf("Accessory = %d, want cap 150", s.Accessory)
	}
}

func TestRegistry_JoinLeave(t *testing.T) {
	r := NewRegistry()
	c := r.Create("miners", "alice", Criteria{MinLevel: 5}, today, now)

	low := assets.NewAsset(1, 1, "bob", 2, 1, now)
	if _, err := r.Join(c.ID, low, 1, now); !errors.Is(err, ErrCriteria) {
		t.Errorf("Join(low level) error = %v, want ErrCriteria", err)
	}

	a := assets.NewAsset(1, 2, "bob", 8, 2, now)
	joined, err := r.Join(c.ID, a, 2, now)
	if err != nil || !joined {
		t.Fatalf("Join() = %v, %v", joined, err)
	}
	if id, ok := r.ColonyOf(a.Key); !ok || id != c.ID || a.ColonyID != c.ID {
		t.Errorf("reverse index = %d,%v asset.ColonyID = %d", id, ok, a.ColonyID)
	}

	other := r.Create("rivals", "carol", Criteria{}, today, now)
	if _, err := r.Join(other.ID, a, 2, now); !errors.Is(err, ErrAlreadyMember) {
		t.Errorf("second Join() error = %v, want ErrAlreadyMember", err)
	}

	left, err := r.Leave(a)
	if err != nil || left != c.ID {
		t.Fatalf("Leave() = %d, %v", left, err)
	}
	if _, ok := r.ColonyOf(a.Key); ok || a.ColonyID != 0 || c.Contains(a.Key) {
		t.Error("asset still linked after Leave()")
	}
	if _, err := r.Leave(a); !errors.Is(err, ErrNotMember) {
		t.Errorf("second Leave() error = %v", err)
	}
}

func TestRegistry_Approval(t *testing.T) {
	r := NewRegistry()
	c := r.Create("guarded", "alice", Criteria{RequireApproval: true}, today, now)
	a := assets.NewAsset(2, 1, "bob", 3, 1, now)

	joined, err := r.Join(c.ID, a, 1, now)
	if err != nil || joined {
		t.Fatalf("Join() = %v, %v; want pending", joined, err)
	}
	if !c.IsPending(a.Key) {
		t.Fatal("request not recorded")
	}
	if err := r.Approve(c.ID, "bob", a); !errors.Is(err, ErrNotCreator) {
		t.Errorf("Approve(by member) error = %v", err)
	}
	if err := r.Approve(c.ID, "alice", a); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if !c.Contains(a.Key) || c.IsPending(a.Key) {
		t.Error("approved asset not admitted")
	}
}

func TestRegistry_HealthDecay(t *testing.T) {
	r := NewRegistry()
	c := r.Create("sleepy", "alice", Criteria{}, today, now)

	if changed := r.Decay(today + 1); len(changed) != 0 {
		t.Errorf("grace day decayed health to %d", c.Health)
	}
	r.Decay(today + 3)
	if c.Health != 90 {
		t.Errorf("Health = %d, want 90", c.Health)
	}
	if changed := r.Decay(today + 3); len(changed) != 0 {
		t.Error("Decay() not idempotent within a day")
	}

	r.Touch(c.ID, today+4, 5)
	r.Decay(today + 5)
	if c.Health != 90 {
		t.Errorf("Health = %d after activity, want 90", c.Health)
	}

	r.Decay(today + 100)
	if c.Health != 0 {
		t.Errorf("Health = %d, want clamp at 0", c.Health)
	}
	if got := c.EffectiveBonus(25); got != 0 {
		t.Errorf("EffectiveBonus() of a dead colony = %d", got)
	}

	if _, err := r.RestoreHealth(c.ID, 250); err != nil || c.Health != MaxHealth {
		t.Errorf("RestoreHealth() = %d, %v", c.Health, err)
	}
}

func TestRegistry_EffectiveBonus(t *testing.T) {
	r := NewRegistry()
	c := r.Create("strong", "alice", Criteria{}, today, now)
	s := NewSampler(statsMap{})

	c.Health = 50
	if got := s.EffectiveBonus(context.Background(), r, c.ID); got != 5 {
		t.Errorf("EffectiveBonus() = %d, want 5", got)
	}
	if _, err := r.SetOverride(c.ID, 40); err != nil {
		t.Fatal(err)
	}
	if got := s.EffectiveBonus(context.Background(), r, c.ID); got != 20 {
		t.Errorf("EffectiveBonus() with override = %d, want 20", got)
	}
}

func TestRegistry_ReplaceRollsBack(t *testing.T) {
	r := NewRegistry()
	c := r.Create("rollback", "alice", Criteria{}, today, now)
	before := c.Clone()

	a := assets.NewAsset(3, 1, "bob", 3, 1, now)
	if _, err := r.Join(c.ID, a, 1, now); err != nil {
		t.Fatal(err)
	}
	r.Replace(before)

	if _, ok := r.ColonyOf(a.Key); ok {
		t.Error("reverse index kept a rolled back member")
	}
	got, _ := r.Get(c.ID)
	if got.Size() != 0 {
		t.Errorf("Size() = %d after rollback", got.Size())
	}
}

func TestParseColonyID(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "7", want: 7},
		{in: "#12", want: 12},
		{in: " 3 ", want: 3},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseColonyID(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidColonyID) {
				t.Errorf("ParseColonyID(%q) error = %v, want ErrInvalidColonyID", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseColonyID(%q) = %d, %v, want %d", tt.in, got, err, tt.want)
		}
	}
}
