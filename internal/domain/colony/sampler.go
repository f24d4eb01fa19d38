package colony

import (
	"context"
	"encoding/binary"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	fullScanLimit   = 10
	smallSampleSize = 10
	largeColony     = 50
	maxSampleSize   = 20

	calibrationWeight = 45
	accessoryWeight   = 30
	variantWeight     = 25

	maxCalibration     = 160 // tenths
	maxAccessoryPoints = 15
	maxExtraBonus      = 40
)

// variantScores is the progressive variant score for variants 1..4.
var variantScores = [...]int{0, 3, 7, 12, 18}

// MemberStats are the attributes the sampler scores.
type MemberStats struct {
	Level       int
	Variant     int
	Accessories []assets.Accessory
}

// StatsSource resolves member stats. Missing or failed lookups return zero stats.
type StatsSource interface {
	MemberStats(ctx context.Context, key assets.Key) MemberStats
}

// Sampler derives a colony's quality bonus from a deterministic, evenly spaced subset
// of its members.
type Sampler struct {
	stats StatsSource
}

func NewSampler(stats StatsSource) *Sampler {
	return &Sampler{stats: stats}
}

// SampleSize returns how many of n members are scored.
func SampleSize(n int) int {
	switch {
	case n <= fullScanLimit:
		return n
	case n < largeColony:
		return smallSampleSize
	default:
		return min(n/5, maxSampleSize)
	}
}

// SampleIndices selects member positions as (offset + i*step) mod n with the offset
// derived from the colony id. Indices are distinct because step*size <= n.
func SampleIndices(colonyID uint64, n int) []int {
	size := SampleSize(n)
	if size == 0 {
		return nil
	}
	step := n / size
	offset := Offset(colonyID, n)

	out := make([]int, size)
	for i := range out {
		out[i] = (offset + i*step) % n
	}
	return out
}

// Offset is the sampling start position for a colony of n members.
func Offset(colonyID uint64, n int) int {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], colonyID)
	h := crypto.Keccak256(buf[:])
	return int(binary.BigEndian.Uint64(h[24:]) % uint64(n))
}

// Scores are one member's scores, in tenths of a point.
type Scores struct {
	Calibration int
	Accessory   int
	Variant     int
}

func (s Scores) valid() bool {
	return s.Calibration != 0 || s.Accessory != 0 || s.Variant != 0
}

// Score computes a member's scores: calibration is level/10 + variant*1.5 (max 16),
// accessories earn 2 each plus 3 if rare and 2 with a staking boost (max 15), and
// the variant score follows a fixed table.
func Score(m MemberStats) Scores {
	var s Scores
	if m.Level > 0 || m.Variant > 0 {
		s.Calibration = min(max(m.Level, 0)+variantScore(m.Variant, 15), maxCalibration)
	}
	points := 0
	for i, acc := range m.Accessories {
		if i == assets.MaxAccessories {
			break
		}
		points += 2
		if acc.Rare {
			points += 3
		}
		if acc.StakingBoost > 0 {
			points += 2
		}
	}
	s.Accessory = min(points, maxAccessoryPoints) * 10
	if m.Variant >= assets.MinVariant && m.Variant <= assets.MaxVariant {
		s.Variant = variantScores[m.Variant] * 10
	}
	return s
}

func variantScore(variant, per int) int {
	if variant < assets.MinVariant || variant > assets.MaxVariant {
		return 0
	}
	return variant * per
}

// DiversityBonus rewards mixed variants: 2 distinct -> 1, 3 -> 3, 4 or more -> 5.
func DiversityBonus(distinct int) int {
	switch {
	case distinct >= 4:
		return 5
	case distinct == 3:
		return 3
	case distinct == 2:
		return 1
	default:
		return 0
	}
}

// Result is the outcome of one sampling pass.
type Result struct {
	Sampled   int
	Valid     int
	Weighted  int
	Diversity int
	Bonus     int
}

// Bonus returns the sampled quality bonus of c: 10 for an empty colony, otherwise
// 10 + min(weighted + diversity, 40).
func (s *Sampler) Bonus(ctx context.Context, c *Colony) Result {
	if c == nil {
		return Result{}
	}
	n := c.Size()
	if n == 0 {
		return Result{Bonus: MinimalBonus}
	}

	var cal, acc, vari, valid int
	variants := make(map[int]struct{}, assets.MaxVariant)
	indices := SampleIndices(c.ID, n)
	for _, i := range indices {
		m := s.stats.MemberStats(ctx, c.Member(i))
		sc := Score(m)
		if !sc.valid() {
			continue
		}
		valid++
		cal += sc.Calibration
		acc += sc.Accessory
		vari += sc.Variant
		if m.Variant >= assets.MinVariant && m.Variant <= assets.MaxVariant {
			variants[m.Variant] = struct{}{}
		}
	}

	res := Result{Sampled: len(indices), Valid: valid, Bonus: MinimalBonus}
	if valid == 0 {
		return res
	}
	cal /= valid
	acc /= valid
	vari /= valid

	res.Weighted = (cal*calibrationWeight + acc*accessoryWeight + vari*variantWeight) / 100 / 10
	if valid >= 3 {
		res.Diversity = DiversityBonus(len(variants))
	}
	res.Bonus = MinimalBonus + min(res.Weighted+res.Diversity, maxExtraBonus)
	return res
}

// BonusOf resolves a colony id through the registry. A missing colony scores 0.
func (s *Sampler) BonusOf(ctx context.Context, r *Registry, id uint64) int {
	c, ok := r.Get(id)
	if !ok {
		return 0
	}
	return s.Bonus(ctx, c).Bonus
}

// EffectiveBonus is the colony bonus used by the gate and accrual: override or sampled
// bonus, scaled by health. A missing colony yields 0.
func (s *Sampler) EffectiveBonus(ctx context.Context, r *Registry, id uint64) int {
	c, ok := r.Get(id)
	if !ok {
		return 0
	}
	if c.BonusOverride > 0 {
		return c.EffectiveBonus(0)
	}
	return c.EffectiveBonus(s.Bonus(ctx, c).Bonus)
}
