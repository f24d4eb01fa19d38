package rewards

import (
	"math"
	"math/bits"
)

// mulDiv returns v*num/den computed in 128 bits. Negative inputs yield 0 and results
// saturate at math.MaxInt64.
func mulDiv(v, num, den int64) int64 {
	if v <= 0 || num <= 0 || den <= 0 {
		return 0
	}
	hi, lo := bits.Mul64(uint64(v), uint64(num))
	if hi >= uint64(den) {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, uint64(den))
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(q)
}

// scale multiplies v by pct/100.
func scale(v int64, pct int) int64 {
	return mulDiv(v, int64(pct), 100)
}

// bonus multiplies v by (100+pct)/100. Negative bonuses count as zero.
func bonus(v int64, pct int) int64 {
	if pct <= 0 {
		return v
	}
	return mulDiv(v, 100+int64(pct), 100)
}

// penalty multiplies v by (100-pct)/100 with pct clamped to [0, 100].
func penalty(v int64, pct int) int64 {
	pct = clamp(pct, 0, 100)
	if pct == 0 {
		return v
	}
	return mulDiv(v, 100-int64(pct), 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// capped bounds a bonus to [0, limit]; a non-positive limit leaves it uncapped.
func capped(v, limit int) int {
	if v < 0 {
		return 0
	}
	if limit > 0 && v > limit {
		return limit
	}
	return v
}

// fatiguePenalty is half of the fatigue above 50, as a percent.
func fatiguePenalty(fatigue int) int {
	if fatigue <= fatigueThreshold {
		return 0
	}
	return (min(fatigue, 100) - fatigueThreshold) / 2
}

// chargeEfficiency maps a charge level onto 50..100 percent.
func chargeEfficiency(current, maxCharge int) int {
	if maxCharge <= 0 {
		return 100
	}
	current = clamp(current, 0, maxCharge)
	return 50 + current*50/maxCharge
}

const fatigueThreshold = 50
