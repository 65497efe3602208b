// Package statsim is a library of pure statistical update functions. Each
// takes a tier's relevant state slice and an elapsed scaled time and
// returns the next state slice, at O(1) cost no matter how large the
// population it stands in for. Every function clamps away non-finite
// results instead of propagating them.
package statsim

import (
	"math"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// EffectiveCapacity returns the tier's carrying capacity after the fixed
// per-technology-level bonus.
func EffectiveCapacity(base float64, techLevel int, t tuning.PopulationTuning) float64 {
	return base * (1 + t.TechCapacityBonus*float64(techLevel))
}

// EffectiveGrowthRate modulates the base rate into [0.5r, 1.5r] by a
// stability-derived happiness factor. Below the decline threshold the
// rate goes negative and the population shrinks.
func EffectiveGrowthRate(stability float64, t tuning.PopulationTuning) float64 {
	if stability < t.DeclineStability {
		// Linear decline: zero at the threshold, -r at stability 0.
		return t.BaseGrowthRate * (stability - t.DeclineStability) / t.DeclineStability
	}
	return t.BaseGrowthRate * (0.5 + stability/100)
}

// UpdatePopulation advances logistic growth dP/dt = r·P·(1 − P/K) over dt
// scaled years. minPop is the level's documented floor. The returned flag
// reports that a degenerate result (non-finite, negative, or zero
// capacity) was clamped and growth reset for this tick.
func UpdatePopulation(p tier.Population, stability float64, techLevel int, minPop float64, t tuning.PopulationTuning, dt float64) (tier.Population, bool) {
	k := EffectiveCapacity(p.CarryingCapacity, techLevel, t)
	if k <= 0 || !finite(k) {
		// Zero capacity is expected during hierarchy construction;
		// clamp rather than divide by it.
		p.Count = math.Max(p.Count, minPop)
		if !finite(p.Count) {
			p.Count = minPop
		}
		p.GrowthRate = 0
		return p, true
	}

	r := EffectiveGrowthRate(stability, t)
	next := p.Count + r*p.Count*(1-p.Count/k)*dt

	if !finite(next) || next < 0 {
		p.Count = minPop
		p.GrowthRate = 0
		return p, true
	}
	if next < minPop {
		next = minPop
	}
	p.Count = next
	p.GrowthRate = r
	return p, false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
