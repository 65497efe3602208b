// Package emergence implements the threshold-gated stochastic model that
// decides when a tier's accumulated infrastructure produces a rare
// high-tier specialist. It consumes aggregate statistics and nothing else;
// the rest of the engine works without it.
//
// Successes at high tiers are meant to be extremely rare — expected
// waiting times run to thousands or millions of simulated years.
package emergence

import (
	"fmt"
	"math/rand"

	"github.com/talgya/macrocosm/internal/tuning"
)

// Stats is the aggregate input a caller supplies when checking a tier.
type Stats struct {
	Population float64
	// Institutions is the count of dedicated research institutions.
	Institutions int
	// PeerSpecialists is the accumulated pool at the tier immediately
	// below the requested one.
	PeerSpecialists int
	// StableYears is the scaled years of sustained stability.
	StableYears float64
	// ResearchOutput is the active research throughput per scaled year.
	ResearchOutput float64
}

// Specialist is a newly emerged specialist record.
type Specialist struct {
	Tier        int    `json:"tier"`
	EmergedTick uint64 `json:"emerged_tick"`
}

// Probability computes the per-period emergence probability for specialist
// tier n. The base rate is multiplied by a factor for each satisfied
// infrastructure condition. Emergence additionally requires an
// already-accumulated pool of at least PoolMultiple tier-(n−1)
// specialists — tiers cannot be skipped, so a missing pool means zero
// regardless of every other input.
func Probability(n int, s Stats, t tuning.EmergenceTuning) (float64, error) {
	if n < 1 {
		return 0, fmt.Errorf("emergence: specialist tier must be >= 1, got %d", n)
	}

	// Hard step: no tier-(n−1) pool, no tier-n emergence. Tier 1 draws
	// its pool from the general researcher population instead.
	if n > 1 && float64(s.PeerSpecialists) < t.PoolMultiple {
		return 0, nil
	}

	p := t.BaseChance
	if float64(s.Institutions) >= t.InstitutionsPerTier*float64(n) {
		p *= t.FactorBonus
	}
	if n > 1 && float64(s.PeerSpecialists) >= t.PoolMultiple*2 {
		p *= t.FactorBonus
	}
	if s.StableYears >= t.StabilityYearsPerTier*float64(n) {
		p *= t.FactorBonus
	}
	if s.ResearchOutput >= t.ResearchPerTier*float64(n) {
		p *= t.FactorBonus
	}

	// Probability per period decays with tier: each tier is an order of
	// magnitude harder than the one below it.
	for i := 1; i < n; i++ {
		p /= 10
	}

	if p > 0.5 {
		p = 0.5
	}
	return p, nil
}

// Check draws once against the computed probability for specialist tier n.
// On success it returns the new specialist record; otherwise nil. The
// caller owns appending the record to the tier's specialist-pool counts.
func Check(n int, tick uint64, s Stats, rng *rand.Rand, t tuning.EmergenceTuning) (*Specialist, error) {
	p, err := Probability(n, s, t)
	if err != nil {
		return nil, err
	}
	if p <= 0 || rng.Float64() >= p {
		return nil, nil
	}
	return &Specialist{Tier: n, EmergedTick: tick}, nil
}
