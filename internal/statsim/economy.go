// Stockpile integration: production minus consumption minus decay.
package statsim

import (
	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// InfrastructureFactor derives a production multiplier in [0.5, 1.5] from
// a tier's stability metrics.
func InfrastructureFactor(s tier.Stability) float64 {
	return 0.5 + s.Stability/200 + s.Infrastructure/200
}

// UpdateEconomy integrates each stockpile over dt scaled years:
// stock += (production − consumption)·dt − decay·dt, with production and
// consumption scaled by the tech-efficiency and infrastructure factors.
// The returned flag reports that a non-finite or negative stockpile was
// clamped to zero.
func UpdateEconomy(e tier.Economy, techLevel int, stab tier.Stability, tech tuning.TechnologyTuning, econ tuning.EconomyTuning, dt float64) (tier.Economy, bool) {
	eff := Efficiency(techLevel, tech)
	infra := InfrastructureFactor(stab)
	clamped := false

	for _, r := range trackedResources(e) {
		flow := (e.Production[r] - e.Consumption[r]) * eff * infra * dt
		next := e.Stockpiles[r] + flow - e.Stockpiles[r]*econ.DecayRate*dt
		if !finite(next) || next < 0 {
			next = 0
			clamped = true
		}
		e.Stockpiles[r] = next
	}
	return e, clamped
}

// trackedResources returns the union of resource kinds present in any of
// the economy's maps, so a resource produced but never stocked still gets
// integrated.
func trackedResources(e tier.Economy) []tier.Resource {
	seen := make(map[tier.Resource]bool)
	var out []tier.Resource
	for _, m := range []map[tier.Resource]float64{e.Stockpiles, e.Production, e.Consumption} {
		for r := range m {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}
