// Research accumulation and technology level advancement.
package statsim

import (
	"math"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// LevelCost is the research cost to advance from the given level:
// baseCost × (level+1)^1.5.
func LevelCost(level int, t tuning.TechnologyTuning) float64 {
	return t.BaseCost * math.Pow(float64(level+1), 1.5)
}

// Efficiency returns the production multiplier for the given tech level.
func Efficiency(level int, t tuning.TechnologyTuning) float64 {
	return 1 + t.EfficiencyPerLevel*float64(level)
}

// UpdateTech accumulates researchers × perCapitaRate × dt research points
// and consumes them into level advancements.
func UpdateTech(tech tier.Tech, population float64, t tuning.TechnologyTuning, dt float64) tier.Tech {
	researchers := population * t.ResearcherShare
	gained := researchers * t.PerCapitaRate * dt
	if finite(gained) && gained > 0 {
		tech.Research += gained
	}

	if tech.NextLevelCost <= 0 {
		tech.NextLevelCost = LevelCost(tech.Level, t)
	}
	for tech.Research >= tech.NextLevelCost {
		tech.Research -= tech.NextLevelCost
		tech.Level++
		tech.NextLevelCost = LevelCost(tech.Level, t)
	}
	return tech
}
