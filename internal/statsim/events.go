// Random event rolls. Ordinary rare events can hit any tier; mega-events
// are rolled independently at sector level and above only.
package statsim

import (
	"fmt"
	"math/rand"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

var calmEvents = []string{
	"a generation of plenty lifts %s",
	"a renaissance of learning spreads through %s",
	"trade festivals draw crowds across %s",
}

var crisisEvents = []string{
	"plague sweeps through %s",
	"famine grips %s",
	"unrest boils over in %s",
	"a great fire guts the heart of %s",
}

var megaEvents = []string{
	"a supernova scours the outer colonies of %s",
	"first contact with an unknown intelligence shakes %s",
	"a gamma-ray burst darkens half the worlds of %s",
}

// EventChance returns the per-tick rare-event probability for a tier at
// the given stability. Low stability raises the chance, up to double the
// base rate at stability 0.
func EventChance(stability float64, t tuning.EventTuning) float64 {
	chance := t.BaseChance * (2 - stability/100)
	if chance < 0 {
		return 0
	}
	return chance
}

// RollEvents rolls the tier's per-tick event dice. At LevelSector and above
// the much rarer mega-event category is rolled independently of the
// ordinary one, so a single tick can yield both.
func RollEvents(name string, level tier.Level, stability float64, tick uint64, rng *rand.Rand, t tuning.EventTuning) []tier.Event {
	var events []tier.Event

	if level >= tier.LevelSector && rng.Float64() < t.MegaChance {
		events = append(events, tier.Event{
			Tick:        tick,
			Description: fmt.Sprintf(megaEvents[rng.Intn(len(megaEvents))], name),
			Category:    "mega",
			Mega:        true,
		})
	}

	if rng.Float64() < EventChance(stability, t) {
		// Stable tiers draw fortunate events, unstable ones crises.
		pool := crisisEvents
		category := "crisis"
		if stability >= 60 {
			pool = calmEvents
			category = "golden_age"
		}
		events = append(events, tier.Event{
			Tick:        tick,
			Description: fmt.Sprintf(pool[rng.Intn(len(pool))], name),
			Category:    category,
		})
	}
	return events
}
