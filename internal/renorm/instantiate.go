package renorm

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/talgya/macrocosm/internal/tier"
)

// mandatoryCap bounds the named entities a zoom-in can demand of the
// population generator.
const mandatoryCap = 8

// Instantiate derives generation constraints from the tier's summary for
// the external population-generation collaborator. The summary is computed
// lazily if this tick has none. Constraint generation is pure and
// deterministic given the same summary and seed; the collaborator's
// output is under no such obligation.
func (e *Engine) Instantiate(n *tier.Node, tick uint64, seed int64) (tier.Constraints, error) {
	if n == nil {
		return tier.Constraints{}, fmt.Errorf("renorm: nil tier")
	}
	s, ok := e.CachedSummary(n.ID, tick)
	if !ok {
		var err error
		s, err = e.Summarize(n, tick)
		if err != nil {
			return tier.Constraints{}, err
		}
	}
	if !s.Valid() {
		return tier.Constraints{}, fmt.Errorf("renorm: tier %s has no valid summary to instantiate from", n.ID)
	}

	rng := rand.New(rand.NewSource(seed))

	// Target population jitters within ±0.5% of the digest — regeneration
	// is statistically consistent, never an exact inverse.
	jitter := 1 + (rng.Float64()-0.5)*0.01
	target := int64(s.Population * jitter)
	if target < 0 {
		target = 0
	}

	c := tier.Constraints{
		TierID:           n.ID,
		Seed:             seed,
		TargetPopulation: target,
		AvgSkillLevel:    float64(s.TechLevel),
		Stability:        s.Stability,
		BeliefShares:     make(map[string]float64, len(s.Beliefs)),
	}
	if s.Population > 0 {
		for id, share := range s.Beliefs {
			c.BeliefShares[id] = share.Believers / s.Population
		}
	}

	// Mandatory named entities: flagged highlights first, then by
	// salience, capped.
	mandatory := append([]tier.Highlight(nil), s.Highlights...)
	sort.SliceStable(mandatory, func(i, j int) bool {
		if mandatory[i].Flagged != mandatory[j].Flagged {
			return mandatory[i].Flagged
		}
		return mandatory[i].Salience > mandatory[j].Salience
	})
	if len(mandatory) > mandatoryCap {
		mandatory = mandatory[:mandatoryCap]
	}
	c.Mandatory = mandatory

	return c, nil
}
