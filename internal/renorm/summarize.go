package renorm

import (
	"fmt"

	"github.com/talgya/macrocosm/internal/tier"
)

// Summarize coarse-grains a tier's current state into a digest in a single
// pass. For an active tier the collaborator's rollup must have been folded
// in first (FoldRollup); everything not captured by the digest — exact
// positions, individual relationships, moment-to-moment behavior — is
// discarded permanently. That loss is the design, not a caching bug.
func (e *Engine) Summarize(n *tier.Node, tick uint64) (tier.Summary, error) {
	if n == nil {
		return tier.Summary{}, fmt.Errorf("renorm: nil tier")
	}
	if n.Mode == tier.ModeActive {
		return tier.Summary{}, fmt.Errorf("renorm: tier %s is active; fold the entity rollup and transition before summarizing", n.ID)
	}

	s := tier.Summary{
		TierID:           n.ID,
		Tick:             tick,
		Level:            n.Level,
		Population:       n.Pop.Count,
		GrowthRate:       n.Pop.GrowthRate,
		CarryingCapacity: n.Pop.CarryingCapacity,
		Stability:        n.Stab.Stability,
		Infrastructure:   n.Stab.Infrastructure,
		TechLevel:        n.Tech.Level,
		Research:         n.Tech.Research,
		Stockpiles:       make(map[tier.Resource]float64, len(n.Econ.Stockpiles)),
		Beliefs:          make(map[string]tier.BeliefShare, len(n.Beliefs)),
	}
	for r, v := range n.Econ.Stockpiles {
		s.Stockpiles[r] = v
	}
	for id, b := range n.Beliefs {
		s.Beliefs[id] = tier.BeliefShare{
			Believers:    b.Believers,
			Temples:      b.Temples,
			RecentEvents: b.RecentEvents,
		}
	}
	// Highlights survive verbatim; the node list is already capped.
	s.Highlights = append(s.Highlights, n.Highlights...)

	e.cacheSummary(s)
	return s, nil
}
