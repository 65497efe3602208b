// Package renorm is the renormalization engine: it coarse-grains detailed
// tiers into statistical digests (summarize), derives generation
// constraints from digests on zoom-in (instantiate), and advances every
// abstract tier with the statistical simulator, strictly bottom-up.
package renorm

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/talgya/macrocosm/internal/adapters"
	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// Engine orchestrates summarize / instantiate / statistical ticks over a
// hierarchy. It holds per-tick caches only — tier nodes own all durable
// state.
type Engine struct {
	Tuning tuning.Tuning

	rng *rand.Rand

	adaptMu sync.Mutex
	adapt   map[tier.Level]*adapters.Adapter

	// Summary cache keyed by (tier id, tick); the window is the latest
	// tick only, invalidated implicitly when the tick advances.
	sumMu     sync.Mutex
	sumTick   uint64
	summaries map[tier.NodeID]tier.Summary
}

// New creates an engine with the given tuning and event-roll seed.
func New(t tuning.Tuning, seed int64) *Engine {
	return &Engine{
		Tuning:    t,
		rng:       rand.New(rand.NewSource(seed)),
		adapt:     make(map[tier.Level]*adapters.Adapter),
		summaries: make(map[tier.NodeID]tier.Summary),
	}
}

// adapterFor returns the shared adapter for a level, creating it on first
// use so its memo cache persists across ticks.
func (e *Engine) adapterFor(level tier.Level) (*adapters.Adapter, error) {
	e.adaptMu.Lock()
	defer e.adaptMu.Unlock()
	if a, ok := e.adapt[level]; ok {
		return a, nil
	}
	a, err := adapters.ForLevel(level)
	if err != nil {
		return nil, err
	}
	e.adapt[level] = a
	return a, nil
}

// CachedSummary returns the summary computed for the tier at the given
// tick, if any.
func (e *Engine) CachedSummary(id tier.NodeID, tick uint64) (tier.Summary, bool) {
	e.sumMu.Lock()
	defer e.sumMu.Unlock()
	if e.sumTick != tick {
		return tier.Summary{}, false
	}
	s, ok := e.summaries[id]
	return s, ok
}

func (e *Engine) cacheSummary(s tier.Summary) {
	e.sumMu.Lock()
	defer e.sumMu.Unlock()
	if s.Tick != e.sumTick {
		e.summaries = make(map[tier.NodeID]tier.Summary)
		e.sumTick = s.Tick
	}
	e.summaries[s.TierID] = s
}

// Rollup is the statistics bundle the entity-simulation collaborator
// reports for an active tier before it can be summarized.
type Rollup struct {
	Population float64
	Stockpiles map[tier.Resource]float64
	Stability  float64
	TechLevel  int
	// Notables are named entities the collaborator flags as significant;
	// they join the tier's preserved highlights.
	Notables []tier.Highlight
}

// FoldRollup writes a collaborator rollup into the tier's statistics
// fields so summarize sees the same shape it would on an abstract tier.
func FoldRollup(n *tier.Node, r Rollup) error {
	if n == nil {
		return fmt.Errorf("renorm: nil tier")
	}
	if r.Population < 0 {
		return fmt.Errorf("renorm: rollup for %s has negative population", n.ID)
	}
	n.Pop.Count = r.Population
	n.Stab.Stability = r.Stability
	if r.TechLevel > n.Tech.Level {
		n.Tech.Level = r.TechLevel
	}
	for res, v := range r.Stockpiles {
		n.Econ.Stockpiles[res] = v
	}
	for _, h := range r.Notables {
		n.PreserveHighlight(h)
	}
	return nil
}
