package adapters

import (
	"fmt"

	"github.com/talgya/macrocosm/internal/tier"
)

// Adapter refreshes one parent tier from its children. There is one
// adapter per concrete-to-abstract boundary; ForLevel hands out the right
// one for a target level. The level set is closed, so the switch below is
// exhaustive on purpose.
type Adapter struct {
	Target tier.Level
	cache  *memoCache
}

// ForLevel returns the adapter for building tiers of the given level.
// Levels below Zone are leaf-import territory and have no adapter.
func ForLevel(target tier.Level) (*Adapter, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("adapters: invalid target level %d", target)
	}
	if target < tier.LevelZone {
		return nil, fmt.Errorf("adapters: level %s is built by leaf import, not aggregation", target)
	}
	return &Adapter{Target: target, cache: newMemoCache()}, nil
}

// Build constructs a new parent node of the adapter's target level owning
// the given children, then refreshes its statistics from them. At least
// one child is required.
func (a *Adapter) Build(name string, children []*tier.Node, tick uint64) (*tier.Node, error) {
	if len(children) == 0 {
		return nil, fmt.Errorf("adapters: cannot build %s %q from zero children", a.Target, name)
	}
	n, err := tier.NewNode(name, a.Target)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		if err := n.AddChild(c); err != nil {
			return nil, err
		}
	}
	a.attachExtension(n)
	if _, err := a.Refresh(n, tick); err != nil {
		return nil, err
	}
	return n, nil
}

// Refresh aggregates the node's children into its statistics and rebuilds
// derived infrastructure. Results are memoized by (tier id, tick, child
// count); repeated queries within a tick reuse the cached pass.
func (a *Adapter) Refresh(n *tier.Node, tick uint64) (Aggregation, error) {
	if n == nil {
		return Aggregation{}, fmt.Errorf("adapters: nil node")
	}
	if n.Level != a.Target {
		return Aggregation{}, fmt.Errorf("adapters: %s adapter cannot refresh %s node %s", a.Target, n.Level, n.ID)
	}
	if len(n.Children) == 0 {
		return Aggregation{}, fmt.Errorf("adapters: node %s has no children to aggregate", n.ID)
	}

	key := cacheKey{tierID: n.ID, tick: tick, childCount: len(n.Children)}
	if agg, ok := a.cache.get(key); ok {
		return agg, nil
	}

	agg := aggregate(n, tick)

	// Level-specific derivations. Closed world: every level the adapter
	// can target appears here.
	switch a.Target {
	case tier.LevelZone, tier.LevelRegion, tier.LevelPlanet:
		// Surface scales trade over land and sea; no route modeling
		// below spacefaring tech.
	case tier.LevelSystem:
		agg.TradeRoutes = buildTradeRoutes(n.Children)
	case tier.LevelSector:
		agg.TradeRoutes = buildTradeRoutes(n.Children)
		agg.Civs = buildCivilizations(n.Children)
	case tier.LevelGalaxy:
		agg.TradeRoutes = buildTradeRoutes(n.Children)
		agg.Wormholes = buildWormholes(n.Children)
		agg.Civs = buildCivilizations(n.Children)
	default:
		return Aggregation{}, fmt.Errorf("adapters: unhandled target level %s", a.Target)
	}

	apply(n, agg)
	if ext, ok := n.Ext.(*tier.GalaxyExt); ok {
		ext.Civilizations = agg.Civs
	}

	a.cache.put(key, agg)
	return agg, nil
}

// attachExtension gives freshly built nodes their level-specific data.
func (a *Adapter) attachExtension(n *tier.Node) {
	switch n.Level {
	case tier.LevelSystem:
		n.Ext = &tier.SystemExt{Star: tier.StarClassG, Luminosity: 1.0, HabZoneIn: 0.9, HabZoneOut: 1.5}
	case tier.LevelGalaxy:
		n.Ext = &tier.GalaxyExt{}
	}
}
