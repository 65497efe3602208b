// Trade routes and wormhole networks connecting a node's children.
package adapters

import (
	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// Route is a derived connection between two sibling tiers.
type Route struct {
	A        tier.NodeID `json:"a"`
	B        tier.NodeID `json:"b"`
	Strength float64     `json:"strength"`
}

// routeProximity is how far apart two children may sit in their parent's
// child order and still trade. Child order stands in for spatial layout at
// scales where exact positions were summarized away.
const routeProximity = 2

// buildTradeRoutes connects pairs of spacefaring-capable children that are
// close in the child order and within two tech levels of each other.
func buildTradeRoutes(children []*tier.Node) []Route {
	var routes []Route
	for i, a := range children {
		if a.Tech.Level < tuning.SpacefaringTechLevel {
			continue
		}
		for j := i + 1; j < len(children) && j-i <= routeProximity; j++ {
			b := children[j]
			if b.Tech.Level < tuning.SpacefaringTechLevel {
				continue
			}
			if diff := a.Tech.Level - b.Tech.Level; diff > 2 || diff < -2 {
				continue
			}
			strength := minFloat(a.Pop.Count, b.Pop.Count)
			routes = append(routes, Route{A: a.ID, B: b.ID, Strength: strength})
		}
	}
	return routes
}

// buildWormholes links every pair of FTL-capable children. Wormhole
// transit ignores proximity — that is the point of it.
func buildWormholes(children []*tier.Node) []Route {
	var ftl []*tier.Node
	for _, c := range children {
		if c.Tech.Level >= tuning.FTLTechLevel {
			ftl = append(ftl, c)
		}
	}
	var holes []Route
	for i, a := range ftl {
		for _, b := range ftl[i+1:] {
			holes = append(holes, Route{A: a.ID, B: b.ID, Strength: float64(minInt(a.Tech.Level, b.Tech.Level))})
		}
	}
	return holes
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
