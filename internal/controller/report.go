// Periodic aggregate reporting over the whole hierarchy.
package controller

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/macrocosm/internal/tier"
)

// reportEvery is the tick cadence of the aggregate log report.
const reportEvery = 100

// Stats is an aggregate view over every tier in every root subtree.
type Stats struct {
	Tick            uint64  `json:"tick"`
	Tiers           int     `json:"tiers"`
	TotalPopulation float64 `json:"total_population"`
	MaxTechLevel    int     `json:"max_tech_level"`
	ActiveTier      string  `json:"active_tier,omitempty"`
	Events          int     `json:"events"`
}

// WorldStats walks the hierarchy and returns current aggregates. Root
// statistics already fold in their descendants, so population and tech
// come from the roots; tier and event counts need the full walk.
func (c *Controller) WorldStats() Stats {
	s := Stats{Tick: c.Tick, ActiveTier: string(c.activeID)}
	for _, root := range c.Roots {
		s.TotalPopulation += root.Pop.Count
		if root.Tech.Level > s.MaxTechLevel {
			s.MaxTechLevel = root.Tech.Level
		}
		walk(root, func(n *tier.Node) {
			s.Tiers++
			s.Events += len(n.Events)
		})
	}
	return s
}

func walk(n *tier.Node, visit func(*tier.Node)) {
	visit(n)
	for _, c := range n.Children {
		walk(c, visit)
	}
}

// report logs the aggregate state of the whole hierarchy.
func (c *Controller) report() {
	s := c.WorldStats()
	slog.Info("tick report",
		"tick", s.Tick,
		"tiers", s.Tiers,
		"population", humanize.Comma(int64(s.TotalPopulation)),
		"max_tech", s.MaxTechLevel,
		"events", s.Events,
	)
}
