// Package adapters builds higher tiers out of sets of lower ones. Each
// adapter aggregates child statistics into its parent in a single pass,
// classifies children against fixed technology thresholds, derives
// connective infrastructure (trade routes, wormhole networks), and groups
// children into emergent civilizations. Aggregation results are memoized
// per tick.
package adapters

import (
	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// Aggregation is the combined result of one pass over a node's children.
// It is a derived, rebuildable view — never the source of truth.
type Aggregation struct {
	TierID     tier.NodeID
	Tick       uint64
	ChildCount int

	Population       float64
	GrowthRate       float64 // population-weighted mean
	CarryingCapacity float64

	Stockpiles  map[tier.Resource]float64
	Production  map[tier.Resource]float64
	Consumption map[tier.Resource]float64

	MaxTechLevel  int
	MeanTechLevel float64
	Stability     float64 // population-weighted mean
	Infrastructure float64

	// Threshold classification, computed in the same pass: a child at
	// or above the FTL threshold counts for both without being
	// re-tested against the lower one.
	SpacefaringCount int
	FTLCount         int

	Institutions   int
	SpecialistPool map[int]int
	Beliefs        map[string]tier.BeliefShare

	// Derived infrastructure for this node's children.
	TradeRoutes []Route
	Wormholes   []Route
	Civs        []tier.Civilization
}

// aggregate runs the single-pass child aggregation.
func aggregate(n *tier.Node, tick uint64) Aggregation {
	agg := Aggregation{
		TierID:         n.ID,
		Tick:           tick,
		ChildCount:     len(n.Children),
		Stockpiles:     make(map[tier.Resource]float64),
		Production:     make(map[tier.Resource]float64),
		Consumption:    make(map[tier.Resource]float64),
		SpecialistPool: make(map[int]int),
		Beliefs:        make(map[string]tier.BeliefShare),
	}

	var techSum float64
	for _, c := range n.Children {
		pop := c.Pop.Count
		agg.Population += pop
		agg.CarryingCapacity += c.Pop.CarryingCapacity
		agg.GrowthRate += c.Pop.GrowthRate * pop
		agg.Stability += c.Stab.Stability * pop
		agg.Infrastructure += c.Stab.Infrastructure * pop

		for r, v := range c.Econ.Stockpiles {
			agg.Stockpiles[r] += v
		}
		for r, v := range c.Econ.Production {
			agg.Production[r] += v
		}
		for r, v := range c.Econ.Consumption {
			agg.Consumption[r] += v
		}

		lvl := c.Tech.Level
		techSum += float64(lvl)
		if lvl > agg.MaxTechLevel {
			agg.MaxTechLevel = lvl
		}
		switch {
		case lvl >= tuning.FTLTechLevel:
			agg.FTLCount++
			agg.SpacefaringCount++
		case lvl >= tuning.SpacefaringTechLevel:
			agg.SpacefaringCount++
		}

		agg.Institutions += c.Institutions
		for st, count := range c.SpecialistPool {
			agg.SpecialistPool[st] += count
		}
		for id, b := range c.Beliefs {
			share := agg.Beliefs[id]
			share.Believers += b.Believers
			share.Temples += b.Temples
			share.RecentEvents += b.RecentEvents
			agg.Beliefs[id] = share
		}
	}

	if agg.ChildCount > 0 {
		agg.MeanTechLevel = techSum / float64(agg.ChildCount)
	}
	if agg.Population > 0 {
		agg.GrowthRate /= agg.Population
		agg.Stability /= agg.Population
		agg.Infrastructure /= agg.Population
	}
	return agg
}

// apply folds an aggregation into the parent's own statistics, so its
// differential update this tick sees its children's newly-updated state.
func apply(n *tier.Node, agg Aggregation) {
	n.Pop.Count = agg.Population
	n.Pop.GrowthRate = agg.GrowthRate
	n.Pop.CarryingCapacity = agg.CarryingCapacity
	n.Stab.Stability = agg.Stability
	n.Stab.Infrastructure = agg.Infrastructure
	n.Tech.Level = agg.MaxTechLevel
	n.Institutions = agg.Institutions

	for r, v := range agg.Stockpiles {
		n.Econ.Stockpiles[r] = v
	}
	for r, v := range agg.Production {
		n.Econ.Production[r] = v
	}
	for r, v := range agg.Consumption {
		n.Econ.Consumption[r] = v
	}
	for st, count := range agg.SpecialistPool {
		n.SpecialistPool[st] = count
	}
	for id, share := range agg.Beliefs {
		b := n.Beliefs[id]
		if b == nil {
			b = &tier.Belief{}
			n.Beliefs[id] = b
		}
		b.Believers = share.Believers
		b.Temples = share.Temples
		b.RecentEvents = share.RecentEvents
	}
}
