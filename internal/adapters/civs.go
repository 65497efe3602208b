// Civilization clustering and megastructure construction.
package adapters

import (
	"fmt"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// civTechCloseness is the maximum tech-level gap for two children to be
// considered compatible.
const civTechCloseness = 2

// buildCivilizations groups children into emergent higher-order entities
// via connected components of a similarity graph: mutual tech-level
// closeness and absence of active conflict. Singletons are not reported —
// one system is not a civilization.
func buildCivilizations(children []*tier.Node) []tier.Civilization {
	n := len(children)
	if n < 2 {
		return nil
	}

	// Union-find over the similarity graph.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(i, j int) {
		parent[find(i)] = find(j)
	}

	for i := 0; i < n; i++ {
		if inConflict(children[i]) {
			continue
		}
		for j := i + 1; j < n; j++ {
			if inConflict(children[j]) {
				continue
			}
			diff := children[i].Tech.Level - children[j].Tech.Level
			if diff < 0 {
				diff = -diff
			}
			if diff <= civTechCloseness {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]*tier.Node)
	for i, c := range children {
		if inConflict(c) {
			continue
		}
		root := find(i)
		groups[root] = append(groups[root], c)
	}

	var civs []tier.Civilization
	var nextID uint64 = 1
	// Iterate children in order so civ identity is stable across runs.
	for i := range children {
		members, ok := groups[find(i)]
		if !ok || len(members) < 2 || members[0] != children[i] {
			continue
		}
		civ := tier.Civilization{
			ID:   nextID,
			Name: fmt.Sprintf("%s Compact", members[0].Name),
		}
		nextID++
		for _, m := range members {
			civ.MemberIDs = append(civ.MemberIDs, m.ID)
			civ.Population += m.Pop.Count
			if m.Tech.Level > civ.TechLevel {
				civ.TechLevel = m.Tech.Level
			}
		}
		civ.Megastructures = buildMegastructures(civ)
		civs = append(civs, civ)
	}
	return civs
}

// inConflict reports active conflict: a crisis event in the tier's recent
// log. Summarized history is all we have to go on at this scale.
func inConflict(n *tier.Node) bool {
	for i := len(n.Events) - 1; i >= 0 && i >= len(n.Events)-5; i-- {
		if n.Events[i].Category == "crisis" {
			return true
		}
	}
	return false
}

// buildMegastructures instantiates megastructure-class infrastructure for
// a civilization above the joint population/technology threshold, scaled
// to the owning group's tech level.
func buildMegastructures(civ tier.Civilization) []tier.Megastructure {
	if civ.Population < tuning.MegastructurePopulation || civ.TechLevel < tuning.MegastructureTechLevel {
		return nil
	}
	// One structure per tech level past the threshold, cycling kinds.
	count := civ.TechLevel - tuning.MegastructureTechLevel + 1
	if count > 3 {
		count = 3
	}
	kinds := []tier.MegastructureKind{tier.MegaDysonSwarm, tier.MegaRingStation, tier.MegaStellarForge}
	var structs []tier.Megastructure
	for i := 0; i < count; i++ {
		kind := kinds[i%len(kinds)]
		structs = append(structs, tier.Megastructure{
			Kind:         kind,
			Name:         fmt.Sprintf("%s %s", civ.Name, tier.MegastructureKindName(kind)),
			Scale:        civ.TechLevel,
			EnergyOutput: 1e6 * float64(civ.TechLevel),
		})
	}
	return structs
}
