package adapters

import (
	"testing"

	"github.com/talgya/macrocosm/internal/tier"
)

func TestBuildTradeRoutes_SpacefaringProximityAndTechGap(t *testing.T) {
	children := []*tier.Node{
		planetChild(t, "a", 1000, 7),
		planetChild(t, "b", 2000, 8),
		planetChild(t, "c", 500, 3),  // pre-spacefaring, never trades
		planetChild(t, "d", 800, 7),  // 3 slots from a: out of reach of a
		planetChild(t, "e", 900, 12), // tech gap > 2 from every neighbor
	}

	// a–b trade; b–d are two slots apart and compatible; a–d is out of
	// proximity; d–e fails the tech gap; c trades with nobody.
	routes := buildTradeRoutes(children)
	if len(routes) != 2 {
		t.Fatalf("routes = %+v, want a–b and b–d", routes)
	}
	if routes[0].A != children[0].ID || routes[0].B != children[1].ID {
		t.Fatalf("first route %s–%s, want a–b", routes[0].A, routes[0].B)
	}
	if routes[0].Strength != 1000 {
		t.Fatalf("strength = %v, want min population 1000", routes[0].Strength)
	}
	if routes[1].A != children[1].ID || routes[1].B != children[3].ID {
		t.Fatalf("second route %s–%s, want b–d", routes[1].A, routes[1].B)
	}
}

func TestBuildWormholes_FullMeshIgnoresProximity(t *testing.T) {
	children := []*tier.Node{
		planetChild(t, "a", 1000, 9),
		planetChild(t, "b", 2000, 8), // spacefaring but not FTL
		planetChild(t, "c", 500, 10),
		planetChild(t, "d", 800, 9),
	}
	holes := buildWormholes(children)
	// Three FTL children → 3 choose 2 pairs, distance irrelevant.
	if len(holes) != 3 {
		t.Fatalf("wormholes = %d, want 3", len(holes))
	}
	for _, h := range holes {
		if h.A == children[1].ID || h.B == children[1].ID {
			t.Fatalf("non-FTL child got a wormhole: %+v", h)
		}
	}
}

func TestBuildWormholes_NoneBelowFTL(t *testing.T) {
	children := []*tier.Node{
		planetChild(t, "a", 1000, 8),
		planetChild(t, "b", 2000, 8),
	}
	if holes := buildWormholes(children); holes != nil {
		t.Fatalf("wormholes = %+v, want none", holes)
	}
}
