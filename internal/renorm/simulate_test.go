package renorm

import (
	"math"
	"testing"

	"github.com/talgya/macrocosm/internal/statsim"
	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// inertTuning freezes everything except population, so tick outcomes can
// be recomputed exactly in the test.
func inertTuning() tuning.Tuning {
	t := quietTuning()
	t.Technology.ResearcherShare = 0
	t.Belief.FoundingPopulation = 1e18
	return t
}

// seedStats gives a node a state whose stability baseline equals its
// current stability, so the drift term is exactly zero.
func seedStats(n *tier.Node, pop float64) {
	n.Pop.Count = pop
	n.Pop.CarryingCapacity = 10_000
	n.Stab.Stability = 60
	n.Stab.Infrastructure = 50
}

func TestSimulateTree_BottomUpOrdering(t *testing.T) {
	tun := inertTuning()
	e := New(tun, 1)

	zone := mustNode(t, "zone", tier.LevelZone)
	seedStats(zone, 1000)
	region := mustNode(t, "region", tier.LevelRegion)
	planet := mustNode(t, "planet", tier.LevelPlanet)
	if err := region.AddChild(zone); err != nil {
		t.Fatalf("add zone: %v", err)
	}
	if err := planet.AddChild(region); err != nil {
		t.Fatalf("add region: %v", err)
	}

	if err := e.SimulateTree(planet, 1, 1); err != nil {
		t.Fatalf("SimulateTree: %v", err)
	}

	// Recompute by hand in the required order: the zone updates first, the
	// region folds the zone's new count and then updates, the planet folds
	// the region's new count and then updates. Any other ordering yields
	// different numbers.
	zp, _ := statsim.UpdatePopulation(tier.Population{Count: 1000, CarryingCapacity: 10_000},
		60, 0, tier.LevelZone.MinPopulation(), tun.Population, tier.LevelZone.ScaledYearsPerTick())
	rp, _ := statsim.UpdatePopulation(tier.Population{Count: zp.Count, CarryingCapacity: 10_000},
		60, 0, tier.LevelRegion.MinPopulation(), tun.Population, tier.LevelRegion.ScaledYearsPerTick())
	pp, _ := statsim.UpdatePopulation(tier.Population{Count: rp.Count, CarryingCapacity: 10_000},
		60, 0, tier.LevelPlanet.MinPopulation(), tun.Population, tier.LevelPlanet.ScaledYearsPerTick())

	if zone.Pop.Count != zp.Count {
		t.Fatalf("zone population = %v, want %v", zone.Pop.Count, zp.Count)
	}
	if region.Pop.Count != rp.Count {
		t.Fatalf("region population = %v, want %v (children fold before the parent update)", region.Pop.Count, rp.Count)
	}
	if planet.Pop.Count != pp.Count {
		t.Fatalf("planet population = %v, want %v", planet.Pop.Count, pp.Count)
	}
}

func TestSimulateTree_SpeedScalesElapsedTime(t *testing.T) {
	tun := inertTuning()

	run := func(speed float64) float64 {
		e := New(tun, 1)
		zone := mustNode(t, "zone", tier.LevelZone)
		seedStats(zone, 1000)
		if err := e.SimulateTree(zone, 1, speed); err != nil {
			t.Fatalf("SimulateTree: %v", err)
		}
		return zone.Pop.Count
	}

	got := run(2)
	want, _ := statsim.UpdatePopulation(tier.Population{Count: 1000, CarryingCapacity: 10_000},
		60, 0, tier.LevelZone.MinPopulation(), tun.Population, 2*tier.LevelZone.ScaledYearsPerTick())
	if got != want.Count {
		t.Fatalf("population at speed 2 = %v, want %v", got, want.Count)
	}
	if run(1) >= got {
		t.Fatalf("doubling speed should advance further in one tick")
	}
}

func TestSimulateTree_SkipsActiveSubtrees(t *testing.T) {
	tun := inertTuning()
	e := New(tun, 1)

	zone := mustNode(t, "zone", tier.LevelZone)
	seedStats(zone, 1000)
	region := mustNode(t, "region", tier.LevelRegion)
	if err := region.AddChild(zone); err != nil {
		t.Fatalf("add zone: %v", err)
	}
	seedStats(region, 0)

	if err := region.Transition(tier.ModeSemiActive); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := region.Transition(tier.ModeActive); err != nil {
		t.Fatalf("transition: %v", err)
	}

	if err := e.SimulateTree(region, 1, 1); err != nil {
		t.Fatalf("SimulateTree: %v", err)
	}
	if zone.Pop.Count != 1000 {
		t.Fatalf("child of an active tier was updated: %v", zone.Pop.Count)
	}
	if region.Pop.Count != 0 {
		t.Fatalf("active tier was updated: %v", region.Pop.Count)
	}
}

func TestSimulateTree_NeverProducesNonFinite(t *testing.T) {
	tun := quietTuning()
	e := New(tun, 99)

	zone := mustNode(t, "zone", tier.LevelZone)
	// Degenerate inputs on purpose.
	zone.Pop.Count = 100
	zone.Pop.CarryingCapacity = 0

	for tick := uint64(1); tick <= 100; tick++ {
		if err := e.SimulateTree(zone, tick, 1); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if math.IsNaN(zone.Pop.Count) || math.IsInf(zone.Pop.Count, 0) || zone.Pop.Count < 0 {
			t.Fatalf("tick %d: degenerate population %v", tick, zone.Pop.Count)
		}
	}
}
