package statsim

import (
	"math"
	"testing"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

func TestLevelCost_Superlinear(t *testing.T) {
	tun := tuning.Default().Technology
	if c := LevelCost(0, tun); c != tun.BaseCost {
		t.Fatalf("cost from level 0 = %v, want %v", c, tun.BaseCost)
	}
	for level := 0; level < 20; level++ {
		if LevelCost(level+1, tun) <= LevelCost(level, tun) {
			t.Fatalf("cost not strictly increasing at level %d", level)
		}
	}
	// Superlinear: doubling the level more than doubles the cost.
	if LevelCost(8, tun) <= 2*LevelCost(4, tun) {
		t.Fatalf("cost(8)=%v not superlinear vs cost(4)=%v", LevelCost(8, tun), LevelCost(4, tun))
	}
}

func TestUpdateTech_AdvancesLevels(t *testing.T) {
	tun := tuning.Default().Technology
	tech := tier.Tech{}

	// Enough researchers to clear several levels in one large step.
	population := 10_000_000.0
	got := UpdateTech(tech, population, tun, 100)
	if got.Level < 2 {
		t.Fatalf("level = %d after a huge research influx, want ≥ 2", got.Level)
	}
	if got.Research < 0 || got.Research >= got.NextLevelCost {
		t.Fatalf("leftover research %v not in [0, %v)", got.Research, got.NextLevelCost)
	}
	if got.NextLevelCost != LevelCost(got.Level, tun) {
		t.Fatalf("next level cost %v does not match level %d", got.NextLevelCost, got.Level)
	}
}

func TestUpdateTech_IgnoresDegenerateGain(t *testing.T) {
	tun := tuning.Default().Technology
	tech := tier.Tech{Level: 3, Research: 50, NextLevelCost: LevelCost(3, tun)}

	got := UpdateTech(tech, math.NaN(), tun, 1)
	if got.Research != 50 || got.Level != 3 {
		t.Fatalf("NaN population mutated tech state: %+v", got)
	}
	got = UpdateTech(tech, -500, tun, 1)
	if got.Research != 50 {
		t.Fatalf("negative population mutated research: %v", got.Research)
	}
}

func TestEfficiency_Linear(t *testing.T) {
	tun := tuning.Default().Technology
	if e := Efficiency(0, tun); e != 1 {
		t.Fatalf("efficiency at level 0 = %v, want 1", e)
	}
	if e := Efficiency(10, tun); e != 1+10*tun.EfficiencyPerLevel {
		t.Fatalf("efficiency at level 10 = %v", e)
	}
}
