package statsim

import (
	"math"
	"testing"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

func TestUpdateEconomy_SurplusAccumulates(t *testing.T) {
	tun := tuning.Default()
	e := tier.NewEconomy()
	e.Production[tier.ResourceFood] = 100
	e.Consumption[tier.ResourceFood] = 40
	stab := tier.Stability{Stability: 50, Infrastructure: 50} // factor exactly 1.0

	got, clamped := UpdateEconomy(e, 0, stab, tun.Technology, tun.Economy, 1)
	if clamped {
		t.Fatalf("unexpected clamp")
	}
	if got.Stockpiles[tier.ResourceFood] != 60 {
		t.Fatalf("stockpile = %v, want 60", got.Stockpiles[tier.ResourceFood])
	}
}

func TestUpdateEconomy_BalancedFlowsStayBalanced(t *testing.T) {
	tun := tuning.Default()
	e := tier.NewEconomy()
	e.Production[tier.ResourceFood] = 100
	e.Consumption[tier.ResourceFood] = 100
	// High tech and infrastructure scale both flows equally, so a balanced
	// economy must not drift into surplus.
	stab := tier.Stability{Stability: 100, Infrastructure: 100}

	got, clamped := UpdateEconomy(e, 5, stab, tun.Technology, tun.Economy, 1)
	if clamped {
		t.Fatalf("unexpected clamp")
	}
	if got.Stockpiles[tier.ResourceFood] != 0 {
		t.Fatalf("stockpile = %v, want 0", got.Stockpiles[tier.ResourceFood])
	}
}

func TestUpdateEconomy_DeficitClampsAtZero(t *testing.T) {
	tun := tuning.Default()
	e := tier.NewEconomy()
	e.Stockpiles[tier.ResourceFood] = 10
	e.Consumption[tier.ResourceFood] = 500
	stab := tier.Stability{Stability: 50, Infrastructure: 50}

	got, clamped := UpdateEconomy(e, 0, stab, tun.Technology, tun.Economy, 1)
	if !clamped {
		t.Fatalf("expected clamp flag on deficit")
	}
	if got.Stockpiles[tier.ResourceFood] != 0 {
		t.Fatalf("stockpile = %v, want 0", got.Stockpiles[tier.ResourceFood])
	}
}

func TestUpdateEconomy_NonFiniteRatesClamp(t *testing.T) {
	tun := tuning.Default()
	e := tier.NewEconomy()
	e.Production[tier.ResourceEnergy] = math.Inf(1)
	stab := tier.Stability{Stability: 50, Infrastructure: 50}

	got, clamped := UpdateEconomy(e, 0, stab, tun.Technology, tun.Economy, 1)
	if !clamped {
		t.Fatalf("expected clamp flag for infinite production")
	}
	if v := got.Stockpiles[tier.ResourceEnergy]; math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("non-finite stockpile %v leaked through", v)
	}
}

func TestUpdateEconomy_ProducedButNeverStockedResourceIsTracked(t *testing.T) {
	tun := tuning.Default()
	e := tier.NewEconomy()
	e.Production[tier.ResourceAlloys] = 10
	stab := tier.Stability{Stability: 50, Infrastructure: 50}

	got, _ := UpdateEconomy(e, 0, stab, tun.Technology, tun.Economy, 2)
	if got.Stockpiles[tier.ResourceAlloys] != 20 {
		t.Fatalf("stockpile = %v, want 20", got.Stockpiles[tier.ResourceAlloys])
	}
}

func TestInfrastructureFactor_Range(t *testing.T) {
	if f := InfrastructureFactor(tier.Stability{}); f != 0.5 {
		t.Fatalf("factor at zero = %v, want 0.5", f)
	}
	if f := InfrastructureFactor(tier.Stability{Stability: 100, Infrastructure: 100}); f != 1.5 {
		t.Fatalf("factor at max = %v, want 1.5", f)
	}
}
