package statsim

import (
	"math"
	"strings"
	"testing"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

func TestUpdateBeliefs_MiracleBonusIsOneTime(t *testing.T) {
	tun := tuning.Default().Belief
	beliefs := map[string]*tier.Belief{
		"cult": {Believers: 1000, Miracles: 2},
	}

	UpdateBeliefs(beliefs, 1e9, tun, 1)
	b := beliefs["cult"]
	afterFirst := b.Believers
	want := 1000 + tun.SpreadRate*1000 + 2*tun.MiracleBonus - tun.DecayRate*1000
	if math.Abs(afterFirst-want) > 1e-9 {
		t.Fatalf("believers = %v, want %v", afterFirst, want)
	}
	if b.Miracles != 0 {
		t.Fatalf("miracle counter not consumed: %d", b.Miracles)
	}

	// A second update without new miracles must not re-grant the bonus.
	UpdateBeliefs(beliefs, 1e9, tun, 1)
	if b.Believers >= afterFirst+2*tun.MiracleBonus {
		t.Fatalf("miracle bonus granted twice: %v", b.Believers)
	}
}

func TestUpdateBeliefs_ClampedToPopulation(t *testing.T) {
	tun := tuning.Default().Belief
	beliefs := map[string]*tier.Belief{
		"cult": {Believers: 990, Temples: 50, Miracles: 10},
	}
	UpdateBeliefs(beliefs, 1000, tun, 1)
	if b := beliefs["cult"].Believers; b != 1000 {
		t.Fatalf("believers = %v, want clamp at population 1000", b)
	}

	beliefs["shrinking"] = &tier.Belief{Believers: 5}
	UpdateBeliefs(beliefs, 0, tun, 1000)
	if b := beliefs["shrinking"].Believers; b != 0 {
		t.Fatalf("believers = %v, want 0 for empty tier", b)
	}
}

func TestFoundingBeliefName_Deterministic(t *testing.T) {
	a := FoundingBeliefName("tier-1234")
	b := FoundingBeliefName("tier-1234")
	if a != b {
		t.Fatalf("same id yielded %q and %q", a, b)
	}
	if !strings.HasPrefix(a, "Cult of ") {
		t.Fatalf("unexpected name shape %q", a)
	}
	if FoundingBeliefName("tier-1234") == FoundingBeliefName("tier-9999") {
		t.Fatalf("distinct ids should usually differ")
	}
}
