package renorm

import (
	"testing"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

func mustNode(t *testing.T, name string, level tier.Level) *tier.Node {
	t.Helper()
	n, err := tier.NewNode(name, level)
	if err != nil {
		t.Fatalf("NewNode(%q, %v): %v", name, level, err)
	}
	return n
}

// quietTuning disables random events so tick outcomes are fully determined
// by the differential updates.
func quietTuning() tuning.Tuning {
	t := tuning.Default()
	t.Events.BaseChance = 0
	t.Events.MegaChance = 0
	return t
}

func TestSummarize_CachesPerTick(t *testing.T) {
	e := New(quietTuning(), 1)
	n := mustNode(t, "zone", tier.LevelZone)
	n.Pop.Count = 5000

	s, err := e.Summarize(n, 3)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Population != 5000 || s.Tick != 3 {
		t.Fatalf("summary = %+v", s)
	}

	cached, ok := e.CachedSummary(n.ID, 3)
	if !ok || cached.Population != 5000 {
		t.Fatalf("cache miss after summarize")
	}
	if _, ok := e.CachedSummary(n.ID, 4); ok {
		t.Fatalf("stale summary served for a later tick")
	}

	// Summarizing at a newer tick drops the old window entirely.
	other := mustNode(t, "other zone", tier.LevelZone)
	if _, err := e.Summarize(other, 4); err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if _, ok := e.CachedSummary(n.ID, 3); ok {
		t.Fatalf("old-tick summary survived the window advance")
	}
}

func TestSummarize_RejectsActiveTier(t *testing.T) {
	e := New(quietTuning(), 1)
	n := mustNode(t, "zone", tier.LevelZone)
	if err := n.Transition(tier.ModeSemiActive); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if err := n.Transition(tier.ModeActive); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if _, err := e.Summarize(n, 0); err == nil {
		t.Fatalf("expected error summarizing an active tier")
	}
}

func TestFoldRollup(t *testing.T) {
	n := mustNode(t, "zone", tier.LevelZone)
	n.Tech.Level = 5

	err := FoldRollup(n, Rollup{
		Population: 12_000,
		Stability:  70,
		TechLevel:  3, // lower than current: must not regress
		Stockpiles: map[tier.Resource]float64{tier.ResourceFood: 800},
		Notables:   []tier.Highlight{{Kind: tier.HighlightPerson, Name: "Orvan the Builder", Flagged: true}},
	})
	if err != nil {
		t.Fatalf("FoldRollup: %v", err)
	}
	if n.Pop.Count != 12_000 || n.Stab.Stability != 70 {
		t.Fatalf("rollup not folded: pop=%v stab=%v", n.Pop.Count, n.Stab.Stability)
	}
	if n.Tech.Level != 5 {
		t.Fatalf("tech level regressed to %d", n.Tech.Level)
	}
	if n.Econ.Stockpiles[tier.ResourceFood] != 800 {
		t.Fatalf("stockpiles not folded")
	}
	if len(n.Highlights) != 1 || !n.Highlights[0].Flagged {
		t.Fatalf("notable not preserved: %+v", n.Highlights)
	}

	if err := FoldRollup(n, Rollup{Population: -1}); err == nil {
		t.Fatalf("expected error for negative rollup population")
	}
	if err := FoldRollup(nil, Rollup{}); err == nil {
		t.Fatalf("expected error for nil tier")
	}
}

func TestInstantiate_LossyButBounded(t *testing.T) {
	e := New(quietTuning(), 1)
	n := mustNode(t, "zone", tier.LevelZone)
	n.Pop.Count = 1_000_000
	n.Tech.Level = 4
	n.Stab.Stability = 65
	n.Beliefs["cult"] = &tier.Belief{Believers: 250_000}

	c, err := e.Instantiate(n, 0, 42)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	// Regeneration is statistically consistent: within ±0.5% of the digest.
	if c.TargetPopulation < 995_000 || c.TargetPopulation > 1_005_000 {
		t.Fatalf("target = %d, outside ±0.5%% of 1000000", c.TargetPopulation)
	}
	if c.AvgSkillLevel != 4 || c.Stability != 65 {
		t.Fatalf("constraints = %+v", c)
	}
	if share := c.BeliefShares["cult"]; share != 0.25 {
		t.Fatalf("belief share = %v, want 0.25", share)
	}

	// Same summary, same seed: identical constraints.
	again, err := e.Instantiate(n, 0, 42)
	if err != nil {
		t.Fatalf("Instantiate again: %v", err)
	}
	if again.TargetPopulation != c.TargetPopulation {
		t.Fatalf("constraint generation not deterministic: %d vs %d", again.TargetPopulation, c.TargetPopulation)
	}
}

func TestInstantiate_MandatoryFlaggedFirstAndCapped(t *testing.T) {
	e := New(quietTuning(), 1)
	n := mustNode(t, "zone", tier.LevelZone)
	n.Pop.Count = 10_000

	n.PreserveHighlight(tier.Highlight{Kind: tier.HighlightPerson, Name: "The Founder", Flagged: true, Salience: 0})
	for i := 0; i < 10; i++ {
		n.PreserveHighlight(tier.Highlight{Kind: tier.HighlightStructure, Name: "tower", Salience: float64(i + 1)})
	}

	c, err := e.Instantiate(n, 0, 7)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}
	if len(c.Mandatory) != mandatoryCap {
		t.Fatalf("mandatory = %d entries, want %d", len(c.Mandatory), mandatoryCap)
	}
	if !c.Mandatory[0].Flagged || c.Mandatory[0].Name != "The Founder" {
		t.Fatalf("flagged highlight not first: %+v", c.Mandatory[0])
	}
}
