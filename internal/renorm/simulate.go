package renorm

import (
	"log/slog"

	"github.com/talgya/macrocosm/internal/statsim"
	"github.com/talgya/macrocosm/internal/tier"
)

// SimulateTree advances a subtree by one tick, strictly bottom-up: all
// children are updated and folded into the parent before the parent's own
// differential update runs. Active tiers (and their subtrees) belong to
// the entity simulation and are not touched; semi-active tiers sit out
// the tick while their transition completes. speed scales elapsed time
// uniformly.
func (e *Engine) SimulateTree(n *tier.Node, tick uint64, speed float64) error {
	if n == nil || n.Mode != tier.ModeAbstract {
		return nil
	}

	for _, c := range n.Children {
		if err := e.SimulateTree(c, tick, speed); err != nil {
			return err
		}
	}

	// Fold freshly updated children into this node before its own update.
	if len(n.Children) > 0 {
		a, err := e.adapterFor(n.Level)
		if err != nil {
			return err
		}
		if _, err := a.Refresh(n, tick); err != nil {
			return err
		}
	}

	e.simTick(n, tick, n.Level.ScaledYearsPerTick()*speed)
	return nil
}

// simTick runs the statistical simulator over one tier's own state.
func (e *Engine) simTick(n *tier.Node, tick uint64, dt float64) {
	t := e.Tuning

	pop, clamped := statsim.UpdatePopulation(n.Pop, n.Stab.Stability, n.Tech.Level, n.Level.MinPopulation(), t.Population, dt)
	if clamped {
		slog.Warn("population clamped",
			"tier", n.ID,
			"name", n.Name,
			"level", n.Level.String(),
			"floor", n.Level.MinPopulation(),
		)
	}
	n.Pop = pop

	n.Tech = statsim.UpdateTech(n.Tech, n.Pop.Count, t.Technology, dt)

	econ, clamped := statsim.UpdateEconomy(n.Econ, n.Tech.Level, n.Stab, t.Technology, t.Economy, dt)
	if clamped {
		slog.Warn("stockpile clamped", "tier", n.ID, "name", n.Name)
	}
	n.Econ = econ

	e.updateStability(n, dt)

	// A populous tier with an empty ledger gets a synthetic founding
	// belief — plausible filler, nothing more.
	if len(n.Beliefs) == 0 && n.Pop.Count >= t.Belief.FoundingPopulation {
		n.Beliefs[statsim.FoundingBeliefName(n.ID)] = &tier.Belief{
			Believers: n.Pop.Count * 0.1,
		}
	}
	statsim.UpdateBeliefs(n.Beliefs, n.Pop.Count, t.Belief, dt)

	for _, ev := range statsim.RollEvents(n.Name, n.Level, n.Stab.Stability, tick, e.rng, t.Events) {
		n.RecordEvent(ev, t.Events.HistoryCap)
		e.applyEvent(n, ev)
	}
}

// updateStability drifts stability toward an infrastructure-derived
// baseline and accrues stable years above the decline threshold.
func (e *Engine) updateStability(n *tier.Node, dt float64) {
	baseline := 40 + n.Stab.Infrastructure*0.4
	n.Stab.Stability += (baseline - n.Stab.Stability) * 0.05 * dt
	n.Stab.Stability = clamp01to100(n.Stab.Stability)

	if n.Stab.Stability >= e.Tuning.Population.DeclineStability {
		n.Stab.StableYears += dt
	} else {
		n.Stab.StableYears = 0
	}
}

// applyEvent translates a rolled event into statistical consequences.
func (e *Engine) applyEvent(n *tier.Node, ev tier.Event) {
	switch ev.Category {
	case "mega":
		n.Stab.Stability = clamp01to100(n.Stab.Stability - 20)
		n.Pop.Count *= 0.9
		slog.Info("mega-event", "tier", n.ID, "name", n.Name, "event", ev.Description)
	case "crisis":
		n.Stab.Stability = clamp01to100(n.Stab.Stability - 8)
	case "golden_age":
		n.Stab.Stability = clamp01to100(n.Stab.Stability + 4)
		n.Stab.Infrastructure = clamp01to100(n.Stab.Infrastructure + 2)
	}
	if ev.Mega {
		// Mega-events are exactly the history a digest must not lose.
		n.PreserveHighlight(tier.Highlight{
			Kind:     tier.HighlightEvent,
			Name:     ev.Description,
			Tick:     ev.Tick,
			Salience: 100,
		})
	}
}

func clamp01to100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
