// Package controller provides the top-level simulation driver: the tick
// loop, speed control, active-tier tracking, and the zoom-in / zoom-out
// operations exposed to the UI collaborator.
package controller

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/talgya/macrocosm/internal/renorm"
	"github.com/talgya/macrocosm/internal/tier"
)

// Controller drives the hierarchy forward and owns which tier is currently
// active (fully entity-simulated) versus abstract.
type Controller struct {
	Engine *renorm.Engine
	Roots  []*tier.Node

	Tick     uint64
	Interval time.Duration // base tick interval

	// Parallel ticks sibling root subtrees concurrently. Each subtree
	// is exclusively owned for the duration of a tick, so no locking
	// discipline is needed beyond the join.
	Parallel bool

	// OnTick fires after every completed tick (autosave hooks etc.).
	OnTick func(tick uint64)

	mu       sync.Mutex
	speed    float64 // multiplier on scaled time per tick; 0 = paused
	running  bool
	activeID tier.NodeID
}

// New creates a controller over the given root subtrees.
func New(engine *renorm.Engine, roots []*tier.Node) (*Controller, error) {
	if engine == nil {
		return nil, fmt.Errorf("controller: engine is required")
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("controller: at least one root tier is required")
	}
	return &Controller{
		Engine:   engine,
		Roots:    roots,
		speed:    1.0,
		Interval: time.Second,
	}, nil
}

// Run starts the tick loop. Blocks until Stop is called.
func (c *Controller) Run() {
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
	slog.Info("simulation started", "tick", c.Tick, "speed", c.Speed(), "roots", len(c.Roots))

	for c.Running() {
		if c.Speed() <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		if err := c.Step(); err != nil {
			slog.Error("tick failed", "tick", c.Tick, "error", err)
		}

		elapsed := time.Since(start)
		if elapsed < c.Interval {
			time.Sleep(c.Interval - elapsed)
		}
	}

	slog.Info("simulation stopped", "tick", c.Tick)
}

// Running reports whether the tick loop is live.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Stop halts the tick loop after the current tick.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

// Pause sets the speed to zero, keeping the loop alive.
func (c *Controller) Pause() {
	c.SetSpeed(0)
}

// Speed returns the current scaled-time multiplier.
func (c *Controller) Speed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speed
}

// SetSpeed sets the scaled-time multiplier applied uniformly per tick.
func (c *Controller) SetSpeed(speed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if speed < 0 {
		speed = 0
	}
	c.speed = speed
}

// Step advances every abstract subtree by exactly one tick.
func (c *Controller) Step() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.Tick++
	speed := c.speed
	if speed <= 0 {
		speed = 1
	}

	if c.Parallel && len(c.Roots) > 1 {
		var g errgroup.Group
		for _, root := range c.Roots {
			g.Go(func() error {
				return c.Engine.SimulateTree(root, c.Tick, speed)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for _, root := range c.Roots {
			if err := c.Engine.SimulateTree(root, c.Tick, speed); err != nil {
				return err
			}
		}
	}

	if c.Tick%reportEvery == 0 {
		c.report()
	}
	if c.OnTick != nil {
		c.OnTick(c.Tick)
	}
	return nil
}

// Find returns the node with the given id, searching every root subtree.
func (c *Controller) Find(id tier.NodeID) *tier.Node {
	for _, root := range c.Roots {
		if n := root.Find(id); n != nil {
			return n
		}
	}
	return nil
}

// IsTierActive reports whether the given tier is in active mode.
func (c *Controller) IsTierActive(id tier.NodeID) bool {
	n := c.Find(id)
	return n != nil && n.Mode == tier.ModeActive
}

// TierSummary returns the tier's summary for the current tick, reusing the
// cached one when available.
func (c *Controller) TierSummary(id tier.NodeID) (tier.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.Find(id)
	if n == nil {
		return tier.Summary{}, fmt.Errorf("controller: no tier %s", id)
	}
	if s, ok := c.Engine.CachedSummary(id, c.Tick); ok {
		return s, nil
	}
	return c.Engine.Summarize(n, c.Tick)
}

// ZoomIn takes an abstract tier through semi-active into active mode and
// returns the instantiation constraints for the entity-simulation
// collaborator. Only one tier is active at a time.
func (c *Controller) ZoomIn(id tier.NodeID, seed int64) (tier.Constraints, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.Find(id)
	if n == nil {
		return tier.Constraints{}, fmt.Errorf("controller: no tier %s", id)
	}
	if c.activeID != "" && c.activeID != id {
		return tier.Constraints{}, fmt.Errorf("controller: tier %s is already active; zoom out first", c.activeID)
	}

	if err := n.Transition(tier.ModeSemiActive); err != nil {
		return tier.Constraints{}, err
	}
	constraints, err := c.Engine.Instantiate(n, c.Tick, seed)
	if err != nil {
		// Roll the transition back so the tier is not stranded.
		n.Mode = tier.ModeAbstract
		return tier.Constraints{}, err
	}
	if err := n.Transition(tier.ModeActive); err != nil {
		return tier.Constraints{}, err
	}
	c.activeID = id

	slog.Info("zoom in", "tier", id, "name", n.Name, "target_population", constraints.TargetPopulation)
	return constraints, nil
}

// ZoomOut summarizes an active tier back into abstract mode. The entity
// simulation must have reached a stopping point and supplied its rollup.
func (c *Controller) ZoomOut(id tier.NodeID, rollup renorm.Rollup) (tier.Summary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.Find(id)
	if n == nil {
		return tier.Summary{}, fmt.Errorf("controller: no tier %s", id)
	}
	if n.Mode != tier.ModeActive {
		return tier.Summary{}, fmt.Errorf("controller: tier %s is not active", id)
	}

	from := n.Mode
	if err := n.Transition(tier.ModeSemiActive); err != nil {
		return tier.Summary{}, err
	}
	if err := renorm.FoldRollup(n, rollup); err != nil {
		n.Mode = from
		return tier.Summary{}, err
	}
	summary, err := c.Engine.Summarize(n, c.Tick)
	if err != nil {
		n.Mode = from
		return tier.Summary{}, err
	}
	if err := n.Transition(tier.ModeAbstract); err != nil {
		return tier.Summary{}, err
	}
	if c.activeID == id {
		c.activeID = ""
	}

	slog.Info("zoom out", "tier", id, "name", n.Name, "population", summary.Population)
	return summary, nil
}
