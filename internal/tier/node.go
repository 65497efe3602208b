package tier

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NodeID is a stable tier identifier.
type NodeID = string

// Mode is a tier's simulation mode. Exactly one holds at a time.
type Mode uint8

const (
	// ModeAbstract tiers are driven only by the statistical simulator.
	ModeAbstract Mode = iota
	// ModeSemiActive is the transitional state while instantiation or
	// summarization is in flight.
	ModeSemiActive
	// ModeActive tiers are fully driven by the external entity
	// simulation and never touched by the statistical simulator.
	ModeActive
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeAbstract:
		return "abstract"
	case ModeSemiActive:
		return "semi-active"
	case ModeActive:
		return "active"
	default:
		return "unknown"
	}
}

// Resource is a tracked stockpile kind.
type Resource uint8

const (
	ResourceFood Resource = iota
	ResourceMaterials
	ResourceEnergy
	ResourceAlloys
	ResourceExotics
)

// ResourceName returns a human-readable resource name.
func ResourceName(r Resource) string {
	switch r {
	case ResourceFood:
		return "food"
	case ResourceMaterials:
		return "materials"
	case ResourceEnergy:
		return "energy"
	case ResourceAlloys:
		return "alloys"
	case ResourceExotics:
		return "exotics"
	default:
		return "unknown"
	}
}

// Population holds a tier's demographic state.
type Population struct {
	Count            float64 `json:"count"`
	GrowthRate       float64 `json:"growth_rate"`
	CarryingCapacity float64 `json:"carrying_capacity"`
}

// Economy holds a tier's stockpiles and flow rates, all per scaled year.
type Economy struct {
	Stockpiles  map[Resource]float64 `json:"stockpiles"`
	Production  map[Resource]float64 `json:"production"`
	Consumption map[Resource]float64 `json:"consumption"`
}

// NewEconomy returns an Economy with allocated maps.
func NewEconomy() Economy {
	return Economy{
		Stockpiles:  make(map[Resource]float64),
		Production:  make(map[Resource]float64),
		Consumption: make(map[Resource]float64),
	}
}

// Stability holds a tier's political stability and infrastructure quality,
// both on a 0–100 scale.
type Stability struct {
	Stability      float64 `json:"stability"`
	Infrastructure float64 `json:"infrastructure"`
	// StableYears accumulates scaled years spent above the decline
	// threshold; consumed by the emergence model.
	StableYears float64 `json:"stable_years"`
}

// Tech holds a tier's technology progress.
type Tech struct {
	Level         int     `json:"level"`
	Research      float64 `json:"research"`
	NextLevelCost float64 `json:"next_level_cost"`
}

// Belief tracks one belief's following within a tier. Temples and miracles
// are written only by the divinity collaborator's mutators.
type Belief struct {
	Believers float64 `json:"believers"`
	Temples   int     `json:"temples"`
	// Miracles counts miracles recorded since the last belief update;
	// each grants a one-time believer bonus and is then folded away.
	Miracles int `json:"miracles"`
	// RecentEvents counts notable events attributed to this belief.
	RecentEvents int `json:"recent_events"`
}

// Event is a notable occurrence appended to a tier's capped log.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "disaster", "golden_age", "mega", ...
	Mega        bool   `json:"mega,omitempty"`
}

// Node is one tier in the hierarchy. A node exclusively owns its children:
// a child belongs to exactly one parent, and reassignment requires explicit
// removal then addition. Children are only ever appended, never linked back
// to an ancestor, so the hierarchy is acyclic by construction.
type Node struct {
	ID    NodeID `json:"id"`
	Name  string `json:"name"`
	Level Level  `json:"level"`
	Mode  Mode   `json:"mode"`

	Pop        Population         `json:"population"`
	Econ       Economy            `json:"economy"`
	Stab       Stability          `json:"stability"`
	Tech       Tech               `json:"tech"`
	Beliefs    map[string]*Belief `json:"beliefs"`
	Events     []Event            `json:"events"`
	Highlights []Highlight        `json:"highlights"`

	// SpecialistPool maps emergence tier → accumulated specialist count.
	SpecialistPool map[int]int `json:"specialist_pool"`
	// Institutions is the count of dedicated research institutions,
	// grown by the adapters and consumed by the emergence model.
	Institutions int `json:"institutions"`

	// Ext carries level-specific extension data, nil for plain levels.
	Ext Extension `json:"-"`

	Children []*Node `json:"-"`
	parent   *Node
}

// NewNode creates a detached abstract node at the given level.
func NewNode(name string, level Level) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("tier: node name is required")
	}
	if !level.Valid() {
		return nil, fmt.Errorf("tier: invalid level %d for node %q", level, name)
	}
	return &Node{
		ID:             uuid.NewString(),
		Name:           name,
		Level:          level,
		Mode:           ModeAbstract,
		Econ:           NewEconomy(),
		Beliefs:        make(map[string]*Belief),
		SpecialistPool: make(map[int]int),
	}, nil
}

// AddChild appends a child. The child's level must be strictly finer than
// the parent's, and the child must not already be owned.
func (n *Node) AddChild(c *Node) error {
	if c == nil {
		return structural(n.ID, "nil child")
	}
	if c.Level >= n.Level {
		return structural(n.ID, "child %s level %s is not strictly finer than parent level %s",
			c.ID, c.Level, n.Level)
	}
	if c.parent != nil {
		return structural(n.ID, "child %s is already owned by %s; remove it first", c.ID, c.parent.ID)
	}
	c.parent = n
	n.Children = append(n.Children, c)
	return nil
}

// RemoveChild detaches and returns the child with the given id.
func (n *Node) RemoveChild(id NodeID) (*Node, error) {
	for i, c := range n.Children {
		if c.ID == id {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return c, nil
		}
	}
	return nil, structural(n.ID, "no owned child %s", id)
}

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Find walks the subtree looking for the node with the given id.
func (n *Node) Find(id NodeID) *Node {
	if n.ID == id {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// Address returns the node's universal address: the level:name path from
// the root of its ancestor chain down to itself. Used for persistence and
// cross-reference, never for ownership.
func (n *Node) Address() Address {
	var parts []AddressPart
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, AddressPart{Level: cur.Level, Name: cur.Name})
	}
	// Reverse: built leaf-first, addresses read root-first.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return Address(parts)
}

// Transition moves the node to the given mode, enforcing the lifecycle
// state machine: abstract ↔ semi-active ↔ active. A tier never skips
// directly between abstract and active.
func (n *Node) Transition(to Mode) error {
	from := n.Mode
	if from == to {
		return structural(n.ID, "already in mode %s", to)
	}
	if (from == ModeAbstract && to == ModeActive) || (from == ModeActive && to == ModeAbstract) {
		return structural(n.ID, "disallowed transition %s → %s", from, to)
	}
	n.Mode = to
	return nil
}

// RecordEvent appends to the tier's event log, trimming FIFO at limit to
// prevent unbounded growth over long runs.
func (n *Node) RecordEvent(e Event, limit int) {
	n.Events = append(n.Events, e)
	if limit > 0 && len(n.Events) > limit {
		n.Events = n.Events[len(n.Events)-limit:]
	}
}

// AddressPart is one segment of a universal address.
type AddressPart struct {
	Level Level  `json:"level"`
	Name  string `json:"name"`
}

// Address locates a node within its ancestor chain.
type Address []AddressPart

// String renders the address as level:name segments joined by "/".
func (a Address) String() string {
	segs := make([]string, len(a))
	for i, p := range a {
		segs[i] = fmt.Sprintf("%s:%s", p.Level, p.Name)
	}
	return strings.Join(segs, "/")
}
