package tier

import "fmt"

// Snapshot is a serializable copy of a node's abstract-tier state plus its
// full child list. Reconstructing from a snapshot is lossless for abstract
// state; detailed entity state is the active-tier collaborator's concern.
type Snapshot struct {
	ID      NodeID `json:"id"`
	Name    string `json:"name"`
	Level   Level  `json:"level"`
	Mode    Mode   `json:"mode"`
	Address string `json:"address"`

	Pop  Population `json:"population"`
	Econ Economy    `json:"economy"`
	Stab Stability  `json:"stability"`
	Tech Tech       `json:"tech"`

	Beliefs        map[string]*Belief `json:"beliefs,omitempty"`
	Events         []Event            `json:"events,omitempty"`
	Highlights     []Highlight        `json:"highlights,omitempty"`
	SpecialistPool map[int]int        `json:"specialist_pool,omitempty"`
	Institutions   int                `json:"institutions"`

	ExtKind string     `json:"ext_kind,omitempty"`
	Planet  *PlanetExt `json:"planet,omitempty"`
	System  *SystemExt `json:"system,omitempty"`
	Galaxy  *GalaxyExt `json:"galaxy,omitempty"`

	Children []Snapshot `json:"children,omitempty"`
}

// Snapshot produces a recursive deep copy of the node's state.
func (n *Node) Snapshot() Snapshot {
	s := Snapshot{
		ID:      n.ID,
		Name:    n.Name,
		Level:   n.Level,
		Mode:    n.Mode,
		Address: n.Address().String(),
		Pop:     n.Pop,
		Econ:    copyEconomy(n.Econ),
		Stab:    n.Stab,
		Tech:    n.Tech,
	}
	if len(n.Beliefs) > 0 {
		s.Beliefs = make(map[string]*Belief, len(n.Beliefs))
		for id, b := range n.Beliefs {
			cp := *b
			s.Beliefs[id] = &cp
		}
	}
	s.Events = append(s.Events, n.Events...)
	s.Highlights = append(s.Highlights, n.Highlights...)
	if len(n.SpecialistPool) > 0 {
		s.SpecialistPool = make(map[int]int, len(n.SpecialistPool))
		for tier, count := range n.SpecialistPool {
			s.SpecialistPool[tier] = count
		}
	}
	s.Institutions = n.Institutions

	switch ext := n.Ext.(type) {
	case *PlanetExt:
		cp := *ext
		s.ExtKind = "planet"
		s.Planet = &cp
	case *SystemExt:
		cp := *ext
		s.ExtKind = "system"
		s.System = &cp
	case *GalaxyExt:
		cp := GalaxyExt{Civilizations: append([]Civilization(nil), ext.Civilizations...)}
		s.ExtKind = "galaxy"
		s.Galaxy = &cp
	}

	for _, c := range n.Children {
		s.Children = append(s.Children, c.Snapshot())
	}
	return s
}

// FromSnapshot reconstructs a node tree exactly as snapshotted.
func FromSnapshot(s Snapshot) (*Node, error) {
	if s.ID == "" {
		return nil, fmt.Errorf("tier: snapshot missing node id")
	}
	if !s.Level.Valid() {
		return nil, fmt.Errorf("tier: snapshot %s has invalid level %d", s.ID, s.Level)
	}
	n := &Node{
		ID:             s.ID,
		Name:           s.Name,
		Level:          s.Level,
		Mode:           s.Mode,
		Pop:            s.Pop,
		Econ:           copyEconomy(s.Econ),
		Stab:           s.Stab,
		Tech:           s.Tech,
		Beliefs:        make(map[string]*Belief),
		SpecialistPool: make(map[int]int),
	}
	for id, b := range s.Beliefs {
		cp := *b
		n.Beliefs[id] = &cp
	}
	n.Events = append(n.Events, s.Events...)
	n.Highlights = append(n.Highlights, s.Highlights...)
	for tier, count := range s.SpecialistPool {
		n.SpecialistPool[tier] = count
	}
	n.Institutions = s.Institutions

	switch s.ExtKind {
	case "":
	case "planet":
		if s.Planet == nil {
			return nil, fmt.Errorf("tier: snapshot %s declares planet extension without data", s.ID)
		}
		cp := *s.Planet
		n.Ext = &cp
	case "system":
		if s.System == nil {
			return nil, fmt.Errorf("tier: snapshot %s declares system extension without data", s.ID)
		}
		cp := *s.System
		n.Ext = &cp
	case "galaxy":
		if s.Galaxy == nil {
			return nil, fmt.Errorf("tier: snapshot %s declares galaxy extension without data", s.ID)
		}
		cp := GalaxyExt{Civilizations: append([]Civilization(nil), s.Galaxy.Civilizations...)}
		n.Ext = &cp
	default:
		return nil, fmt.Errorf("tier: snapshot %s has unknown extension kind %q", s.ID, s.ExtKind)
	}

	for _, cs := range s.Children {
		child, err := FromSnapshot(cs)
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(child); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func copyEconomy(e Economy) Economy {
	out := NewEconomy()
	for r, v := range e.Stockpiles {
		out.Stockpiles[r] = v
	}
	for r, v := range e.Production {
		out.Production[r] = v
	}
	for r, v := range e.Consumption {
		out.Consumption[r] = v
	}
	return out
}
