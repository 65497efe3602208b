package tier

// Extension carries level-specific data for the closed set of tier kinds
// that need more than the common statistics. The set is closed on purpose:
// adapters and the simulator switch exhaustively on the concrete type, so
// adding a kind is a compile-time-checked change, not open subclassing.
type Extension interface {
	extKind() string
}

// PlanetExt extends a planet node.
type PlanetExt struct {
	Habitability float64 `json:"habitability"` // 0.0–1.0
	SurfaceArea  float64 `json:"surface_area"` // million km²
}

func (*PlanetExt) extKind() string { return "planet" }

// StarClass is the spectral class of a system's primary star.
type StarClass uint8

const (
	StarClassM StarClass = iota // red dwarf
	StarClassK
	StarClassG // sol-like
	StarClassF
	StarClassA
)

// SystemExt extends a star system node with its star parameters and
// habitable-zone range in AU.
type SystemExt struct {
	Star       StarClass `json:"star"`
	Luminosity float64   `json:"luminosity"` // relative to sol
	HabZoneIn  float64   `json:"hab_zone_in"`
	HabZoneOut float64   `json:"hab_zone_out"`
}

func (*SystemExt) extKind() string { return "system" }

// GalaxyExt extends a galaxy node with its galaxy-spanning civilizations.
type GalaxyExt struct {
	Civilizations []Civilization `json:"civilizations"`
}

func (*GalaxyExt) extKind() string { return "galaxy" }

// Civilization is an emergent grouping of member tiers discovered by the
// adapters' clustering pass.
type Civilization struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []NodeID `json:"member_ids"`
	// Aggregates over members at the tick the cluster was built.
	Population float64 `json:"population"`
	TechLevel  int     `json:"tech_level"`
	// Megastructures owned by this civilization, scaled to its tech.
	Megastructures []Megastructure `json:"megastructures,omitempty"`
}

// MegastructureKind classifies megastructure-class infrastructure.
type MegastructureKind uint8

const (
	MegaDysonSwarm MegastructureKind = iota
	MegaRingStation
	MegaStellarForge
)

// MegastructureKindName returns a human-readable kind name.
func MegastructureKindName(k MegastructureKind) string {
	switch k {
	case MegaDysonSwarm:
		return "dyson swarm"
	case MegaRingStation:
		return "ring station"
	case MegaStellarForge:
		return "stellar forge"
	default:
		return "unknown"
	}
}

// Megastructure is a piece of civilization-scale infrastructure.
type Megastructure struct {
	Kind MegastructureKind `json:"kind"`
	Name string            `json:"name"`
	// Scale tracks the owning group's tech level at construction.
	Scale int `json:"scale"`
	// EnergyOutput feeds the owning tier's energy production.
	EnergyOutput float64 `json:"energy_output"`
}
