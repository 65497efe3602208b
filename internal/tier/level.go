// Package tier provides the hierarchy data model: tier levels, nodes,
// lifecycle modes, belief ledgers, preserved highlights, and snapshots.
package tier

// Level is the spatial scale of a tier. Levels are strictly ordered from
// finest (Tile) to coarsest (Galaxy); a parent's level is always strictly
// greater than every child's.
type Level uint8

const (
	LevelTile Level = iota
	LevelChunk
	LevelZone
	LevelRegion
	LevelPlanet
	LevelSystem
	LevelSector
	LevelGalaxy
)

// LevelCount is the number of defined levels.
const LevelCount = int(LevelGalaxy) + 1

// scaledYears is the in-world years represented by one tick at each level.
// Fixed at compile time — the time-scale ratio is never mutated at runtime
// and strictly increases with level.
var scaledYears = [LevelCount]float64{
	LevelTile:   1.0 / 360.0, // one sim-day
	LevelChunk:  0.1,
	LevelZone:   1,
	LevelRegion: 5,
	LevelPlanet: 25,
	LevelSystem: 100,
	LevelSector: 1000,
	LevelGalaxy: 10000,
}

// minPopulation is the floor each level's population is clamped to when a
// statistical update degenerates. The same idea as a settlement's
// anti-collapse refugee floor: a tier never silently dies to NaN.
var minPopulation = [LevelCount]float64{
	LevelTile:   0,
	LevelChunk:  5,
	LevelZone:   25,
	LevelRegion: 100,
	LevelPlanet: 500,
	LevelSystem: 1000,
	LevelSector: 5000,
	LevelGalaxy: 10000,
}

// ScaledYearsPerTick returns the in-world years one tick represents at
// this level.
func (l Level) ScaledYearsPerTick() float64 {
	if int(l) >= LevelCount {
		return scaledYears[LevelGalaxy]
	}
	return scaledYears[l]
}

// MinPopulation returns the documented population floor for this level.
func (l Level) MinPopulation() float64 {
	if int(l) >= LevelCount {
		return minPopulation[LevelGalaxy]
	}
	return minPopulation[l]
}

// Valid reports whether l names a defined level.
func (l Level) Valid() bool {
	return int(l) < LevelCount
}

// String returns a human-readable level name.
func (l Level) String() string {
	switch l {
	case LevelTile:
		return "tile"
	case LevelChunk:
		return "chunk"
	case LevelZone:
		return "zone"
	case LevelRegion:
		return "region"
	case LevelPlanet:
		return "planet"
	case LevelSystem:
		return "system"
	case LevelSector:
		return "sector"
	case LevelGalaxy:
		return "galaxy"
	default:
		return "unknown"
	}
}
