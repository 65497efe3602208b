// Package worldgen bootstraps the bottom of the hierarchy from synthetic
// terrain. Leaf tiles are sampled from layered simplex noise and imported
// as tiers; every level above them is assembled by the aggregation
// adapters. Deterministic for a given seed.
package worldgen

import (
	"fmt"
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/macrocosm/internal/adapters"
	"github.com/talgya/macrocosm/internal/tier"
)

// GenConfig holds hierarchy generation parameters: the branching factor at
// each assembled level.
type GenConfig struct {
	Seed int64

	TilesPerChunk    int
	ChunksPerZone    int
	ZonesPerRegion   int
	RegionsPerPlanet int
	PlanetsPerSystem int
	SystemsPerSector int
	SectorsPerGalaxy int
}

// DefaultGenConfig returns a small hierarchy suitable for development:
// a single galaxy of a few thousand leaf tiles.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Seed:             0,
		TilesPerChunk:    4,
		ChunksPerZone:    4,
		ZonesPerRegion:   3,
		RegionsPerPlanet: 3,
		PlanetsPerSystem: 3,
		SystemsPerSector: 3,
		SectorsPerGalaxy: 2,
	}
}

// Generate builds one galaxy subtree from leaf import upward.
func Generate(cfg GenConfig) (*tier.Node, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	gen := &generator{
		cfg:       cfg,
		habNoise:  opensimplex.NewNormalized(seed),
		tempNoise: opensimplex.NewNormalized(seed + 1),
		rng:       rand.New(rand.NewSource(seed + 2)),
	}
	return gen.galaxy()
}

type generator struct {
	cfg       GenConfig
	habNoise  opensimplex.Noise
	tempNoise opensimplex.Noise
	rng       *rand.Rand
	tileIdx   int
}

func (g *generator) galaxy() (*tier.Node, error) {
	var sectors []*tier.Node
	for i := 0; i < g.cfg.SectorsPerGalaxy; i++ {
		s, err := g.sector(i)
		if err != nil {
			return nil, err
		}
		sectors = append(sectors, s)
	}
	a, err := adapters.ForLevel(tier.LevelGalaxy)
	if err != nil {
		return nil, err
	}
	return a.Build(galaxyName(g.rng), sectors, 0)
}

func (g *generator) sector(i int) (*tier.Node, error) {
	var systems []*tier.Node
	for j := 0; j < g.cfg.SystemsPerSector; j++ {
		s, err := g.system()
		if err != nil {
			return nil, err
		}
		systems = append(systems, s)
	}
	a, err := adapters.ForLevel(tier.LevelSector)
	if err != nil {
		return nil, err
	}
	return a.Build(fmt.Sprintf("Sector %s-%d", sectorPrefix(g.rng), i+1), systems, 0)
}

func (g *generator) system() (*tier.Node, error) {
	var planets []*tier.Node
	for i := 0; i < g.cfg.PlanetsPerSystem; i++ {
		p, err := g.planet()
		if err != nil {
			return nil, err
		}
		planets = append(planets, p)
	}
	a, err := adapters.ForLevel(tier.LevelSystem)
	if err != nil {
		return nil, err
	}
	n, err := a.Build(systemName(g.rng), planets, 0)
	if err != nil {
		return nil, err
	}
	// Star parameters: class drawn by weight, habitable zone scaled by
	// luminosity (hot stars push the zone outward).
	lum := 0.2 + g.rng.Float64()*2.3
	n.Ext = &tier.SystemExt{
		Star:       starClass(g.rng),
		Luminosity: lum,
		HabZoneIn:  0.75 * math.Sqrt(lum),
		HabZoneOut: 1.8 * math.Sqrt(lum),
	}
	return n, nil
}

func (g *generator) planet() (*tier.Node, error) {
	var regions []*tier.Node
	for i := 0; i < g.cfg.RegionsPerPlanet; i++ {
		r, err := g.region(i)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	a, err := adapters.ForLevel(tier.LevelPlanet)
	if err != nil {
		return nil, err
	}
	n, err := a.Build(planetName(g.rng), regions, 0)
	if err != nil {
		return nil, err
	}
	n.Ext = &tier.PlanetExt{
		Habitability: g.rng.Float64(),
		SurfaceArea:  100 + g.rng.Float64()*400,
	}
	return n, nil
}

func (g *generator) region(i int) (*tier.Node, error) {
	var zones []*tier.Node
	for j := 0; j < g.cfg.ZonesPerRegion; j++ {
		z, err := g.zone(j)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	a, err := adapters.ForLevel(tier.LevelRegion)
	if err != nil {
		return nil, err
	}
	return a.Build(fmt.Sprintf("Region %d", i+1), zones, 0)
}

func (g *generator) zone(i int) (*tier.Node, error) {
	var chunks []*tier.Node
	for j := 0; j < g.cfg.ChunksPerZone; j++ {
		c, err := g.chunk(j)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c)
	}
	a, err := adapters.ForLevel(tier.LevelZone)
	if err != nil {
		return nil, err
	}
	return a.Build(fmt.Sprintf("Zone %d", i+1), chunks, 0)
}

// chunk assembles leaf tiles directly — no adapter exists this far down.
func (g *generator) chunk(i int) (*tier.Node, error) {
	n, err := tier.NewNode(fmt.Sprintf("Chunk %d", i+1), tier.LevelChunk)
	if err != nil {
		return nil, err
	}
	for j := 0; j < g.cfg.TilesPerChunk; j++ {
		t, err := g.tile()
		if err != nil {
			return nil, err
		}
		if err := n.AddChild(t); err != nil {
			return nil, err
		}
		n.Pop.Count += t.Pop.Count
		n.Pop.CarryingCapacity += t.Pop.CarryingCapacity
		n.Stab.Stability += t.Stab.Stability / float64(g.cfg.TilesPerChunk)
		n.Stab.Infrastructure += t.Stab.Infrastructure / float64(g.cfg.TilesPerChunk)
		for r, v := range t.Econ.Production {
			n.Econ.Production[r] += v
		}
		for r, v := range t.Econ.Consumption {
			n.Econ.Consumption[r] += v
		}
	}
	return n, nil
}

// tile is the leaf import: one terrain cell sampled from the noise fields.
func (g *generator) tile() (*tier.Node, error) {
	g.tileIdx++
	x := float64(g.tileIdx) * 0.13
	y := float64(g.tileIdx) * 0.07

	hab := octaveNoise(g.habNoise, x, y, 4, 0.08, 0.5)
	temp := octaveNoise(g.tempNoise, x, y, 3, 0.05, 0.5)
	// Extreme climates cut habitability.
	hab *= 1 - math.Abs(temp-0.5)

	n, err := tier.NewNode(fmt.Sprintf("Tile %d", g.tileIdx), tier.LevelTile)
	if err != nil {
		return nil, err
	}
	capacity := hab * 10000
	n.Pop.CarryingCapacity = capacity
	n.Pop.Count = capacity * (0.1 + g.rng.Float64()*0.3)
	n.Stab.Stability = 40 + hab*30
	n.Stab.Infrastructure = 10 + hab*20
	n.Econ.Production[tier.ResourceFood] = capacity * 0.5
	n.Econ.Production[tier.ResourceMaterials] = (1 - hab) * 1000
	n.Econ.Consumption[tier.ResourceFood] = n.Pop.Count * 0.3
	return n, nil
}

// octaveNoise layers multiple noise frequencies for natural variation.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}
