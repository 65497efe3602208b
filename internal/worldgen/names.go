// Name tables for generated celestial bodies.
package worldgen

import (
	"fmt"
	"math/rand"

	"github.com/talgya/macrocosm/internal/tier"
)

var galaxyNames = []string{
	"Vellatrix", "Orunde", "Caldera Reach", "The Silent Wheel",
	"Emberfall", "Nyx Spiral", "Harrowdeep",
}

var systemOnsets = []string{"Al", "Be", "Kor", "Del", "Epsi", "Ther", "Ves", "Oph"}
var systemCodas = []string{"tauri", "phoris", "andra", "nari", "lux", "meda", "rion"}

var planetOnsets = []string{"Ka", "Thal", "Vor", "Mer", "Ilo", "Sen", "Dra", "Ub"}
var planetCodas = []string{"ris", "moor", "heim", "dia", "vast", "lune", "goth"}

func galaxyName(rng *rand.Rand) string {
	return galaxyNames[rng.Intn(len(galaxyNames))]
}

func sectorPrefix(rng *rand.Rand) string {
	return string(rune('A' + rng.Intn(26)))
}

func systemName(rng *rand.Rand) string {
	return fmt.Sprintf("%s%s %d",
		systemOnsets[rng.Intn(len(systemOnsets))],
		systemCodas[rng.Intn(len(systemCodas))],
		rng.Intn(900)+100)
}

func planetName(rng *rand.Rand) string {
	return planetOnsets[rng.Intn(len(planetOnsets))] + planetCodas[rng.Intn(len(planetCodas))]
}

// starClass draws a spectral class with red dwarfs most common.
func starClass(rng *rand.Rand) tier.StarClass {
	roll := rng.Float64()
	switch {
	case roll < 0.55:
		return tier.StarClassM
	case roll < 0.75:
		return tier.StarClassK
	case roll < 0.88:
		return tier.StarClassG
	case roll < 0.96:
		return tier.StarClassF
	default:
		return tier.StarClassA
	}
}
