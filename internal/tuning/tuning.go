// Package tuning holds the statistical constants that drive every tier
// update. Defaults are compiled in; a YAML file can override them so long
// runs can be rebalanced without a rebuild.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning groups the rate constants consumed by the statistical simulator,
// the adapters, and the emergence model.
type Tuning struct {
	Population PopulationTuning `yaml:"population"`
	Technology TechnologyTuning `yaml:"technology"`
	Economy    EconomyTuning    `yaml:"economy"`
	Belief     BeliefTuning     `yaml:"belief"`
	Events     EventTuning      `yaml:"events"`
	Emergence  EmergenceTuning  `yaml:"emergence"`
}

// PopulationTuning controls logistic growth.
type PopulationTuning struct {
	// BaseGrowthRate is r in dP/dt = r·P·(1−P/K), per scaled year.
	BaseGrowthRate float64 `yaml:"base_growth_rate"`
	// TechCapacityBonus is the fraction of base carrying capacity added
	// per technology level.
	TechCapacityBonus float64 `yaml:"tech_capacity_bonus"`
	// DeclineStability is the stability level (0–100) below which the
	// effective growth rate turns negative.
	DeclineStability float64 `yaml:"decline_stability"`
}

// TechnologyTuning controls research accumulation and level advancement.
type TechnologyTuning struct {
	// ResearcherShare is the fraction of the population counted as
	// active researchers.
	ResearcherShare float64 `yaml:"researcher_share"`
	// PerCapitaRate is research points per researcher per scaled year.
	PerCapitaRate float64 `yaml:"per_capita_rate"`
	// BaseCost is the research cost of the first level; level n costs
	// BaseCost × (n+1)^1.5.
	BaseCost float64 `yaml:"base_cost"`
	// EfficiencyPerLevel is the production multiplier gained per level.
	EfficiencyPerLevel float64 `yaml:"efficiency_per_level"`
}

// EconomyTuning controls stockpile integration.
type EconomyTuning struct {
	// DecayRate is the fraction of each stockpile lost per scaled year.
	DecayRate float64 `yaml:"decay_rate"`
}

// BeliefTuning controls the word-of-mouth belief model.
type BeliefTuning struct {
	// SpreadRate is the per-believer conversion rate per scaled year.
	SpreadRate float64 `yaml:"spread_rate"`
	// TempleBonus is new believers per temple per scaled year.
	TempleBonus float64 `yaml:"temple_bonus"`
	// MiracleBonus is the one-time believer gain per recorded miracle.
	MiracleBonus float64 `yaml:"miracle_bonus"`
	// DecayRate is the per-believer lapse rate per scaled year.
	DecayRate float64 `yaml:"decay_rate"`
	// FoundingPopulation is the population at which a tier with an
	// empty ledger receives a synthetic founding belief.
	FoundingPopulation float64 `yaml:"founding_population"`
}

// EventTuning controls random event rolls.
type EventTuning struct {
	// BaseChance is the per-tick probability of a rare event at full
	// stability. Low stability raises the effective chance.
	BaseChance float64 `yaml:"base_chance"`
	// MegaChance is the independent per-tick probability of a
	// mega-event, rolled at sector level and above only.
	MegaChance float64 `yaml:"mega_chance"`
	// HistoryCap bounds each tier's event log (FIFO trimmed).
	HistoryCap int `yaml:"history_cap"`
}

// EmergenceTuning controls the specialist emergence model.
type EmergenceTuning struct {
	// BaseChance is the per-period emergence probability before
	// infrastructure multipliers.
	BaseChance float64 `yaml:"base_chance"`
	// PoolMultiple is the required count of tier-(N−1) specialists per
	// tier-N emergence. Tiers cannot be skipped.
	PoolMultiple float64 `yaml:"pool_multiple"`
	// InstitutionsPerTier is the dedicated institutions required per
	// requested specialist tier.
	InstitutionsPerTier float64 `yaml:"institutions_per_tier"`
	// StabilityYearsPerTier is the sustained stable years required per
	// requested specialist tier.
	StabilityYearsPerTier float64 `yaml:"stability_years_per_tier"`
	// ResearchPerTier is the active research throughput required per
	// requested specialist tier.
	ResearchPerTier float64 `yaml:"research_per_tier"`
	// FactorBonus is the probability multiplier per satisfied
	// infrastructure condition.
	FactorBonus float64 `yaml:"factor_bonus"`
}

// Default returns the compiled-in tuning values.
func Default() Tuning {
	return Tuning{
		Population: PopulationTuning{
			BaseGrowthRate:    0.02,
			TechCapacityBonus: 0.25,
			DeclineStability:  25,
		},
		Technology: TechnologyTuning{
			ResearcherShare:    0.02,
			PerCapitaRate:      0.05,
			BaseCost:           1000,
			EfficiencyPerLevel: 0.10,
		},
		Economy: EconomyTuning{
			DecayRate: 0.01,
		},
		Belief: BeliefTuning{
			SpreadRate:         0.03,
			TempleBonus:        50,
			MiracleBonus:       500,
			DecayRate:          0.01,
			FoundingPopulation: 5000,
		},
		Events: EventTuning{
			BaseChance: 0.01,
			MegaChance: 0.0002,
			HistoryCap: 64,
		},
		Emergence: EmergenceTuning{
			BaseChance:            0.001,
			PoolMultiple:          100,
			InstitutionsPerTier:   2,
			StabilityYearsPerTier: 10,
			ResearchPerTier:       500,
			FactorBonus:           2.0,
		},
	}
}

// Load reads tuning overrides from a YAML file layered over Default.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning: %w", err)
	}
	return t, nil
}

// Technology thresholds used by the adapters to classify children.
// A child qualifying for the higher threshold also counts for the lower one.
const (
	// SpacefaringTechLevel marks a child as spacefaring-capable.
	SpacefaringTechLevel = 7
	// FTLTechLevel marks a child as faster-than-light-capable.
	FTLTechLevel = 9
)

// Megastructure thresholds. A civilization above both gets
// megastructure-class infrastructure scaled to its technology level.
const (
	MegastructurePopulation = 1e12
	MegastructureTechLevel  = 12
)
