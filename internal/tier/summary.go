package tier

// BeliefShare is one belief's slice of a summary's distribution.
type BeliefShare struct {
	Believers    float64 `json:"believers"`
	Temples      int     `json:"temples"`
	RecentEvents int     `json:"recent_events"`
}

// Summary is the lossy statistical digest produced by summarize. Exact
// positions, individual relationships, and moment-to-moment behavior are
// gone for good — only the aggregates and the preserved highlights remain.
type Summary struct {
	TierID NodeID `json:"tier_id"`
	Tick   uint64 `json:"tick"`
	Level  Level  `json:"level"`

	Population       float64 `json:"population"`
	GrowthRate       float64 `json:"growth_rate"`
	CarryingCapacity float64 `json:"carrying_capacity"`

	Stockpiles     map[Resource]float64 `json:"stockpiles"`
	Stability      float64              `json:"stability"`
	Infrastructure float64              `json:"infrastructure"`
	TechLevel      int                  `json:"tech_level"`
	Research       float64              `json:"research"`

	Beliefs    map[string]BeliefShare `json:"beliefs"`
	Highlights []Highlight            `json:"highlights"`
}

// Valid reports whether the summary carries a usable digest.
func (s *Summary) Valid() bool {
	return s != nil && s.TierID != "" && s.Population >= 0
}

// Constraints is the instantiation output handed to the external
// population-generation collaborator on zoom-in. Generation from the same
// summary and seed is deterministic; the collaborator's output need not be.
type Constraints struct {
	TierID NodeID `json:"tier_id"`
	Seed   int64  `json:"seed"`

	TargetPopulation int64 `json:"target_population"`

	// BeliefShares maps belief id → fraction of the population to
	// generate as believers.
	BeliefShares map[string]float64 `json:"belief_shares"`

	AvgSkillLevel float64 `json:"avg_skill_level"`
	Stability     float64 `json:"stability"`

	// Mandatory named entities that must appear in the generated
	// population, drawn from the summary's preserved highlights.
	Mandatory []Highlight `json:"mandatory"`
}
