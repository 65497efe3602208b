// Belief dynamics: word-of-mouth spread, temple and miracle bonuses, lapse.
package statsim

import (
	"hash/fnv"

	"github.com/talgya/macrocosm/internal/tier"
	"github.com/talgya/macrocosm/internal/tuning"
)

// UpdateBeliefs advances every belief in the ledger over dt scaled years.
// Believer counts grow with a word-of-mouth term proportional to current
// believers plus a per-temple bonus and a one-time per-miracle bonus, and
// shrink with a decay term. Counts are clamped to [0, population]. Miracle
// counters are consumed and reset once folded in.
func UpdateBeliefs(beliefs map[string]*tier.Belief, population float64, t tuning.BeliefTuning, dt float64) {
	for _, b := range beliefs {
		delta := t.SpreadRate*b.Believers*dt +
			t.TempleBonus*float64(b.Temples)*dt +
			t.MiracleBonus*float64(b.Miracles) -
			t.DecayRate*b.Believers*dt
		b.Miracles = 0

		next := b.Believers + delta
		if !finite(next) || next < 0 {
			next = 0
		}
		if next > population {
			next = population
		}
		b.Believers = next
	}
}

var beliefOnsets = []string{"Va", "Kor", "Ael", "Thu", "Mir", "Osh", "Zan", "Ily"}
var beliefCodas = []string{"rath", "moth", "iel", "andra", "keth", "una", "goth", "essa"}

// FoundingBeliefName derives a deterministic placeholder deity name from a
// tier id. This is deliberately simple filler for an otherwise-empty
// belief ledger, not real narrative content.
func FoundingBeliefName(tierID string) string {
	h := fnv.New32a()
	h.Write([]byte(tierID))
	sum := h.Sum32()
	onset := beliefOnsets[sum%uint32(len(beliefOnsets))]
	coda := beliefCodas[(sum/8)%uint32(len(beliefCodas))]
	return "Cult of " + onset + coda
}
