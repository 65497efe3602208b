package tier

import "sort"

// HighlightCap bounds the preserved-highlight list per tier, so memory
// stays bounded regardless of population size.
const HighlightCap = 16

// HighlightKind classifies a preserved highlight.
type HighlightKind uint8

const (
	HighlightPerson HighlightKind = iota
	HighlightStructure
	HighlightEvent
)

// Highlight is a named individual, structure, or historical event that
// survives summarization verbatim because it is narratively load-bearing.
type Highlight struct {
	Kind        HighlightKind `json:"kind"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Tick        uint64        `json:"tick"`
	// Flagged highlights were explicitly marked significant by the
	// game-rules collaborator and always survive the cap.
	Flagged bool `json:"flagged,omitempty"`
	// Salience ranks unflagged highlights for top-K retention.
	Salience float64 `json:"salience"`
}

// PreserveHighlight records a highlight, then re-trims the list: flagged
// entries first, the rest by descending salience, capped at HighlightCap.
func (n *Node) PreserveHighlight(h Highlight) {
	n.Highlights = append(n.Highlights, h)
	if len(n.Highlights) <= HighlightCap {
		return
	}
	sort.SliceStable(n.Highlights, func(i, j int) bool {
		a, b := n.Highlights[i], n.Highlights[j]
		if a.Flagged != b.Flagged {
			return a.Flagged
		}
		return a.Salience > b.Salience
	})
	n.Highlights = n.Highlights[:HighlightCap]
}
