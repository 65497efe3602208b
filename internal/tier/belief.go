package tier

// Narrow mutators for the divinity collaborator. Temples and miracles are
// only ever written through these; the belief differential update consumes
// them and never invents its own.

// RecordMiracle notes a miracle for the given belief, creating the ledger
// entry if absent. The next belief update folds it into a one-time
// believer bonus.
func (n *Node) RecordMiracle(beliefID string) {
	b := n.belief(beliefID)
	b.Miracles++
	b.RecentEvents++
}

// AddTemple adds a temple for the given belief.
func (n *Node) AddTemple(beliefID string) {
	n.belief(beliefID).Temples++
}

// Belief returns the ledger entry for the given belief, or nil if the tier
// has no following for it.
func (n *Node) Belief(beliefID string) *Belief {
	return n.Beliefs[beliefID]
}

func (n *Node) belief(beliefID string) *Belief {
	b, ok := n.Beliefs[beliefID]
	if !ok {
		b = &Belief{}
		n.Beliefs[beliefID] = b
	}
	return b
}
