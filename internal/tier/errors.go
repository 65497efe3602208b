package tier

import "fmt"

// StructuralError is a hard error for hierarchy or lifecycle violations.
// It always names the offending tier and the violated invariant, and the
// operation that raised it is aborted.
type StructuralError struct {
	TierID    string
	Invariant string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("tier %s: structural violation: %s", e.TierID, e.Invariant)
}

func structural(tierID, format string, args ...any) error {
	return &StructuralError{TierID: tierID, Invariant: fmt.Sprintf(format, args...)}
}
