package graph

// Status is the lifecycle stage of a node. The lifecycle is monotonic:
// staged (draft) → approved (validated) → archived (retired), with the
// initial assignment free to pick any stage.
type Status string

const (
	// StatusNone is the zero value of an unassigned status.
	StatusNone Status = ""
	// StatusStaged marks a draft node; the only stage where delete is allowed.
	StatusStaged Status = "staged"
	// StatusApproved marks a validated node.
	StatusApproved Status = "approved"
	// StatusArchived marks a retired node.
	StatusArchived Status = "archived"
)

// statusTransitions is the whole state machine in one table:
// current × requested → permitted. Anything absent is a no-op, not an
// error; callers that request an invalid transition keep the current
// status. This no-op policy is deliberate and load-bearing: bulk edit
// paths request transitions blindly and rely on the table to drop the
// invalid ones.
var statusTransitions = map[Status]map[Status]bool{
	StatusNone: {
		StatusStaged:   true,
		StatusApproved: true,
		StatusArchived: true,
	},
	StatusStaged: {
		StatusApproved: true,
	},
	StatusApproved: {
		StatusArchived: true,
	},
}

// NextStatus resolves a requested transition against the table,
// returning the new status when permitted and the current status
// unchanged otherwise.
func NextStatus(current, requested Status) Status {
	if statusTransitions[current][requested] {
		return requested
	}
	return current
}

// SetStatus applies a requested status transition to the node. Invalid
// requests leave the status unchanged.
func (n *Node) SetStatus(requested Status) {
	n.Status = NextStatus(n.Status, requested)
}

// Deletable reports whether the node may be removed from the store.
// Only staged nodes are deletable: edges may reference approved and
// archived nodes, and deleting those would leave dangling references.
func (n *Node) Deletable() bool {
	return n.Status == StatusStaged
}

// ValidStatus reports whether s is one of the three lifecycle stages.
func ValidStatus(s Status) bool {
	switch s {
	case StatusStaged, StatusApproved, StatusArchived:
		return true
	}
	return false
}
