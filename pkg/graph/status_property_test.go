package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// rank orders lifecycle stages so monotonicity can be checked
// numerically. Unassigned sorts below everything.
func rank(s Status) int {
	switch s {
	case StatusStaged:
		return 1
	case StatusApproved:
		return 2
	case StatusArchived:
		return 3
	}
	return 0
}

func genStatus() gopter.Gen {
	return gen.OneConstOf(
		StatusNone,
		StatusStaged,
		StatusApproved,
		StatusArchived,
		Status("demolished"), // never valid; must always no-op
	)
}

// TestStatusMachineInvariants verifies the lifecycle table against any
// request sequence: the node only ever moves forward, and every step is
// either a permitted transition or leaves the status untouched.
func TestStatusMachineInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("status never moves backward", prop.ForAll(
		func(requests []Status) bool {
			n := NewNode()
			prev := rank(n.Status)
			for _, r := range requests {
				n.SetStatus(r)
				cur := rank(n.Status)
				if cur < prev {
					return false
				}
				prev = cur
			}
			return true
		},
		gen.SliceOf(genStatus()),
	))

	properties.Property("each step is a table transition or a no-op", prop.ForAll(
		func(current, requested Status) bool {
			next := NextStatus(current, requested)
			if next == current {
				return true
			}
			// Changed: must be exactly the requested stage, reached
			// through an edge the table permits.
			return next == requested && statusTransitions[current][requested]
		},
		genStatus(),
		genStatus(),
	))

	properties.Property("assigned status is always a real stage or still unassigned", prop.ForAll(
		func(requests []Status) bool {
			n := NewNode()
			for _, r := range requests {
				n.SetStatus(r)
			}
			return n.Status == StatusNone || ValidStatus(n.Status)
		},
		gen.SliceOf(genStatus()),
	))

	properties.TestingRun(t)
}
