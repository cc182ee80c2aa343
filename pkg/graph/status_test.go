package graph

import (
	"testing"
)

func TestNextStatusTable(t *testing.T) {
	cases := []struct {
		current, requested, want Status
	}{
		// initial assignment: any stage
		{StatusNone, StatusStaged, StatusStaged},
		{StatusNone, StatusApproved, StatusApproved},
		{StatusNone, StatusArchived, StatusArchived},
		// forward transitions
		{StatusStaged, StatusApproved, StatusApproved},
		{StatusApproved, StatusArchived, StatusArchived},
		// invalid requests are silent no-ops
		{StatusStaged, StatusArchived, StatusStaged},
		{StatusStaged, StatusStaged, StatusStaged},
		{StatusApproved, StatusStaged, StatusApproved},
		{StatusApproved, StatusApproved, StatusApproved},
		{StatusArchived, StatusStaged, StatusArchived},
		{StatusArchived, StatusApproved, StatusArchived},
		{StatusArchived, StatusArchived, StatusArchived},
		{StatusArchived, StatusNone, StatusArchived},
		{StatusApproved, StatusNone, StatusApproved},
		{StatusStaged, Status("bogus"), StatusStaged},
		{StatusNone, Status("bogus"), StatusNone},
	}

	for _, c := range cases {
		if got := NextStatus(c.current, c.requested); got != c.want {
			t.Errorf("NextStatus(%q, %q) = %q, want %q", c.current, c.requested, got, c.want)
		}
	}
}

func TestSetStatus(t *testing.T) {
	n := NewNode()
	n.SetStatus(StatusStaged)
	if n.Status != StatusStaged {
		t.Fatalf("Status = %q, want staged", n.Status)
	}

	// staged cannot jump straight to archived
	n.SetStatus(StatusArchived)
	if n.Status != StatusStaged {
		t.Errorf("Status = %q after staged→archived request, want staged", n.Status)
	}

	n.SetStatus(StatusApproved)
	n.SetStatus(StatusArchived)
	if n.Status != StatusArchived {
		t.Errorf("Status = %q, want archived", n.Status)
	}
}

func TestDeletable(t *testing.T) {
	n := NewNode()
	n.SetStatus(StatusStaged)
	if !n.Deletable() {
		t.Error("staged node should be deletable")
	}
	n.SetStatus(StatusApproved)
	if n.Deletable() {
		t.Error("approved node should not be deletable")
	}
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode()
	if n.Function != "unknown" || n.Condition != "unknown" {
		t.Errorf("defaults = (%q, %q), want (unknown, unknown)", n.Function, n.Condition)
	}
	if n.Status != StatusNone {
		t.Errorf("Status = %q, want unassigned", n.Status)
	}
}
