package edgebuilder

import (
	"context"
	"testing"

	"github.com/infrascope/infragraph/pkg/geometry"
	"github.com/infrascope/infragraph/pkg/graph"
	"github.com/infrascope/infragraph/pkg/store"
)

func seedNode(t *testing.T, s *store.MemStore, nodeType string, lon, lat float64) *graph.Node {
	t.Helper()
	n := graph.NewNode()
	n.Type = nodeType
	n.Location = geometry.Point{Lon: lon, Lat: lat}
	n.SetStatus(graph.StatusStaged)
	if _, err := s.CreateNode(context.Background(), n); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	return n
}

func TestBuildEdgesLinksNearestSupply(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	a := seedNode(t, s, "supply", 0, 0)
	b := seedNode(t, s, "supply", 10, 10)
	c := seedNode(t, s, "demand", 1, 1)

	builder := New(s, s, Options{})
	created, err := builder.BuildEdges(ctx, "supply", "demand", "sector1")
	if err != nil {
		t.Fatalf("BuildEdges failed: %v", err)
	}
	if created != 1 {
		t.Fatalf("created = %d, want 1", created)
	}

	edges, err := s.Edges(ctx)
	if err != nil {
		t.Fatalf("Edges failed: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(edges))
	}

	e := edges[0]
	if e.FromNodeID != a.ID || e.ToNodeID != c.ID {
		t.Errorf("edge = %d→%d, want %d→%d (A is nearer to C than B)", e.FromNodeID, e.ToNodeID, a.ID, c.ID)
	}
	if e.FromNodeID == b.ID || e.ToNodeID == b.ID {
		t.Error("edge involves B, which should be untouched")
	}
	if e.Sector != "sector1" {
		t.Errorf("Sector = %q, want sector1", e.Sector)
	}
}

func TestBuildEdgesTwiceDoublesCount(t *testing.T) {
	// no dedup: double-running is documented to double the edge set
	ctx := context.Background()
	s := store.NewMemStore()

	seedNode(t, s, "supply", 0, 0)
	seedNode(t, s, "demand", 1, 1)
	seedNode(t, s, "demand", 2, 2)

	builder := New(s, s, Options{})
	for i := 0; i < 2; i++ {
		if _, err := builder.BuildEdges(ctx, "supply", "demand", "sector1"); err != nil {
			t.Fatalf("BuildEdges run %d failed: %v", i+1, err)
		}
	}

	edges, err := s.Edges(ctx)
	if err != nil {
		t.Fatalf("Edges failed: %v", err)
	}
	if len(edges) != 4 {
		t.Errorf("got %d edges after two runs, want 4", len(edges))
	}
}

func TestBuildEdgesNoSupply(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	seedNode(t, s, "demand", 1, 1)

	builder := New(s, s, Options{})
	created, err := builder.BuildEdges(ctx, "supply", "demand", "sector1")
	if err != nil {
		t.Fatalf("BuildEdges failed: %v", err)
	}
	if created != 0 {
		t.Errorf("created = %d, want 0", created)
	}

	edges, _ := s.Edges(ctx)
	if len(edges) != 0 {
		t.Errorf("got %d edges, want 0", len(edges))
	}
}

func TestBuildEdgesNoDemand(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()
	seedNode(t, s, "supply", 0, 0)

	builder := New(s, s, Options{})
	created, err := builder.BuildEdges(ctx, "supply", "demand", "sector1")
	if err != nil {
		t.Fatalf("BuildEdges failed: %v", err)
	}
	if created != 0 {
		t.Errorf("created = %d, want 0", created)
	}
}

func TestBuildEdgesEachDemandGetsOneEdge(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemStore()

	near := seedNode(t, s, "water_treatment", 0, 0)
	far := seedNode(t, s, "water_treatment", 50, 50)
	h1 := seedNode(t, s, "hospital", 1, 0)
	h2 := seedNode(t, s, "hospital", 49, 50)

	builder := New(s, s, Options{})
	created, err := builder.BuildEdges(ctx, "water_treatment", "hospital", "water")
	if err != nil {
		t.Fatalf("BuildEdges failed: %v", err)
	}
	if created != 2 {
		t.Fatalf("created = %d, want 2", created)
	}

	edges, _ := s.Edges(ctx)
	byTo := make(map[int64]int64, len(edges))
	for _, e := range edges {
		byTo[e.ToNodeID] = e.FromNodeID
	}
	if byTo[h1.ID] != near.ID {
		t.Errorf("hospital %d linked from %d, want %d", h1.ID, byTo[h1.ID], near.ID)
	}
	if byTo[h2.ID] != far.ID {
		t.Errorf("hospital %d linked from %d, want %d", h2.ID, byTo[h2.ID], far.ID)
	}
}
