package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/infrascope/infragraph/pkg/geometry"
	"github.com/infrascope/infragraph/pkg/graph"
)

// MemStore is a mutex-guarded in-memory Store. It backs tests and
// dry-run imports, and is the reference for the store contract: the
// postgres implementation must be observably equivalent.
type MemStore struct {
	mu         sync.RWMutex
	nodes      map[int64]*graph.Node
	edges      map[int64]*graph.Edge
	sources    map[int64]*graph.Source
	nextNodeID int64
	nextEdgeID int64
	nextSrcID  int64

	// now is swappable so tests can pin timestamps.
	now func() time.Time
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		nodes:      make(map[int64]*graph.Node),
		edges:      make(map[int64]*graph.Edge),
		sources:    make(map[int64]*graph.Source),
		nextNodeID: 1,
		nextEdgeID: 1,
		nextSrcID:  1,
		now:        time.Now,
	}
}

// CreateNode persists a new node and returns its assigned id.
func (s *MemStore) CreateNode(ctx context.Context, n *graph.Node) (int64, error) {
	if n.Type == "" {
		return 0, &graph.ValidationError{Field: "type", Value: "", Reason: "node type must not be empty"}
	}
	if n.Status != graph.StatusNone && !graph.ValidStatus(n.Status) {
		return 0, &graph.ValidationError{Field: "status", Value: string(n.Status), Reason: "not a lifecycle stage"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextNodeID
	s.nextNodeID++

	stored := n.Clone()
	stored.ID = id
	stored.LastUpdated = s.now()
	s.nodes[id] = stored

	n.ID = id
	n.LastUpdated = stored.LastUpdated
	return id, nil
}

// NodeByID loads one node or graph.ErrNotFound.
func (s *MemStore) NodeByID(ctx context.Context, id int64) (*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return nil, graph.ErrNotFound
	}
	return n.Clone(), nil
}

// Nodes lists nodes matching the filter, ordered by id.
func (s *MemStore) Nodes(ctx context.Context, filter NodeFilter) ([]*graph.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*graph.Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		if filter.Area != "" && n.Area != filter.Area {
			continue
		}
		if filter.Type != "" && n.Type != filter.Type {
			continue
		}
		out = append(out, n.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveNode overwrites an existing node's mutable fields and refreshes
// last_updated.
func (s *MemStore) SaveNode(ctx context.Context, n *graph.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.nodes[n.ID]
	if !ok {
		return graph.ErrNotFound
	}

	stored.RefKey = n.RefKey
	stored.Name = n.Name
	stored.Location = n.Location
	stored.Type = n.Type
	stored.Function = n.Function
	stored.Condition = n.Condition
	stored.Status = n.Status
	stored.SourceID = n.SourceID
	stored.Area = n.Area
	stored.LastUpdated = s.now()

	n.LastUpdated = stored.LastUpdated
	return nil
}

// DeleteNode removes a staged node. Outside staged status the delete
// fails with a StatusError and the node is left untouched.
func (s *MemStore) DeleteNode(ctx context.Context, n *graph.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.nodes[n.ID]
	if !ok {
		return graph.ErrNotFound
	}
	if !stored.Deletable() {
		return &graph.StatusError{Op: "delete", NodeID: stored.ID, Status: stored.Status}
	}

	delete(s.nodes, n.ID)
	return nil
}

// NodeTypes lists the distinct node types present, sorted.
func (s *MemStore) NodeTypes(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, n := range s.nodes {
		seen[n.Type] = true
	}
	types := make([]string, 0, len(seen))
	for t := range seen {
		types = append(types, t)
	}
	sort.Strings(types)
	return types, nil
}

// Areas lists the distinct non-empty area labels present, sorted.
func (s *MemStore) Areas(ctx context.Context) ([]graph.Area, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	for _, n := range s.nodes {
		if n.Area != "" {
			seen[n.Area] = true
		}
	}
	names := make([]string, 0, len(seen))
	for a := range seen {
		names = append(names, a)
	}
	sort.Strings(names)

	areas := make([]graph.Area, len(names))
	for i, name := range names {
		areas[i] = graph.Area{Name: name}
	}
	return areas, nil
}

// CreateEdge persists a new edge. Both endpoints must exist, differ,
// and the line geometry is derived from their locations here, mirroring
// what the spatial database does server-side.
func (s *MemStore) CreateEdge(ctx context.Context, e *graph.Edge) (int64, error) {
	if e.FromNodeID == e.ToNodeID {
		return 0, &graph.ValidationError{Field: "to_node_id", Value: "", Reason: "edge endpoints must differ"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.nodes[e.FromNodeID]
	if !ok {
		return 0, graph.ErrNotFound
	}
	to, ok := s.nodes[e.ToNodeID]
	if !ok {
		return 0, graph.ErrNotFound
	}

	line, err := json.Marshal(geometry.Line(from.Location, to.Location))
	if err != nil {
		return 0, err
	}

	id := s.nextEdgeID
	s.nextEdgeID++

	stored := e.Clone()
	stored.ID = id
	stored.LastUpdated = s.now()
	stored.Geometry = string(line)
	s.edges[id] = stored

	e.ID = id
	e.LastUpdated = stored.LastUpdated
	e.Geometry = stored.Geometry
	return id, nil
}

// Edges lists all edges, ordered by id.
func (s *MemStore) Edges(ctx context.Context) ([]*graph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*graph.Edge, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SaveEdge rejects updates to persisted edges; see graph.ErrEdgeUpdateUnsupported.
func (s *MemStore) SaveEdge(ctx context.Context, e *graph.Edge) error {
	if e.ID != 0 {
		return graph.ErrEdgeUpdateUnsupported
	}
	_, err := s.CreateEdge(ctx, e)
	return err
}

// AddSource seeds a provenance record, returning its assigned id.
func (s *MemStore) AddSource(src *graph.Source) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSrcID
	s.nextSrcID++
	stored := *src
	stored.ID = id
	s.sources[id] = &stored
	src.ID = id
	return id
}

// SourceByShortName resolves a source by its unique short name.
func (s *MemStore) SourceByShortName(ctx context.Context, shortName string) (*graph.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *graph.Source
	for _, src := range s.sources {
		if src.Name != shortName {
			continue
		}
		if found != nil {
			return nil, &graph.ValidationError{Field: "source", Value: shortName, Reason: "short name is not unique"}
		}
		found = src
	}
	if found == nil {
		return nil, &graph.ValidationError{Field: "source", Value: shortName, Reason: "short name does not exist"}
	}
	c := *found
	return &c, nil
}

var _ Store = (*MemStore)(nil)
