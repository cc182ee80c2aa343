// Package store defines the repository boundary for the infrastructure
// graph and provides an in-memory implementation. The postgres package
// provides the PostGIS-backed implementation of the same interfaces.
package store

import (
	"context"

	"github.com/infrascope/infragraph/pkg/graph"
)

// NodeFilter narrows node listings. Zero-value fields match everything.
type NodeFilter struct {
	Area string
	Type string
}

// NodeStore is the persistence capability for nodes.
type NodeStore interface {
	// CreateNode persists a new node, assigns its id and stamps
	// last_updated. The id on the passed node is ignored.
	CreateNode(ctx context.Context, n *graph.Node) (int64, error)

	// NodeByID loads one node. Returns graph.ErrNotFound when zero
	// rows match, and also when more than one matches: a duplicated
	// primary key is an integrity fault, not a success.
	NodeByID(ctx context.Context, id int64) (*graph.Node, error)

	// Nodes lists nodes matching the filter.
	Nodes(ctx context.Context, filter NodeFilter) ([]*graph.Node, error)

	// SaveNode overwrites the mutable fields of an existing node and
	// refreshes last_updated. Status transitions are not re-validated
	// here; they must already have gone through Node.SetStatus.
	SaveNode(ctx context.Context, n *graph.Node) error

	// DeleteNode removes a node. Permitted only while the node is
	// staged; otherwise a *graph.StatusError is returned and the node
	// stays persisted unchanged.
	DeleteNode(ctx context.Context, n *graph.Node) error

	// NodeTypes lists the distinct node types present.
	NodeTypes(ctx context.Context) ([]string, error)

	// Areas lists the distinct non-empty area labels present.
	Areas(ctx context.Context) ([]graph.Area, error)
}

// EdgeStore is the persistence capability for edges.
type EdgeStore interface {
	// CreateEdge persists a new edge, assigns its id, stamps
	// last_updated and derives the line geometry from the endpoint
	// locations. Both endpoints must exist and must differ.
	CreateEdge(ctx context.Context, e *graph.Edge) (int64, error)

	// Edges lists all edges.
	Edges(ctx context.Context) ([]*graph.Edge, error)

	// SaveEdge exists for symmetry with nodes but edges are
	// create-only: passing an edge with a nonzero id returns
	// graph.ErrEdgeUpdateUnsupported.
	SaveEdge(ctx context.Context, e *graph.Edge) error
}

// SourceStore resolves provenance records.
type SourceStore interface {
	// SourceByShortName looks a source up by its unique short name.
	// Zero or multiple matches yield a *graph.ValidationError.
	SourceByShortName(ctx context.Context, shortName string) (*graph.Source, error)
}

// Store bundles the three repository capabilities a full deployment
// provides.
type Store interface {
	NodeStore
	EdgeStore
	SourceStore
}
