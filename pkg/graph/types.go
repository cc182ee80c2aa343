// Package graph defines the infrastructure network model: point assets
// (nodes), directed dependency relationships between them (edges), and
// the provenance and region labels that partition them.
package graph

import (
	"time"

	"github.com/infrascope/infragraph/pkg/geometry"
)

// Node is a point asset or point of demand in the infrastructure
// network. The type field is an open set: new asset categories arrive
// from data, not from code, so it is a plain string rather than a
// closed enum. KnownNodeTypes carries the values used for UI hinting.
type Node struct {
	ID          int64
	RefKey      string // external reference id from the source dataset
	Name        string
	Location    geometry.Point
	Type        string
	Function    string
	Condition   string
	Status      Status
	LastUpdated time.Time
	SourceID    int64
	Area        string
}

// NewNode returns a node with the free-text classification fields at
// their "unknown" defaults.
func NewNode() *Node {
	return &Node{
		Function:  "unknown",
		Condition: "unknown",
	}
}

// KnownNodeTypes lists the asset categories the importer currently
// produces. Hinting only; stores accept any non-empty type string.
var KnownNodeTypes = []string{
	"bank",
	"school",
	"hospital",
	"tower",
	"waste_water_treatment",
	"water_treatment",
}

// Edge is a directed dependency between two nodes. From is the
// upstream/supply side and To the downstream/demand side: service
// flows from → to. Geometry is derived by the store from the endpoint
// locations and held here as serialized GeoJSON.
type Edge struct {
	ID          int64
	Name        string
	FromNodeID  int64
	ToNodeID    int64
	Sector      string
	LastUpdated time.Time
	Geometry    string
}

// NewEdge returns an edge with the sector at its "unknown" default.
func NewEdge() *Edge {
	return &Edge{Sector: "unknown"}
}

// Source is a provenance record: the originating dataset for imported
// nodes, e.g. an OpenStreetMap extract or an NGO-provided shapefile.
// Looked up read-only by its unique short name.
type Source struct {
	ID          int64
	Name        string
	Description string
	URL         string
}

// Area is a region label used to classify nodes into areas of
// interest. Not a first-class table: a distinct-value projection over
// the node set.
type Area struct {
	Name string
}

// Clone returns a deep copy so store internals never leak to callers.
func (n *Node) Clone() *Node {
	c := *n
	return &c
}

// Clone returns a deep copy of the edge.
func (e *Edge) Clone() *Edge {
	c := *e
	return &c
}
