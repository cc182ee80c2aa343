// Package geojson assembles nodes and edges into GeoJSON feature
// collections for external callers: the served shape of the graph.
package geojson

import (
	"encoding/json"
	"time"

	"github.com/infrascope/infragraph/pkg/graph"
)

// TimestampLayout is how last_updated renders in feature properties.
const TimestampLayout = time.RFC1123Z // "Mon, 02 Jan 2006 15:04:05 -0700"

// Feature is one GeoJSON feature.
type Feature struct {
	Type       string          `json:"type"`
	Geometry   json.RawMessage `json:"geometry"`
	Properties any             `json:"properties"`
}

// FeatureCollection bundles features for serving.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// NewFeatureCollection returns an empty collection with the GeoJSON
// type discriminator set. Features is non-nil so an empty collection
// serializes as [] rather than null.
func NewFeatureCollection() *FeatureCollection {
	return &FeatureCollection{
		Type:     "FeatureCollection",
		Features: []Feature{},
	}
}

// NodeProperties is the fixed projection served for a node.
type NodeProperties struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Function    string       `json:"function"`
	Condition   string       `json:"condition"`
	LastUpdated *string      `json:"last_updated"`
	Status      graph.Status `json:"status"`
}

// EdgeProperties is the fixed projection served for an edge.
type EdgeProperties struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Sector      string  `json:"sector"`
	FromNodeID  int64   `json:"from_node_id"`
	ToNodeID    int64   `json:"to_node_id"`
	LastUpdated *string `json:"last_updated"`
}

// NodeFeature projects a node into a GeoJSON feature with its stored
// location as a Point geometry.
func NodeFeature(n *graph.Node) (Feature, error) {
	geom, err := json.Marshal(n.Location.GeoJSON())
	if err != nil {
		return Feature{}, err
	}
	return Feature{
		Type:     "Feature",
		Geometry: geom,
		Properties: NodeProperties{
			ID:          n.ID,
			Name:        n.Name,
			Type:        n.Type,
			Function:    n.Function,
			Condition:   n.Condition,
			LastUpdated: timestamp(n.LastUpdated),
			Status:      n.Status,
		},
	}, nil
}

// EdgeFeature projects an edge into a GeoJSON feature carrying the
// store-derived line geometry.
func EdgeFeature(e *graph.Edge) Feature {
	var geom json.RawMessage
	if e.Geometry != "" {
		geom = json.RawMessage(e.Geometry)
	} else {
		geom = json.RawMessage("null")
	}
	return Feature{
		Type:     "Feature",
		Geometry: geom,
		Properties: EdgeProperties{
			ID:          e.ID,
			Name:        e.Name,
			Sector:      e.Sector,
			FromNodeID:  e.FromNodeID,
			ToNodeID:    e.ToNodeID,
			LastUpdated: timestamp(e.LastUpdated),
		},
	}
}

// timestamp renders a mutation time, or nil (serialized as null) when
// the entity has never been stamped.
func timestamp(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(TimestampLayout)
	return &s
}
