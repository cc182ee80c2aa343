package geojson

import (
	"context"
	"fmt"

	"github.com/infrascope/infragraph/pkg/store"
)

// Facade is the read side of the graph: it assembles stored nodes and
// edges into GeoJSON-ready feature collections for external callers.
type Facade struct {
	nodes store.NodeStore
	edges store.EdgeStore
}

// NewFacade wraps the given stores.
func NewFacade(nodes store.NodeStore, edges store.EdgeStore) *Facade {
	return &Facade{nodes: nodes, edges: edges}
}

// NodesFeatureCollection serves all nodes, optionally restricted to an
// area label. Pass "" for everything.
func (f *Facade) NodesFeatureCollection(ctx context.Context, area string) (*FeatureCollection, error) {
	nodes, err := f.nodes.Nodes(ctx, store.NodeFilter{Area: area})
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	fc := NewFeatureCollection()
	for _, n := range nodes {
		feature, err := NodeFeature(n)
		if err != nil {
			return nil, fmt.Errorf("projecting node %d: %w", n.ID, err)
		}
		fc.Features = append(fc.Features, feature)
	}
	return fc, nil
}

// EdgesFeatureCollection serves all edges.
func (f *Facade) EdgesFeatureCollection(ctx context.Context) (*FeatureCollection, error) {
	edges, err := f.edges.Edges(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing edges: %w", err)
	}

	fc := NewFeatureCollection()
	for _, e := range edges {
		fc.Features = append(fc.Features, EdgeFeature(e))
	}
	return fc, nil
}
