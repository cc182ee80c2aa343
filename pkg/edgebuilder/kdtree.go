package edgebuilder

import (
	"sort"

	"github.com/infrascope/infragraph/pkg/geometry"
	"github.com/infrascope/infragraph/pkg/graph"
)

// kdNode is one cell of a 2-d tree over node locations, splitting on
// longitude at even depths and latitude at odd depths.
type kdNode struct {
	node        *graph.Node
	left, right *kdNode
}

// kdTree answers nearest-neighbor queries over a fixed node set. Built
// once per edge-building run, queried once per demand node, replacing a
// round trip to the store per query.
type kdTree struct {
	root *kdNode
}

// newKDTree builds a balanced tree by median splitting. The input
// slice is reordered in place.
func newKDTree(nodes []*graph.Node) *kdTree {
	return &kdTree{root: build(nodes, 0)}
}

func build(nodes []*graph.Node, depth int) *kdNode {
	if len(nodes) == 0 {
		return nil
	}

	axis := depth % 2
	sort.Slice(nodes, func(i, j int) bool {
		return coord(nodes[i], axis) < coord(nodes[j], axis)
	})

	mid := len(nodes) / 2
	return &kdNode{
		node:  nodes[mid],
		left:  build(nodes[:mid], depth+1),
		right: build(nodes[mid+1:], depth+1),
	}
}

func coord(n *graph.Node, axis int) float64 {
	if axis == 0 {
		return n.Location.Lon
	}
	return n.Location.Lat
}

// Nearest returns the node closest to at by planar distance in degree
// space, or nil for an empty tree. Equidistant candidates resolve to
// whichever the traversal reaches first.
func (t *kdTree) Nearest(at geometry.Point) *graph.Node {
	var best *graph.Node
	bestDist := 0.0

	var search func(kd *kdNode, depth int)
	search = func(kd *kdNode, depth int) {
		if kd == nil {
			return
		}

		d := geometry.DistanceSq(at, kd.node.Location)
		if best == nil || d < bestDist {
			best = kd.node
			bestDist = d
		}

		axis := depth % 2
		var target float64
		if axis == 0 {
			target = at.Lon
		} else {
			target = at.Lat
		}
		delta := target - coord(kd.node, axis)

		near, far := kd.left, kd.right
		if delta > 0 {
			near, far = kd.right, kd.left
		}

		search(near, depth+1)
		// The far side can only win if the splitting plane is closer
		// than the best candidate found so far.
		if delta*delta < bestDist {
			search(far, depth+1)
		}
	}
	search(t.root, 0)

	return best
}
