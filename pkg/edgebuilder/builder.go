// Package edgebuilder infers dependency edges between node types: for
// every node of a demand-side type, link the nearest node of a
// supply-side type. Service flows from → to, so "from" is supply and
// "to" is demand.
package edgebuilder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/infrascope/infragraph/pkg/graph"
	"github.com/infrascope/infragraph/pkg/metrics"
	"github.com/infrascope/infragraph/pkg/store"
)

// Builder creates nearest-of-type dependency edges. Runs are not
// deduplicated: building the same (from, to, sector) twice doubles the
// edge count, so callers serialize and do not re-run imports.
type Builder struct {
	nodes   store.NodeStore
	edges   store.EdgeStore
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Options configures a builder.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Registry
}

// New creates a builder over the given stores.
func New(nodes store.NodeStore, edges store.EdgeStore, opts Options) *Builder {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	return &Builder{
		nodes:   nodes,
		edges:   edges,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
}

// BuildEdges links every toType node to its nearest fromType node with
// one sector-tagged edge, returning the number of edges created. An
// empty supply or demand set is a no-op, not an error. Per-node edge
// failures are logged and skipped so one bad node never aborts a run.
func (b *Builder) BuildEdges(ctx context.Context, fromType, toType, sector string) (int, error) {
	supply, err := b.nodes.Nodes(ctx, store.NodeFilter{Type: fromType})
	if err != nil {
		return 0, fmt.Errorf("loading %s nodes: %w", fromType, err)
	}
	if len(supply) == 0 {
		b.logger.Info("no supply nodes, nothing to link", "from_type", fromType)
		return 0, nil
	}

	demand, err := b.nodes.Nodes(ctx, store.NodeFilter{Type: toType})
	if err != nil {
		return 0, fmt.Errorf("loading %s nodes: %w", toType, err)
	}

	tree := newKDTree(supply)

	created := 0
	for _, to := range demand {
		if err := ctx.Err(); err != nil {
			return created, err
		}

		from := tree.Nearest(to.Location)

		e := graph.NewEdge()
		e.FromNodeID = from.ID
		e.ToNodeID = to.ID
		e.Sector = sector

		if _, err := b.edges.CreateEdge(ctx, e); err != nil {
			b.metrics.BuildSkips.Inc()
			b.logger.Warn("skipping demand node",
				"to_node_id", to.ID,
				"from_node_id", from.ID,
				"error", err,
			)
			continue
		}
		created++
		b.metrics.EdgesBuilt.WithLabelValues(sector).Inc()
	}

	b.logger.Info("edge build complete",
		"from_type", fromType,
		"to_type", toType,
		"sector", sector,
		"created", created,
	)
	return created, nil
}
