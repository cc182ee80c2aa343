package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/infrascope/infragraph/pkg/graph"
	"github.com/infrascope/infragraph/pkg/metrics"
	"github.com/infrascope/infragraph/pkg/store"
)

// Importer turns classified raw features into staged nodes. With no
// node store configured it runs dry: accepted features print as one
// tab-separated line each, for inspection without committing anything.
type Importer struct {
	nodes   store.NodeStore // nil in dry-run mode
	out     io.Writer
	source  *graph.Source
	area    string
	runID   uuid.UUID
	logger  *slog.Logger
	metrics *metrics.Registry
}

// Options configures an import run.
type Options struct {
	// Nodes receives created nodes. Leave nil for a dry run.
	Nodes store.NodeStore

	// Out receives dry-run TSV lines. Defaults to io.Discard.
	Out io.Writer

	// Source is the provenance record stamped on every created node.
	Source *graph.Source

	// Area is the region label stamped on every created node.
	Area string

	Logger  *slog.Logger
	Metrics *metrics.Registry
}

// New creates an importer. Every run carries a fresh UUID used in logs
// and completion events.
func New(opts Options) *Importer {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	runID := uuid.New()
	return &Importer{
		nodes:   opts.Nodes,
		out:     opts.Out,
		source:  opts.Source,
		area:    opts.Area,
		runID:   runID,
		logger:  opts.Logger.With("run_id", runID.String()),
		metrics: opts.Metrics,
	}
}

// RunID identifies this import run.
func (imp *Importer) RunID() uuid.UUID {
	return imp.runID
}

// Summary reports what an import run did.
type Summary struct {
	RunID   uuid.UUID
	Created int // nodes persisted (or printed, in a dry run)
	Dropped int // features matching no rule
	Skipped int // features that failed to persist
}

// Run consumes the whole feature source. Features that fail to persist
// are logged and skipped; only a source-level failure (unreadable file,
// cancelled context) aborts the run.
func (imp *Importer) Run(ctx context.Context, src FeatureSource) (Summary, error) {
	summary := Summary{RunID: imp.runID}

	err := src.Features(ctx, func(f RawFeature) error {
		created, err := imp.handleFeature(ctx, f)
		switch {
		case err != nil:
			summary.Skipped++
			imp.metrics.ImportErrors.Inc()
			imp.logger.Warn("skipping feature", "ref", f.Ref, "error", err)
		case created == 0:
			summary.Dropped++
			imp.metrics.FeaturesDropped.Inc()
		default:
			summary.Created += created
		}
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("reading features: %w", err)
	}

	imp.logger.Info("import complete",
		"created", summary.Created,
		"dropped", summary.Dropped,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// handleFeature classifies one feature and saves a node per firing
// rule group. Returns the number of nodes created.
func (imp *Importer) handleFeature(ctx context.Context, f RawFeature) (int, error) {
	types := Classify(f.Tags)
	if len(types) == 0 {
		return 0, nil
	}

	created := 0
	for _, nodeType := range types {
		if err := imp.saveNode(ctx, f, nodeType); err != nil {
			return created, err
		}
		created++
		imp.metrics.NodesImported.Inc()
	}
	return created, nil
}

func (imp *Importer) saveNode(ctx context.Context, f RawFeature, nodeType string) error {
	location := f.Location.Round()

	if imp.nodes == nil {
		_, err := fmt.Fprintf(imp.out, "%s\t%s\t%s\t%s\n", f.Ref, f.Name(), nodeType, location.WKT())
		return err
	}

	n := graph.NewNode()
	n.RefKey = f.Ref
	n.Name = f.Name()
	n.Type = nodeType
	n.Location = location
	n.Area = imp.area
	if imp.source != nil {
		n.SourceID = imp.source.ID
	}
	n.SetStatus(graph.StatusStaged)

	_, err := imp.nodes.CreateNode(ctx, n)
	return err
}
