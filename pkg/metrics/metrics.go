// Package metrics exposes prometheus instrumentation for the import
// and edge-building pipelines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the pipeline metrics on a private prometheus registry
// so parallel test instances never collide on registration.
type Registry struct {
	registry *prometheus.Registry

	NodesImported   prometheus.Counter
	FeaturesDropped prometheus.Counter
	ImportErrors    prometheus.Counter
	EdgesBuilt      *prometheus.CounterVec
	BuildSkips      prometheus.Counter
}

// NewRegistry creates a registry with all pipeline metrics registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initPipelineMetrics()
	return r
}

func (r *Registry) initPipelineMetrics() {
	r.NodesImported = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infragraph_import_nodes_total",
			Help: "Total number of nodes created by the feature importer",
		},
	)

	r.FeaturesDropped = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infragraph_import_features_dropped_total",
			Help: "Total number of raw features matching no classification rule",
		},
	)

	r.ImportErrors = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infragraph_import_errors_total",
			Help: "Total number of features skipped due to store errors",
		},
	)

	r.EdgesBuilt = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "infragraph_edges_built_total",
			Help: "Total number of dependency edges created, by sector",
		},
		[]string{"sector"},
	)

	r.BuildSkips = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "infragraph_edge_build_skips_total",
			Help: "Total number of demand nodes skipped during edge building",
		},
	)
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving the registry in exposition
// format, for cmds that opt into serving /metrics during long runs.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
