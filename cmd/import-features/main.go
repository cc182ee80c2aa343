// Command import-features ingests an OpenStreetMap extract into the
// infrastructure graph:
//
//	import-features ./monaco-latest.osm osm_extract monaco
//
// The data source short name must already be registered. With no
// database configured (INFRAGRAPH_DATABASE_URL unset) the run is dry:
// accepted features print to stdout as tab-separated lines.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/infrascope/infragraph/pkg/config"
	"github.com/infrascope/infragraph/pkg/events"
	"github.com/infrascope/infragraph/pkg/importer"
	"github.com/infrascope/infragraph/pkg/metrics"
	"github.com/infrascope/infragraph/pkg/osm"
	"github.com/infrascope/infragraph/pkg/postgres"
)

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: import-features <path_to_feature_file> <data_source_short_name> <area_short_name>")
		os.Exit(1)
	}
	path := os.Args[1]
	sourceName := os.Args[2]
	area := os.Args[3]

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	ctx := context.Background()

	opts := importer.Options{
		Out:     os.Stdout,
		Area:    area,
		Logger:  logger,
		Metrics: metrics.NewRegistry(),
	}

	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer pg.Close()

		source, err := pg.SourceByShortName(ctx, sourceName)
		if err != nil {
			logger.Error("failed to resolve data source", "source", sourceName, "error", err)
			os.Exit(1)
		}
		opts.Nodes = pg
		opts.Source = source
	} else {
		logger.Info("no database configured, dry run", "source", sourceName)
	}

	imp := importer.New(opts)

	summary, err := imp.Run(ctx, osm.File{Path: path})
	if err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}

	if cfg.EventsAddr != "" {
		pub, err := events.NewPublisher(cfg.EventsAddr)
		if err != nil {
			logger.Warn("events unavailable", "error", err)
		} else {
			defer pub.Close()
			err := pub.Publish(events.Event{
				Kind:  events.KindImportCompleted,
				RunID: summary.RunID.String(),
				Area:  area,
				Count: summary.Created,
			})
			if err != nil {
				logger.Warn("failed to publish event", "error", err)
			}
		}
	}
}
