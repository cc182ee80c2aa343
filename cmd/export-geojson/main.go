// Command export-geojson writes the graph as GeoJSON feature
// collection snapshots, to local files and optionally to S3:
//
//	export-geojson --out ./extracts --area monaco --compress
//	export-geojson --out ./extracts --s3-bucket infragraph-snapshots
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/infrascope/infragraph/pkg/config"
	"github.com/infrascope/infragraph/pkg/geojson"
	"github.com/infrascope/infragraph/pkg/postgres"
	"github.com/infrascope/infragraph/pkg/snapshot"
)

func main() {
	outDir := flag.String("out", ".", "Directory for snapshot files")
	area := flag.String("area", "", "Restrict nodes to one area label")
	compress := flag.Bool("compress", false, "Snappy-compress snapshot files")
	s3Bucket := flag.String("s3-bucket", "", "Also publish snapshots to this S3 bucket")
	s3Prefix := flag.String("s3-prefix", "extracts", "Key prefix for S3 publication")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	if cfg.DatabaseURL == "" {
		logger.Error("INFRAGRAPH_DATABASE_URL must be set to export")
		os.Exit(1)
	}
	if *s3Bucket == "" {
		*s3Bucket = cfg.Snapshot.Bucket
	}
	if !*compress {
		*compress = cfg.Snapshot.Compress
	}

	ctx := context.Background()
	pg, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	facade := geojson.NewFacade(pg, pg)

	nodes, err := facade.NodesFeatureCollection(ctx, *area)
	if err != nil {
		logger.Error("failed to assemble nodes", "error", err)
		os.Exit(1)
	}
	edges, err := facade.EdgesFeatureCollection(ctx)
	if err != nil {
		logger.Error("failed to assemble edges", "error", err)
		os.Exit(1)
	}

	collections := map[string]*geojson.FeatureCollection{
		"nodes.geojson": nodes,
		"edges.geojson": edges,
	}

	var publisher *snapshot.S3Publisher
	if *s3Bucket != "" {
		publisher, err = snapshot.NewS3Publisher(ctx, *s3Bucket)
		if err != nil {
			logger.Error("failed to set up s3", "bucket", *s3Bucket, "error", err)
			os.Exit(1)
		}
	}

	for name, fc := range collections {
		written, err := snapshot.WriteFile(filepath.Join(*outDir, name), fc, *compress)
		if err != nil {
			logger.Error("failed to write snapshot", "file", name, "error", err)
			os.Exit(1)
		}
		logger.Info("snapshot written", "file", written, "features", len(fc.Features))

		if publisher != nil {
			key := *s3Prefix + "/" + filepath.Base(written)
			if err := publisher.Publish(ctx, key, fc); err != nil {
				logger.Error("failed to publish snapshot", "key", key, "error", err)
				os.Exit(1)
			}
			logger.Info("snapshot published", "bucket", *s3Bucket, "key", key)
		}
	}
}
