// Command build-edges infers nearest-of-type dependency edges between
// existing nodes:
//
//	build-edges water_treatment hospital water
//
// links every hospital to its nearest water treatment works with a
// water-sector edge. From → to is the flow of service, so the from
// type is the supply side and the to type the demand side.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/infrascope/infragraph/pkg/config"
	"github.com/infrascope/infragraph/pkg/edgebuilder"
	"github.com/infrascope/infragraph/pkg/events"
	"github.com/infrascope/infragraph/pkg/metrics"
	"github.com/infrascope/infragraph/pkg/postgres"
)

// buildTimeout bounds a whole run so a wedged store surfaces as a
// failure rather than a hang.
const buildTimeout = 5 * time.Minute

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "Usage: build-edges <from_type> <to_type> <sector>")
		os.Exit(1)
	}
	fromType := os.Args[1]
	toType := os.Args[2]
	sector := os.Args[3]

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	if cfg.DatabaseURL == "" {
		logger.Error("INFRAGRAPH_DATABASE_URL must be set to build edges")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), buildTimeout)
	defer cancel()

	pg, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	builder := edgebuilder.New(pg, pg, edgebuilder.Options{
		Logger:  logger,
		Metrics: metrics.NewRegistry(),
	})

	created, err := builder.BuildEdges(ctx, fromType, toType, sector)
	if err != nil {
		logger.Error("edge build failed", "error", err)
		os.Exit(1)
	}

	if cfg.EventsAddr != "" {
		pub, err := events.NewPublisher(cfg.EventsAddr)
		if err != nil {
			logger.Warn("events unavailable", "error", err)
		} else {
			defer pub.Close()
			err := pub.Publish(events.Event{
				Kind:   events.KindEdgesBuilt,
				Sector: sector,
				Count:  created,
			})
			if err != nil {
				logger.Warn("failed to publish event", "error", err)
			}
		}
	}
}
