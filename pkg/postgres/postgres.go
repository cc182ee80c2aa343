// Package postgres implements the store interfaces on PostgreSQL with
// PostGIS: point storage with distance ordering, server-side GeoJSON
// serialization and line geometry derived at edge insert time.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/infrascope/infragraph/pkg/store"
)

// Store is the PostGIS-backed repository.
type Store struct {
	pool *pgxpool.Pool
}

// New connects, verifies reachability and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,

		`CREATE TABLE IF NOT EXISTS data_sources (
			data_source_id BIGSERIAL PRIMARY KEY,
			name           TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			url            TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS nodes (
			node_id        BIGSERIAL PRIMARY KEY,
			ref_key        TEXT NOT NULL DEFAULT '',
			node_name      TEXT NOT NULL DEFAULT '',
			type           TEXT NOT NULL,
			function       TEXT NOT NULL DEFAULT 'unknown',
			condition      TEXT NOT NULL DEFAULT 'unknown',
			status         TEXT NOT NULL DEFAULT 'staged',
			location       geometry(Point, 4326) NOT NULL,
			last_updated   TIMESTAMPTZ NOT NULL DEFAULT now(),
			data_source_id BIGINT REFERENCES data_sources (data_source_id),
			area           TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes (type)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_area ON nodes (area)`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_location ON nodes USING GIST (location)`,

		`CREATE TABLE IF NOT EXISTS edges (
			edge_id      BIGSERIAL PRIMARY KEY,
			edge_name    TEXT NOT NULL DEFAULT '',
			from_node_id BIGINT NOT NULL REFERENCES nodes (node_id),
			to_node_id   BIGINT NOT NULL REFERENCES nodes (node_id),
			sector       TEXT NOT NULL DEFAULT 'unknown',
			last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
			location     geometry(LineString, 4326)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}
	return nil
}

var _ store.Store = (*Store)(nil)
