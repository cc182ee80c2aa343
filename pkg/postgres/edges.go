package postgres

import (
	"context"
	"fmt"

	"github.com/infrascope/infragraph/pkg/graph"
)

// CreateEdge persists a new edge. Endpoint existence is checked inside
// the same transaction as the insert, and the line geometry is derived
// server-side with ST_MakeLine from the endpoint locations.
func (s *Store) CreateEdge(ctx context.Context, e *graph.Edge) (int64, error) {
	if e.FromNodeID == e.ToNodeID {
		return 0, &graph.ValidationError{Field: "to_node_id", Value: "", Reason: "edge endpoints must differ"}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin edge create: %w", err)
	}
	defer tx.Rollback(ctx)

	var endpointCount int
	err = tx.QueryRow(ctx,
		`SELECT count(*) FROM nodes WHERE node_id IN ($1, $2)`,
		e.FromNodeID, e.ToNodeID,
	).Scan(&endpointCount)
	if err != nil {
		return 0, fmt.Errorf("failed to check edge endpoints: %w", err)
	}
	if endpointCount != 2 {
		return 0, graph.ErrNotFound
	}

	query := `
		INSERT INTO edges (edge_name, from_node_id, to_node_id, sector, location)
		VALUES ($1, $2, $3, $4, ST_MakeLine(
			(SELECT location FROM nodes WHERE node_id = $2),
			(SELECT location FROM nodes WHERE node_id = $3)
		))
		RETURNING edge_id, last_updated, ST_AsGeoJSON(location)
	`

	err = tx.QueryRow(ctx, query,
		e.Name,
		e.FromNodeID,
		e.ToNodeID,
		e.Sector,
	).Scan(&e.ID, &e.LastUpdated, &e.Geometry)
	if err != nil {
		return 0, fmt.Errorf("failed to create edge: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit edge: %w", err)
	}
	return e.ID, nil
}

// Edges lists all edges with their geometry serialized to GeoJSON
// server-side.
func (s *Store) Edges(ctx context.Context) ([]*graph.Edge, error) {
	query := `
		SELECT edge_id, edge_name, from_node_id, to_node_id, sector, last_updated,
			COALESCE(ST_AsGeoJSON(location), '')
		FROM edges
		ORDER BY edge_id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list edges: %w", err)
	}
	defer rows.Close()

	var edges []*graph.Edge
	for rows.Next() {
		e := &graph.Edge{}
		err := rows.Scan(&e.ID, &e.Name, &e.FromNodeID, &e.ToNodeID, &e.Sector, &e.LastUpdated, &e.Geometry)
		if err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}
	return edges, nil
}

// SaveEdge rejects updates to persisted edges; edges are create-only
// until a dedup/lifecycle redesign lands.
func (s *Store) SaveEdge(ctx context.Context, e *graph.Edge) error {
	if e.ID != 0 {
		return graph.ErrEdgeUpdateUnsupported
	}
	_, err := s.CreateEdge(ctx, e)
	return err
}
