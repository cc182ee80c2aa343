package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/infrascope/infragraph/pkg/geometry"
	"github.com/infrascope/infragraph/pkg/graph"
	"github.com/infrascope/infragraph/pkg/store"

	"github.com/jackc/pgx/v5"
)

const nodeColumns = `node_id, ref_key, node_name, type, function, condition, status,
	ST_X(location), ST_Y(location), last_updated, COALESCE(data_source_id, 0), area`

func scanNode(row pgx.Row) (*graph.Node, error) {
	n := &graph.Node{}
	err := row.Scan(
		&n.ID,
		&n.RefKey,
		&n.Name,
		&n.Type,
		&n.Function,
		&n.Condition,
		&n.Status,
		&n.Location.Lon,
		&n.Location.Lat,
		&n.LastUpdated,
		&n.SourceID,
		&n.Area,
	)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// CreateNode persists a new node; the point geometry is stored from
// WKT in SRID 4326 and the id and timestamp come back from the insert.
func (s *Store) CreateNode(ctx context.Context, n *graph.Node) (int64, error) {
	if n.Type == "" {
		return 0, &graph.ValidationError{Field: "type", Value: "", Reason: "node type must not be empty"}
	}
	if n.Status != graph.StatusNone && !graph.ValidStatus(n.Status) {
		return 0, &graph.ValidationError{Field: "status", Value: string(n.Status), Reason: "not a lifecycle stage"}
	}

	query := `
		INSERT INTO nodes (ref_key, node_name, type, function, condition, status, location, data_source_id, area)
		VALUES ($1, $2, $3, $4, $5, $6, ST_SetSRID(ST_GeomFromText($7), 4326), NULLIF($8, 0), $9)
		RETURNING node_id, last_updated
	`

	err := s.pool.QueryRow(ctx, query,
		n.RefKey,
		n.Name,
		n.Type,
		n.Function,
		n.Condition,
		n.Status,
		n.Location.WKT(),
		n.SourceID,
		n.Area,
	).Scan(&n.ID, &n.LastUpdated)
	if err != nil {
		return 0, fmt.Errorf("failed to create node: %w", err)
	}
	return n.ID, nil
}

// NodeByID loads one node. Both zero and multiple matches map to
// graph.ErrNotFound; a multi-row hit on the primary key is an
// integrity fault and must not look like success.
func (s *Store) NodeByID(ctx context.Context, id int64) (*graph.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes WHERE node_id = $1`

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query node %d: %w", id, err)
	}
	defer rows.Close()

	var found *graph.Node
	for rows.Next() {
		if found != nil {
			return nil, graph.ErrNotFound
		}
		found, err = scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node %d: %w", id, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read node %d: %w", id, err)
	}
	if found == nil {
		return nil, graph.ErrNotFound
	}
	return found, nil
}

// Nodes lists nodes matching the filter, ordered by id.
func (s *Store) Nodes(ctx context.Context, filter store.NodeFilter) ([]*graph.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes
		WHERE ($1 = '' OR area = $1)
		AND ($2 = '' OR type = $2)
		ORDER BY node_id`

	rows, err := s.pool.Query(ctx, query, filter.Area, filter.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*graph.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}
	return nodes, nil
}

// SaveNode overwrites the mutable fields and refreshes last_updated.
// Status transitions are applied by the caller via Node.SetStatus
// before saving; the store does not re-validate them.
func (s *Store) SaveNode(ctx context.Context, n *graph.Node) error {
	query := `
		UPDATE nodes SET
			ref_key = $2,
			node_name = $3,
			type = $4,
			function = $5,
			condition = $6,
			status = $7,
			location = ST_SetSRID(ST_GeomFromText($8), 4326),
			data_source_id = NULLIF($9, 0),
			area = $10,
			last_updated = now()
		WHERE node_id = $1
		RETURNING last_updated
	`

	err := s.pool.QueryRow(ctx, query,
		n.ID,
		n.RefKey,
		n.Name,
		n.Type,
		n.Function,
		n.Condition,
		n.Status,
		n.Location.WKT(),
		n.SourceID,
		n.Area,
	).Scan(&n.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return graph.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to save node %d: %w", n.ID, err)
	}
	return nil
}

// DeleteNode removes a staged node inside one transaction, re-reading
// the persisted status under lock so a concurrent approval cannot race
// the delete.
func (s *Store) DeleteNode(ctx context.Context, n *graph.Node) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	var status graph.Status
	err = tx.QueryRow(ctx, `SELECT status FROM nodes WHERE node_id = $1 FOR UPDATE`, n.ID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return graph.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock node %d: %w", n.ID, err)
	}

	if status != graph.StatusStaged {
		return &graph.StatusError{Op: "delete", NodeID: n.ID, Status: status}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM nodes WHERE node_id = $1`, n.ID); err != nil {
		return fmt.Errorf("failed to delete node %d: %w", n.ID, err)
	}
	return tx.Commit(ctx)
}

// NodeTypes lists the distinct node types present.
func (s *Store) NodeTypes(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT type FROM nodes ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to list node types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan node type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// Areas lists the distinct non-empty area labels present.
func (s *Store) Areas(ctx context.Context) ([]graph.Area, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT area FROM nodes WHERE area <> '' ORDER BY area`)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	defer rows.Close()

	var areas []graph.Area
	for rows.Next() {
		var a graph.Area
		if err := rows.Scan(&a.Name); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// NearestNodeOfType returns the nodeType node closest to at, using the
// spatial index for the distance ordering. The edge builder prefers an
// in-memory tree per run; this exists for one-off lookups.
func (s *Store) NearestNodeOfType(ctx context.Context, at geometry.Point, nodeType string) (*graph.Node, error) {
	query := `SELECT ` + nodeColumns + ` FROM nodes
		WHERE type = $1
		ORDER BY location <-> ST_SetSRID(ST_GeomFromText($2), 4326) ASC
		LIMIT 1`

	n, err := scanNode(s.pool.QueryRow(ctx, query, nodeType, at.WKT()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, graph.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find nearest %s: %w", nodeType, err)
	}
	return n, nil
}
