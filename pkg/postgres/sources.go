package postgres

import (
	"context"
	"fmt"

	"github.com/infrascope/infragraph/pkg/graph"
)

// SourceByShortName resolves a provenance record by its unique short
// name. Zero matches and multiple matches are both lookup-key faults,
// surfaced as ValidationError rather than a storage failure.
func (s *Store) SourceByShortName(ctx context.Context, shortName string) (*graph.Source, error) {
	query := `SELECT data_source_id, name, description, url FROM data_sources WHERE name = $1`

	rows, err := s.pool.Query(ctx, query, shortName)
	if err != nil {
		return nil, fmt.Errorf("failed to query source %q: %w", shortName, err)
	}
	defer rows.Close()

	var found *graph.Source
	for rows.Next() {
		if found != nil {
			return nil, &graph.ValidationError{Field: "source", Value: shortName, Reason: "short name is not unique"}
		}
		src := &graph.Source{}
		if err := rows.Scan(&src.ID, &src.Name, &src.Description, &src.URL); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		found = src
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sources: %w", err)
	}
	if found == nil {
		return nil, &graph.ValidationError{Field: "source", Value: shortName, Reason: "short name does not exist"}
	}
	return found, nil
}

// AddSource registers a provenance record, returning its assigned id.
func (s *Store) AddSource(ctx context.Context, src *graph.Source) (int64, error) {
	query := `
		INSERT INTO data_sources (name, description, url)
		VALUES ($1, $2, $3)
		RETURNING data_source_id
	`
	if err := s.pool.QueryRow(ctx, query, src.Name, src.Description, src.URL).Scan(&src.ID); err != nil {
		return 0, fmt.Errorf("failed to add source: %w", err)
	}
	return src.ID, nil
}
