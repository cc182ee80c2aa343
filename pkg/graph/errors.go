package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across store implementations.
var (
	// ErrNotFound covers both zero matches and, for id lookups, more
	// than one match: a multi-row hit on a primary key is a data
	// integrity fault and must not be surfaced as a success.
	ErrNotFound = errors.New("not found")

	// ErrEdgeUpdateUnsupported is returned when saving an edge that
	// already has an id. Edges are create-only until a dedup/lifecycle
	// redesign lands; callers must create new edges, never update.
	ErrEdgeUpdateUnsupported = errors.New("edge update not supported")
)

// StatusError reports an operation forbidden by a node's lifecycle
// stage, e.g. deleting a node outside staged status.
type StatusError struct {
	Op     string
	NodeID int64
	Status Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s node %d: not permitted in %q status", e.Op, e.NodeID, e.Status)
}

// ValidationError reports a malformed or ambiguous lookup key, e.g. a
// provenance short name that does not exist or matches more than one
// source. Fails fast, never retried.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// IsStatusError reports whether err is a lifecycle violation.
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// IsValidationError reports whether err is a bad lookup key.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
