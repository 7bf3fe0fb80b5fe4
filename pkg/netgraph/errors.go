package netgraph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrEdgeNotFound  = errors.New("edge not found")
	ErrSelfLoop      = errors.New("self-loop edges are not allowed")
	ErrInvalidConfig = errors.New("invalid builder configuration")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op     string // Operation that failed (e.g., "MergeEdge", "Node")
	Entity string // Entity type ("node", "edge", "config")
	ID     string // Device id or "src->dst" pair
	Cause  error
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

func newGraphError(op, entity, id string, cause error) *GraphError {
	return &GraphError{Op: op, Entity: entity, ID: id, Cause: cause}
}
