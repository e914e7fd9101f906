package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCyclicDependency is returned when the edge set does not form a DAG.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrUnresolvedReference is a programming error: an attribute was read
	// before the owning node was materialized.
	ErrUnresolvedReference = errors.New("unresolved reference fault")
	// ErrDuplicateNode is returned when a logical identifier is reused.
	ErrDuplicateNode = errors.New("duplicate node")
	// ErrUnknownNode is returned when an edge or reference names a node that
	// is not part of the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrAlreadyResolved is returned on a second write to an attribute slot.
	ErrAlreadyResolved = errors.New("attributes already resolved")
	// ErrMissingAttribute is returned when a resolved node lacks a key.
	ErrMissingAttribute = errors.New("missing attribute")
)

// CycleError describes a cycle found while ordering the graph.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(e.Cycle, " -> "))
}

// Is makes errors.Is(err, ErrCyclicDependency) match.
func (e *CycleError) Is(target error) bool { return target == ErrCyclicDependency }

// AsCycleError returns the CycleError in err's chain, or nil.
func AsCycleError(err error) *CycleError {
	var ce *CycleError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// NodeError attaches the offending node's logical identifier to an error.
type NodeError struct {
	NodeID string
	Err    error
}

func (e *NodeError) Error() string { return fmt.Sprintf("node %s: %v", e.NodeID, e.Err) }
func (e *NodeError) Unwrap() error { return e.Err }

// NodeIDOf returns the logical identifier attached to err, if any.
func NodeIDOf(err error) (string, bool) {
	var ne *NodeError
	if errors.As(err, &ne) {
		return ne.NodeID, true
	}
	return "", false
}

func nodeErr(id string, err error) error { return &NodeError{NodeID: id, Err: err} }

func nodeErrf(id, format string, a ...any) error {
	return nodeErr(id, fmt.Errorf(format, a...))
}
