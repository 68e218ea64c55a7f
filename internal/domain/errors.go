package domain

import (
	"errors"
	"fmt"
)

// Error kinds shared by the routing core. Callers match with errors.Is.
var (
	ErrNodeNotFound      = errors.New("node not found")
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrNoPath            = errors.New("no path")
	ErrRouteUnavailable  = errors.New("route unavailable")
	ErrMissingCoordinate = errors.New("missing coordinate")
	ErrInvalidDistance   = errors.New("invalid distance")
	ErrInvalidProfile    = errors.New("invalid vehicle profile")
)

// NodeNotFoundError reports a query against a node the graph does not hold.
type NodeNotFoundError struct {
	ID string
}

func (e *NodeNotFoundError) Error() string { return fmt.Sprintf("node %q not found", e.ID) }

func (e *NodeNotFoundError) Is(target error) bool { return target == ErrNodeNotFound }

// EdgeNotFoundError reports a consecutive path pair with no edge in either direction.
type EdgeNotFoundError struct {
	From string
	To   string
}

func (e *EdgeNotFoundError) Error() string {
	return fmt.Sprintf("edge not found between %q and %q", e.From, e.To)
}

func (e *EdgeNotFoundError) Is(target error) bool { return target == ErrEdgeNotFound }

// Leg identifies which half of a round trip failed.
type Leg string

const (
	LegOutbound Leg = "outbound"
	LegReturn   Leg = "return"
)

// NoPathError reports an unreachable goal. Leg is empty outside round trips.
type NoPathError struct {
	From string
	To   string
	Leg  Leg
}

func (e *NoPathError) Error() string {
	if e.Leg != "" {
		return fmt.Sprintf("no %s path from %q to %q", e.Leg, e.From, e.To)
	}
	return fmt.Sprintf("no path from %q to %q", e.From, e.To)
}

func (e *NoPathError) Is(target error) bool { return target == ErrNoPath }

// RouteUnavailableError wraps any directions-provider failure.
type RouteUnavailableError struct {
	Cause error
}

func (e *RouteUnavailableError) Error() string {
	if e.Cause == nil {
		return ErrRouteUnavailable.Error()
	}
	return fmt.Sprintf("%s: %v", ErrRouteUnavailable, e.Cause)
}

func (e *RouteUnavailableError) Is(target error) bool { return target == ErrRouteUnavailable }

func (e *RouteUnavailableError) Unwrap() error { return e.Cause }

// MissingCoordinateError reports a node that cannot be interpolated.
type MissingCoordinateError struct {
	Node string
}

func (e *MissingCoordinateError) Error() string {
	return fmt.Sprintf("node %q has no coordinate", e.Node)
}

func (e *MissingCoordinateError) Is(target error) bool { return target == ErrMissingCoordinate }
