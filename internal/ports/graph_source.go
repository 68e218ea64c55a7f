package ports

import (
	"context"
	"delivery-routing-engine/internal/graph"
)

// Startup-time source of the immutable routing graph.
type GraphSource interface {
	LoadGraph(ctx context.Context) (*graph.Graph, error)
}
