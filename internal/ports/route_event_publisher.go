package ports

import (
	"context"
	"time"
)

// Notification handed to the storage layer after a route was planned.
type RoutePlannedEvent struct {
	Locations       []string  `json:"locations"`
	Optimized       bool      `json:"optimized"`
	Degraded        bool      `json:"degraded"`
	DistanceKm      float64   `json:"distance_km"`
	DurationSeconds int       `json:"duration_seconds"`
	BoundingBox     string    `json:"bounding_box,omitempty"`
	PlannedAt       time.Time `json:"planned_at"`
}

type RouteEventPublisher interface {
	PublishRoutePlanned(ctx context.Context, evt RoutePlannedEvent) error
}
