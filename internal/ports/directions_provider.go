package ports

import (
	"context"
	"crypto/sha256"
	"delivery-routing-engine/internal/domain"
	"encoding/hex"
	"strconv"
	"strings"
)

// Ordered list of place descriptors and whether the provider may reorder them.
type DirectionsRequest struct {
	Locations []string `json:"locations"`
	Optimize  bool     `json:"optimize"`
}

// CacheKey identifies equivalent requests (whitespace-insensitive).
func (r DirectionsRequest) CacheKey() string {
	h := sha256.New()
	for _, l := range r.Locations {
		h.Write([]byte(strings.Join(strings.Fields(l), " ")))
		h.Write([]byte{0})
	}
	h.Write([]byte(strconv.FormatBool(r.Optimize)))
	return hex.EncodeToString(h.Sum(nil))
}

type ProviderManeuver struct {
	StartPoint domain.Coordinates `json:"start_point"`
	Narrative  string             `json:"narrative"`
	DistanceKm float64            `json:"distance_km"`
	TimeSecs   int                `json:"time_secs"`
	TurnType   int                `json:"turn_type"`
	Streets    []string           `json:"streets,omitempty"`
}

type ProviderLeg struct {
	Maneuvers []ProviderManeuver `json:"maneuvers"`
	// Flat lat,lng sequence for this leg, when the provider returns one.
	ShapePoints []float64 `json:"shape_points,omitempty"`
}

type ProviderLocation struct {
	Street string              `json:"street"`
	City   string              `json:"city"`
	LatLng *domain.Coordinates `json:"lat_lng,omitempty"`
}

type ProviderRoute struct {
	DistanceKm float64       `json:"distance_km"`
	TimeSecs   int           `json:"time_secs"`
	Legs       []ProviderLeg `json:"legs"`
	// Flat lat,lng sequence for the whole route.
	ShapePoints []float64           `json:"shape_points,omitempty"`
	Locations   []ProviderLocation  `json:"locations,omitempty"`
	BoundingBox *domain.BoundingBox `json:"bounding_box,omitempty"`
}

// Provider payload as returned. A non-zero StatusCode marks a failed request
// even when the transport succeeded.
type DirectionsResponse struct {
	StatusCode int            `json:"status_code"`
	Messages   []string       `json:"messages,omitempty"`
	Route      *ProviderRoute `json:"route,omitempty"`
}

// Contract for the external multi-stop directions service.
type DirectionsProvider interface {
	// Return leg-by-leg maneuvers, geometry and visit order for the locations.
	Directions(ctx context.Context, req DirectionsRequest) (*DirectionsResponse, error)
}
