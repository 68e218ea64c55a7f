package domain

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Immutable geographic coordinates (latitude, longitude).
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Return coordinates as [lat, lng] for polyline and provider compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lat, c.Lon} }

// Great-circle distance between two coordinates in kilometers.
func HaversineKm(a, b Coordinates) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// BoundingBox is the rectangle enclosing a planned route (upper-left, lower-right).
type BoundingBox struct {
	UpperLeft  Coordinates `json:"upper_left"`
	LowerRight Coordinates `json:"lower_right"`
}

// String renders "ulLat,ulLng,lrLat,lrLng", the form traffic-incident overlays accept.
func (b BoundingBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.UpperLeft.Lat, b.UpperLeft.Lon, b.LowerRight.Lat, b.LowerRight.Lon)
}
