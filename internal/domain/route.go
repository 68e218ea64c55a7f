package domain

// One leg instruction of a turn-by-turn route as returned by the directions provider.
type Maneuver struct {
	StartPoint      Coordinates
	Narrative       string
	DistanceKm      float64
	DurationSeconds int
	TurnType        int
	Streets         []string
}

// A visit stop in the order the provider resolved (possibly optimized).
type ResolvedLocation struct {
	Address  string
	Position Coordinates
}

// Represents a planned multi-stop route.
// A RoutePlan is the output of the orchestrator. When the directions provider
// was unavailable and the local graph answered instead, Degraded is set,
// Maneuvers and Polyline are empty and NodePath carries the graph path.
type RoutePlan struct {
	Locations       []string
	Optimized       bool
	Maneuvers       []Maneuver
	Polyline        []Coordinates
	BoundingBox     *BoundingBox
	ResolvedOrder   []ResolvedLocation
	DistanceKm      float64
	DurationSeconds int
	StraightLineKm  float64
	NodePath        []string
	Degraded        bool
}
