package dto

type ShortestPathRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ShortestPathResponse struct {
	Path      []string `json:"path"`
	Distance  float64  `json:"distance"`
	Reachable bool     `json:"reachable"`
}

type PlanRouteRequest struct {
	Locations []string `json:"locations"`
	Optimize  bool     `json:"optimize"`
}

type ManeuverResponse struct {
	StartPoint      []float64 `json:"start_point"`
	Narrative       string    `json:"narrative"`
	DistanceKm      float64   `json:"distance_km"`
	DurationSeconds int       `json:"duration_seconds"`
	TurnType        int       `json:"turn_type"`
	Streets         []string  `json:"streets,omitempty"`
}

type ResolvedLocationResponse struct {
	Address  string    `json:"address"`
	Position []float64 `json:"position"`
}

type PlanRouteResponse struct {
	Locations       []string                   `json:"locations"`
	Optimized       bool                       `json:"optimized"`
	Degraded        bool                       `json:"degraded"`
	DistanceKm      float64                    `json:"distance_km"`
	DurationSeconds int                        `json:"duration_seconds"`
	StraightLineKm  float64                    `json:"straight_line_km"`
	Maneuvers       []ManeuverResponse         `json:"maneuvers"`
	Polyline        [][]float64                `json:"polyline"`
	BoundingBox     string                     `json:"bounding_box,omitempty"`
	ResolvedOrder   []ResolvedLocationResponse `json:"resolved_order"`
	NodePath        []string                   `json:"node_path,omitempty"`
}

type BatchPlanRequest struct {
	Routes []PlanRouteRequest `json:"routes"`
}

type BatchPlanEntry struct {
	Plan  *PlanRouteResponse `json:"plan,omitempty"`
	Error string             `json:"error,omitempty"`
}

type BatchPlanResponse struct {
	Results []BatchPlanEntry `json:"results"`
}
