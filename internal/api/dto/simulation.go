package dto

// Either Path or From/To must be set; From/To are resolved with the shortest path.
type SimulateRouteRequest struct {
	Path  []string `json:"path"`
	From  string   `json:"from"`
	To    string   `json:"to"`
	Steps int      `json:"steps"`
}

type FrameResponse struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	From     string  `json:"from"`
	To       string  `json:"to"`
	Progress float64 `json:"t"`
	Step     int     `json:"step"`
	Phase    string  `json:"phase,omitempty"`
}

type SimulateRouteResponse struct {
	Path     []string        `json:"path"`
	Distance float64         `json:"distance"`
	Frames   []FrameResponse `json:"frames"`
}

type RoundTripRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Steps       int    `json:"steps"`
}

type RoundTripResponse struct {
	OutboundPath  []string        `json:"outbound_path"`
	ReturnPath    []string        `json:"return_path"`
	TotalDistance float64         `json:"total_distance"`
	Frames        []FrameResponse `json:"frames"`
}
