package domain

// Phase tags frames of a round-trip simulation.
type Phase string

const (
	PhaseOutbound Phase = "outbound"
	PhaseReturn   Phase = "return"
)

// One sampled instant of a simulated movement along a path.
// Step increases monotonically across the whole emitted sequence.
type SimulationFrame struct {
	X        float64
	Y        float64
	From     string
	To       string
	Progress float64
	Step     int
	Phase    Phase
}

// Output of an origin -> destination -> origin simulation.
type RoundTrip struct {
	OutboundPath  []string
	ReturnPath    []string
	Frames        []SimulationFrame
	TotalDistance float64
}
