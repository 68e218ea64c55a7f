package services

import (
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/graph"
	"errors"
	"fmt"
)

const DefaultStepsPerSegment = 20

// SimulateRoute samples stepsPerSegment positions along every segment of path
// (t = s/n for s in [0, n)) and closes with the last node at t = 1.
// Paths with fewer than two nodes produce no frames.
func SimulateRoute(g *graph.Graph, path []string, stepsPerSegment int) ([]domain.SimulationFrame, error) {
	if g == nil {
		return nil, errors.New("simulate route: graph is nil")
	}
	if stepsPerSegment <= 0 {
		return nil, fmt.Errorf("simulate route: steps per segment must be > 0, got %d", stepsPerSegment)
	}
	if len(path) < 2 {
		return []domain.SimulationFrame{}, nil
	}

	coords := make([]graph.Point, len(path))
	for i, id := range path {
		n, err := g.Node(id)
		if err != nil {
			return nil, fmt.Errorf("simulate route: %w", err)
		}
		if n.Coord == nil {
			return nil, fmt.Errorf("simulate route: %w", &domain.MissingCoordinateError{Node: id})
		}
		coords[i] = *n.Coord
	}

	frames := make([]domain.SimulationFrame, 0, (len(path)-1)*stepsPerSegment+1)
	step := 0
	for i := 0; i+1 < len(path); i++ {
		a, b := coords[i], coords[i+1]
		for s := 0; s < stepsPerSegment; s++ {
			t := float64(s) / float64(stepsPerSegment)
			frames = append(frames, domain.SimulationFrame{
				X:        a.X + (b.X-a.X)*t,
				Y:        a.Y + (b.Y-a.Y)*t,
				From:     path[i],
				To:       path[i+1],
				Progress: t,
				Step:     step,
			})
			step++
		}
	}

	last := len(path) - 1
	frames = append(frames, domain.SimulationFrame{
		X:        coords[last].X,
		Y:        coords[last].Y,
		From:     path[last-1],
		To:       path[last],
		Progress: 1.0,
		Step:     step,
	})

	return frames, nil
}

// SimulateRoundTrip plans origin -> destination and destination -> origin
// independently, then emits both simulations with a shared step index.
// Both paths are resolved before any frame is produced.
func SimulateRoundTrip(g *graph.Graph, origin, destination string, stepsPerSegment int) (*domain.RoundTrip, error) {
	outPath, outDist, err := legPath(g, origin, destination, domain.LegOutbound)
	if err != nil {
		return nil, fmt.Errorf("simulate round trip: %w", err)
	}
	backPath, backDist, err := legPath(g, destination, origin, domain.LegReturn)
	if err != nil {
		return nil, fmt.Errorf("simulate round trip: %w", err)
	}

	outFrames, err := SimulateRoute(g, outPath, stepsPerSegment)
	if err != nil {
		return nil, fmt.Errorf("simulate round trip: outbound: %w", err)
	}
	backFrames, err := SimulateRoute(g, backPath, stepsPerSegment)
	if err != nil {
		return nil, fmt.Errorf("simulate round trip: return: %w", err)
	}

	frames := make([]domain.SimulationFrame, 0, len(outFrames)+len(backFrames))
	for _, f := range outFrames {
		f.Phase = domain.PhaseOutbound
		f.Step = len(frames)
		frames = append(frames, f)
	}
	for _, f := range backFrames {
		f.Phase = domain.PhaseReturn
		f.Step = len(frames)
		frames = append(frames, f)
	}

	return &domain.RoundTrip{
		OutboundPath:  outPath,
		ReturnPath:    backPath,
		Frames:        frames,
		TotalDistance: outDist + backDist,
	}, nil
}

func legPath(g *graph.Graph, from, to string, leg domain.Leg) ([]string, float64, error) {
	path, dist, err := graph.ShortestPath(g, from, to)
	if err != nil {
		return nil, 0, err
	}
	if len(path) == 0 {
		return nil, 0, &domain.NoPathError{From: from, To: to, Leg: leg}
	}
	return path, dist, nil
}
