package services

import (
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/graph"
	"errors"
	"strings"
	"testing"
)

func simGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.LoadJSON(strings.NewReader(`{
		"A": {"B": {"dist": 5}, "coord": {"x": 0, "y": 0}},
		"B": {"A": {"dist": 5}, "C": {"dist": 2}, "coord": {"x": 10, "y": 0}},
		"C": {"A": {"dist": 4}, "coord": {"x": 10, "y": 10}},
		"N": {"A": {"dist": 1}},
		"Z": {"coord": {"x": 5, "y": 5}}
	}`))
	if err != nil {
		t.Fatalf("load graph: %v", err)
	}
	return g
}

func TestSimulateRouteTwoNodes(t *testing.T) {
	g := simGraph(t)

	frames, err := SimulateRoute(g, []string{"A", "B"}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(frames))
	}
	if frames[0].Progress != 0 || frames[0].X != 0 {
		t.Fatalf("unexpected first frame: %+v", frames[0])
	}
	if frames[2].X != 5 || frames[2].Progress != 0.5 {
		t.Fatalf("unexpected midpoint: %+v", frames[2])
	}
	last := frames[4]
	if last.Progress != 1.0 || last.X != 10 || last.Y != 0 || last.To != "B" {
		t.Fatalf("unexpected last frame: %+v", last)
	}
	for i, f := range frames {
		if f.Step != i {
			t.Fatalf("frame %d has step %d", i, f.Step)
		}
		if f.Phase != "" {
			t.Fatalf("single-route frames carry no phase, got %q", f.Phase)
		}
	}
}

func TestSimulateRouteMultiSegment(t *testing.T) {
	frames, err := SimulateRoute(simGraph(t), []string{"A", "B", "C"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(frames) != 7 {
		t.Fatalf("expected 7 frames, got %d", len(frames))
	}
	if frames[3].From != "B" || frames[3].To != "C" || frames[3].X != 10 || frames[3].Y != 0 {
		t.Fatalf("second segment should start at B: %+v", frames[3])
	}
}

func TestSimulateRouteEdgeCases(t *testing.T) {
	g := simGraph(t)

	frames, err := SimulateRoute(g, []string{"A"}, 5)
	if err != nil || len(frames) != 0 {
		t.Fatalf("single node: expected no frames, got %v / %v", frames, err)
	}

	if _, err := SimulateRoute(g, []string{"A", "B"}, 0); err == nil {
		t.Fatalf("expected error for zero steps")
	}

	_, err = SimulateRoute(g, []string{"N", "A"}, 2)
	var mc *domain.MissingCoordinateError
	if !errors.As(err, &mc) || mc.Node != "N" {
		t.Fatalf("expected MissingCoordinate for N, got %v", err)
	}

	if _, err := SimulateRoute(g, []string{"A", "Q"}, 2); !errors.Is(err, domain.ErrNodeNotFound) {
		t.Fatalf("expected NodeNotFound, got %v", err)
	}
}

func TestSimulateRoundTrip(t *testing.T) {
	rt, err := SimulateRoundTrip(simGraph(t), "A", "C", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(rt.OutboundPath, ",") != "A,B,C" || strings.Join(rt.ReturnPath, ",") != "C,A" {
		t.Fatalf("unexpected paths: %v / %v", rt.OutboundPath, rt.ReturnPath)
	}
	if rt.TotalDistance != 11 {
		t.Fatalf("expected total 11, got %v", rt.TotalDistance)
	}

	// Outbound: 2 segments * 2 + 1; return: 1 segment * 2 + 1.
	if len(rt.Frames) != 8 {
		t.Fatalf("expected 8 frames, got %d", len(rt.Frames))
	}
	for i, f := range rt.Frames {
		if f.Step != i {
			t.Fatalf("frame %d has step %d", i, f.Step)
		}
		want := domain.PhaseOutbound
		if i >= 5 {
			want = domain.PhaseReturn
		}
		if f.Phase != want {
			t.Fatalf("frame %d: expected phase %s, got %s", i, want, f.Phase)
		}
	}
}

func TestSimulateRoundTripNamesFailingLeg(t *testing.T) {
	g := simGraph(t)

	_, err := SimulateRoundTrip(g, "A", "Z", 2)
	var np *domain.NoPathError
	if !errors.As(err, &np) || np.Leg != domain.LegOutbound {
		t.Fatalf("expected outbound NoPath, got %v", err)
	}

	// N -> A exists, A -> N does not.
	_, err = SimulateRoundTrip(g, "N", "A", 2)
	if !errors.As(err, &np) {
		t.Fatalf("expected NoPath, got %v", err)
	}
	if np.Leg != domain.LegReturn {
		t.Fatalf("expected return leg, got %q", np.Leg)
	}
}
