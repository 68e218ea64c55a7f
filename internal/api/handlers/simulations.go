package handlers

import (
	"delivery-routing-engine/internal/api/dto"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/services"
	"net/http"
	"strings"
)

const maxStepsPerSegment = 500

type SimulationHandler struct {
	Graph        *graph.Graph
	DefaultSteps int
}

func (h *SimulationHandler) steps(requested int) (int, bool) {
	if requested == 0 {
		requested = h.DefaultSteps
	}
	if requested == 0 {
		requested = services.DefaultStepsPerSegment
	}
	return requested, requested > 0 && requested <= maxStepsPerSegment
}

// Route simulates movement along an explicit path or the shortest from -> to path.
func (h *SimulationHandler) Route(w http.ResponseWriter, r *http.Request) {
	var req dto.SimulateRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	steps, ok := h.steps(req.Steps)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "steps must be between 1 and 500")
		return
	}

	path := req.Path
	var dist float64
	var err error
	if len(path) == 0 {
		from, to := strings.TrimSpace(req.From), strings.TrimSpace(req.To)
		if from == "" || to == "" {
			writeError(w, r, http.StatusBadRequest, "path or from/to is required")
			return
		}
		path, dist, err = graph.ShortestPath(h.Graph, from, to)
		if err != nil {
			writeServiceError(w, r, "simulate route", err)
			return
		}
		if len(path) == 0 {
			writeServiceError(w, r, "simulate route", &domain.NoPathError{From: from, To: to})
			return
		}
	} else {
		dist, err = graph.PathDistance(h.Graph, path)
		if err != nil {
			writeServiceError(w, r, "simulate route", err)
			return
		}
	}

	frames, err := services.SimulateRoute(h.Graph, path, steps)
	if err != nil {
		writeServiceError(w, r, "simulate route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SimulateRouteResponse{
		Path:     path,
		Distance: dist,
		Frames:   toFrames(frames),
	})
}

func (h *SimulationHandler) RoundTrip(w http.ResponseWriter, r *http.Request) {
	var req dto.RoundTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	origin, dest := strings.TrimSpace(req.Origin), strings.TrimSpace(req.Destination)
	if origin == "" || dest == "" {
		writeError(w, r, http.StatusBadRequest, "origin and destination are required")
		return
	}
	steps, ok := h.steps(req.Steps)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "steps must be between 1 and 500")
		return
	}

	rt, err := services.SimulateRoundTrip(h.Graph, origin, dest, steps)
	if err != nil {
		writeServiceError(w, r, "simulate round trip", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RoundTripResponse{
		OutboundPath:  rt.OutboundPath,
		ReturnPath:    rt.ReturnPath,
		TotalDistance: rt.TotalDistance,
		Frames:        toFrames(rt.Frames),
	})
}

func toFrames(frames []domain.SimulationFrame) []dto.FrameResponse {
	out := make([]dto.FrameResponse, 0, len(frames))
	for _, f := range frames {
		out = append(out, dto.FrameResponse{
			X:        f.X,
			Y:        f.Y,
			From:     f.From,
			To:       f.To,
			Progress: f.Progress,
			Step:     f.Step,
			Phase:    string(f.Phase),
		})
	}
	return out
}
