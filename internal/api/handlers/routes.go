package handlers

import (
	"context"
	"delivery-routing-engine/internal/api/dto"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"delivery-routing-engine/internal/services"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const maxBatchRoutes = 25

type RoutePlanner interface {
	PlanRoute(ctx context.Context, locations []string, optimize bool) (*domain.RoutePlan, error)
}

type RouteHandler struct {
	Graph   *graph.Graph
	Planner RoutePlanner
	Events  ports.RouteEventPublisher
}

// Shortest runs Dijkstra on the loaded graph.
func (h *RouteHandler) Shortest(w http.ResponseWriter, r *http.Request) {
	var req dto.ShortestPathRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	from, to := strings.TrimSpace(req.From), strings.TrimSpace(req.To)
	if from == "" || to == "" {
		writeError(w, r, http.StatusBadRequest, "from and to are required")
		return
	}

	path, dist, err := graph.ShortestPath(h.Graph, from, to)
	if err != nil {
		writeServiceError(w, r, "shortest path", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ShortestPathResponse{
		Path:      path,
		Distance:  dist,
		Reachable: len(path) > 0,
	})
}

// Plan resolves a multi-stop route through the directions provider.
func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req dto.PlanRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Locations) < 2 {
		writeError(w, r, http.StatusBadRequest, "at least 2 locations are required")
		return
	}

	plan, err := h.Planner.PlanRoute(r.Context(), req.Locations, req.Optimize)
	if err != nil {
		writeServiceError(w, r, "plan route", err)
		return
	}
	h.publish(r.Context(), plan)

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

// PlanBatch plans independent routes concurrently; failures are reported per entry.
func (h *RouteHandler) PlanBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Routes) == 0 || len(req.Routes) > maxBatchRoutes {
		writeError(w, r, http.StatusBadRequest, "routes must contain between 1 and 25 entries")
		return
	}

	reqs := make([]services.RouteRequest, 0, len(req.Routes))
	for _, rr := range req.Routes {
		reqs = append(reqs, services.RouteRequest{Locations: rr.Locations, Optimize: rr.Optimize})
	}

	results := services.PlanBatch(r.Context(), h.Planner, reqs, services.DefaultBatchConcurrency)

	res := dto.BatchPlanResponse{Results: make([]dto.BatchPlanEntry, 0, len(results))}
	for _, br := range results {
		if br.Err != nil {
			res.Results = append(res.Results, dto.BatchPlanEntry{Error: br.Err.Error()})
			continue
		}
		h.publish(r.Context(), br.Plan)
		p := toPlanResponse(br.Plan)
		res.Results = append(res.Results, dto.BatchPlanEntry{Plan: &p})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// publish is best effort; a broker outage never fails the request.
func (h *RouteHandler) publish(ctx context.Context, plan *domain.RoutePlan) {
	if h.Events == nil {
		return
	}
	evt := ports.RoutePlannedEvent{
		Locations:       plan.Locations,
		Optimized:       plan.Optimized,
		Degraded:        plan.Degraded,
		DistanceKm:      plan.DistanceKm,
		DurationSeconds: plan.DurationSeconds,
		PlannedAt:       time.Now().UTC(),
	}
	if plan.BoundingBox != nil {
		evt.BoundingBox = plan.BoundingBox.String()
	}
	if err := h.Events.PublishRoutePlanned(ctx, evt); err != nil {
		slog.WarnContext(ctx, "publish route planned failed", "req_id", obs.RequestID(ctx), "err", err)
	}
}

func toPlanResponse(p *domain.RoutePlan) dto.PlanRouteResponse {
	res := dto.PlanRouteResponse{
		Locations:       p.Locations,
		Optimized:       p.Optimized,
		Degraded:        p.Degraded,
		DistanceKm:      p.DistanceKm,
		DurationSeconds: p.DurationSeconds,
		StraightLineKm:  p.StraightLineKm,
		Maneuvers:       make([]dto.ManeuverResponse, 0, len(p.Maneuvers)),
		Polyline:        make([][]float64, 0, len(p.Polyline)),
		ResolvedOrder:   make([]dto.ResolvedLocationResponse, 0, len(p.ResolvedOrder)),
		NodePath:        p.NodePath,
	}
	for _, m := range p.Maneuvers {
		res.Maneuvers = append(res.Maneuvers, dto.ManeuverResponse{
			StartPoint:      m.StartPoint.CoordsToList(),
			Narrative:       m.Narrative,
			DistanceKm:      m.DistanceKm,
			DurationSeconds: m.DurationSeconds,
			TurnType:        m.TurnType,
			Streets:         m.Streets,
		})
	}
	for _, c := range p.Polyline {
		res.Polyline = append(res.Polyline, c.CoordsToList())
	}
	for _, l := range p.ResolvedOrder {
		res.ResolvedOrder = append(res.ResolvedOrder, dto.ResolvedLocationResponse{
			Address:  l.Address,
			Position: l.Position.CoordsToList(),
		})
	}
	if p.BoundingBox != nil {
		res.BoundingBox = p.BoundingBox.String()
	}
	return res
}
