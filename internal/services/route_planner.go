package services

import (
	"context"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const DefaultDirectionsTimeout = 15 * time.Second

// Planner resolves multi-stop routes through the directions provider and
// falls back to the local graph for point-to-point requests.
//
// Every provider failure (transport, timeout, non-zero status, incomplete
// payload) reaches the caller as a *domain.RouteUnavailableError. Nothing is
// retried. A Planner holds no mutable state and is safe for concurrent use.
type Planner struct {
	provider ports.DirectionsProvider
	cache    ports.DirectionsCache
	graph    *graph.Graph
	timeout  time.Duration
}

type PlannerOption func(*Planner)

// WithDirectionsCache consults cache before calling the provider.
func WithDirectionsCache(cache ports.DirectionsCache) PlannerOption {
	return func(p *Planner) { p.cache = cache }
}

// WithFallbackGraph enables local shortest-path fallback for two-stop requests.
func WithFallbackGraph(g *graph.Graph) PlannerOption {
	return func(p *Planner) { p.graph = g }
}

// WithTimeout bounds each provider call.
func WithTimeout(d time.Duration) PlannerOption {
	return func(p *Planner) {
		if d > 0 {
			p.timeout = d
		}
	}
}

func NewPlanner(provider ports.DirectionsProvider, opts ...PlannerOption) (*Planner, error) {
	if provider == nil {
		return nil, errors.New("new planner: provider must be non-nil")
	}
	p := &Planner{provider: provider, timeout: DefaultDirectionsTimeout}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// PlanRoute resolves maneuvers, geometry and visit order for locations.
// With optimize set the provider may reorder intermediate stops.
func (p *Planner) PlanRoute(ctx context.Context, locations []string, optimize bool) (_ *domain.RoutePlan, err error) {
	ctx, done := obs.Start(ctx, "planner.PlanRoute")
	defer done(&err)

	if len(locations) < 2 {
		return nil, fmt.Errorf("plan route: need at least 2 locations, got %d", len(locations))
	}
	cleaned := make([]string, 0, len(locations))
	for i, l := range locations {
		l = strings.Join(strings.Fields(l), " ")
		if l == "" {
			return nil, fmt.Errorf("plan route: location #%d is empty", i+1)
		}
		cleaned = append(cleaned, l)
	}

	req := ports.DirectionsRequest{Locations: cleaned, Optimize: optimize}

	plan, providerErr := p.fromProvider(ctx, req)
	if providerErr == nil {
		return plan, nil
	}

	if len(cleaned) == 2 && p.graph != nil {
		plan, fallbackErr := p.fromGraph(cleaned[0], cleaned[1])
		if fallbackErr == nil {
			slog.WarnContext(ctx, "directions provider unavailable, using local graph",
				"req_id", obs.RequestID(ctx), "from", cleaned[0], "to", cleaned[1], "err", providerErr)
			plan.Optimized = optimize
			return plan, nil
		}
		return nil, &domain.RouteUnavailableError{Cause: errors.Join(providerErr, fallbackErr)}
	}

	return nil, &domain.RouteUnavailableError{Cause: providerErr}
}

func (p *Planner) fromProvider(ctx context.Context, req ports.DirectionsRequest) (*domain.RoutePlan, error) {
	key := req.CacheKey()

	// Cache failures degrade to a provider call; they never fail the request.
	if p.cache != nil {
		resp, ok, err := p.cache.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "directions cache read failed", "req_id", obs.RequestID(ctx), "err", err)
		} else if ok {
			if plan, err := buildPlan(req, resp); err == nil {
				return plan, nil
			}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.provider.Directions(callCtx, req)
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}

	plan, err := buildPlan(req, resp)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Put(ctx, key, resp); err != nil {
			slog.WarnContext(ctx, "directions cache write failed", "req_id", obs.RequestID(ctx), "err", err)
		}
	}

	return plan, nil
}

// fromGraph answers a point-to-point request from the local graph, treating
// both descriptors as node ids.
func (p *Planner) fromGraph(from, to string) (*domain.RoutePlan, error) {
	path, dist, err := graph.ShortestPath(p.graph, from, to)
	if err != nil {
		return nil, fmt.Errorf("local fallback: %w", err)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("local fallback: %w", &domain.NoPathError{From: from, To: to})
	}

	return &domain.RoutePlan{
		Locations:  []string{from, to},
		Maneuvers:  []domain.Maneuver{},
		Polyline:   []domain.Coordinates{},
		NodePath:   path,
		DistanceKm: dist,
		Degraded:   true,
	}, nil
}

// buildPlan validates a provider payload and flattens it into a RoutePlan.
func buildPlan(req ports.DirectionsRequest, resp *ports.DirectionsResponse) (*domain.RoutePlan, error) {
	if resp == nil {
		return nil, errors.New("directions response is empty")
	}
	if resp.StatusCode != 0 {
		return nil, fmt.Errorf("directions status %d: %s", resp.StatusCode, strings.Join(resp.Messages, "; "))
	}
	route := resp.Route
	if route == nil || len(route.Legs) == 0 {
		return nil, errors.New("directions response missing route data")
	}

	maneuvers := make([]domain.Maneuver, 0)
	for _, leg := range route.Legs {
		for _, m := range leg.Maneuvers {
			maneuvers = append(maneuvers, domain.Maneuver{
				StartPoint:      m.StartPoint,
				Narrative:       m.Narrative,
				DistanceKm:      m.DistanceKm,
				DurationSeconds: m.TimeSecs,
				TurnType:        m.TurnType,
				Streets:         m.Streets,
			})
		}
	}

	polyline, err := routePolyline(route)
	if err != nil {
		return nil, err
	}
	if len(polyline) == 0 {
		return nil, errors.New("directions response missing route geometry")
	}

	order := make([]domain.ResolvedLocation, 0, len(route.Locations))
	for _, loc := range route.Locations {
		if loc.LatLng == nil {
			continue
		}
		order = append(order, domain.ResolvedLocation{
			Address:  joinAddress(loc.Street, loc.City),
			Position: *loc.LatLng,
		})
	}

	straight := 0.0
	for i := 0; i+1 < len(order); i++ {
		straight += domain.HaversineKm(order[i].Position, order[i+1].Position)
	}

	var bbox *domain.BoundingBox
	if route.BoundingBox != nil {
		b := *route.BoundingBox
		bbox = &b
	}

	// Distance comes from the route total; summing maneuvers accumulates rounding.
	return &domain.RoutePlan{
		Locations:       req.Locations,
		Optimized:       req.Optimize,
		Maneuvers:       maneuvers,
		Polyline:        polyline,
		BoundingBox:     bbox,
		ResolvedOrder:   order,
		DistanceKm:      route.DistanceKm,
		DurationSeconds: route.TimeSecs,
		StraightLineKm:  straight,
	}, nil
}

// routePolyline prefers the whole-route shape. Per-leg shapes share their
// boundary vertex, so the duplicate is dropped when concatenating.
func routePolyline(route *ports.ProviderRoute) ([]domain.Coordinates, error) {
	if len(route.ShapePoints) > 0 {
		return pairShape(route.ShapePoints)
	}

	out := make([]domain.Coordinates, 0)
	for i, leg := range route.Legs {
		pts, err := pairShape(leg.ShapePoints)
		if err != nil {
			return nil, fmt.Errorf("leg #%d: %w", i+1, err)
		}
		if len(out) > 0 && len(pts) > 0 && out[len(out)-1] == pts[0] {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	return out, nil
}

func pairShape(flat []float64) ([]domain.Coordinates, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("malformed shape: odd number of values (%d)", len(flat))
	}
	out := make([]domain.Coordinates, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		out = append(out, domain.Coordinates{Lat: flat[i], Lon: flat[i+1]})
	}
	return out, nil
}

func joinAddress(street, city string) string {
	parts := make([]string, 0, 2)
	for _, s := range []string{street, city} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
