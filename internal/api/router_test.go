package api

import (
	"bytes"
	"context"
	"delivery-routing-engine/internal/adapters/directions"
	"delivery-routing-engine/internal/api/dto"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/ports"
	"delivery-routing-engine/internal/services"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGraph = `{
	"A": {"B": {"dist": 5}, "C": {"dist": 10}, "coord": {"x": 0, "y": 0}},
	"B": {"C": {"dist": 2}, "A": {"dist": 5}, "coord": {"x": 10, "y": 0}},
	"C": {"A": {"dist": 4}, "coord": {"x": 10, "y": 10}},
	"Z": {"coord": {"x": 50, "y": 50}}
}`

type fakeVehicles struct {
	profiles map[int]domain.VehicleProfile
}

func (f *fakeVehicles) GetProfile(_ context.Context, id int) (domain.VehicleProfile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return domain.VehicleProfile{}, fmt.Errorf("get profile id=%d: %w", id, ports.ErrVehicleNotFound)
	}
	return p, nil
}

func (f *fakeVehicles) ListProfiles(context.Context) ([]domain.VehicleProfile, error) {
	out := make([]domain.VehicleProfile, 0, len(f.profiles))
	for i := 1; i <= len(f.profiles); i++ {
		out = append(out, f.profiles[i])
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.RoutePlannedEvent
}

func (p *recordingPublisher) PublishRoutePlanned(_ context.Context, evt ports.RoutePlannedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func providerResponse() *ports.DirectionsResponse {
	return &ports.DirectionsResponse{Route: &ports.ProviderRoute{
		DistanceKm:  8.4,
		TimeSecs:    600,
		Legs:        []ports.ProviderLeg{{Maneuvers: []ports.ProviderManeuver{{Narrative: "Go", DistanceKm: 8.4, TimeSecs: 600}}}},
		ShapePoints: []float64{20, -103, 20.05, -103.02},
		Locations: []ports.ProviderLocation{
			{City: "Guadalajara", LatLng: &domain.Coordinates{Lat: 20, Lon: -103}},
			{City: "Tlaquepaque", LatLng: &domain.Coordinates{Lat: 20.05, Lon: -103.02}},
		},
		BoundingBox: &domain.BoundingBox{
			UpperLeft:  domain.Coordinates{Lat: 20.05, Lon: -103.02},
			LowerRight: domain.Coordinates{Lat: 20, Lon: -103},
		},
	}}
}

type testEnv struct {
	handler http.Handler
	events  *recordingPublisher
}

func newTestEnv(t *testing.T, withVehicles bool) testEnv {
	t.Helper()

	g, err := graph.LoadJSON(strings.NewReader(testGraph))
	require.NoError(t, err)

	provider := directions.NewMockDirectionsProvider([]directions.MockRoute{
		{Locations: []string{"Guadalajara", "Tlaquepaque"}, Response: providerResponse()},
		{Locations: []string{"A", "C"}, Err: errors.New("connection refused")},
		{Locations: []string{"X", "Y", "W"}, Response: &ports.DirectionsResponse{StatusCode: 402}},
	})
	planner, err := services.NewPlanner(provider, services.WithFallbackGraph(g))
	require.NoError(t, err)

	events := &recordingPublisher{}
	deps := Deps{Graph: g, Planner: planner, Events: events, StepsPerSegment: 4}
	if withVehicles {
		ev := domain.DefaultVehicleProfile(domain.PropulsionElectric)
		ev.ID = 1
		deps.Vehicles = &fakeVehicles{profiles: map[int]domain.VehicleProfile{1: ev}}
	}

	return testEnv{handler: NewRouter(deps), events: events}
}

func (e testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = env.do(t, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = env.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShortestRoute(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/routes/shortest", `{"from": "A", "to": "C"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[dto.ShortestPathResponse](t, rec)
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
	assert.Equal(t, 7.0, res.Distance)
	assert.True(t, res.Reachable)

	rec = env.do(t, http.MethodPost, "/routes/shortest", `{"from": "A", "to": "Z"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[dto.ShortestPathResponse](t, rec)
	assert.Empty(t, res.Path)
	assert.False(t, res.Reachable)

	rec = env.do(t, http.MethodPost, "/routes/shortest", `{"from": "A", "to": "Q"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/routes/shortest", `{"from": "A", "to": "C", "extra": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/routes/shortest", `{"from": "A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanRoute(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/routes/plan", `{"locations": ["Guadalajara", "Tlaquepaque"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.PlanRouteResponse](t, rec)
	assert.False(t, res.Degraded)
	assert.Equal(t, 8.4, res.DistanceKm)
	assert.Len(t, res.Maneuvers, 1)
	assert.Equal(t, [][]float64{{20, -103}, {20.05, -103.02}}, res.Polyline)
	assert.Equal(t, "20.05,-103.02,20,-103", res.BoundingBox)
	require.Len(t, res.ResolvedOrder, 2)
	assert.Equal(t, "Tlaquepaque", res.ResolvedOrder[1].Address)

	require.Len(t, env.events.events, 1)
	assert.Equal(t, 8.4, env.events.events[0].DistanceKm)
}

func TestPlanRouteFallbackAndUnavailable(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/routes/plan", `{"locations": ["A", "C"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.PlanRouteResponse](t, rec)
	assert.True(t, res.Degraded)
	assert.Equal(t, []string{"A", "B", "C"}, res.NodePath)
	assert.Empty(t, res.Maneuvers)

	rec = env.do(t, http.MethodPost, "/routes/plan", `{"locations": ["X", "Y", "W"]}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = env.do(t, http.MethodPost, "/routes/plan", `{"locations": ["X"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlanBatch(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/routes/plan/batch", `{"routes": [
		{"locations": ["Guadalajara", "Tlaquepaque"]},
		{"locations": ["X", "Y", "W"]}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[dto.BatchPlanResponse](t, rec)
	require.Len(t, res.Results, 2)
	require.NotNil(t, res.Results[0].Plan)
	assert.Empty(t, res.Results[0].Error)
	assert.Nil(t, res.Results[1].Plan)
	assert.NotEmpty(t, res.Results[1].Error)

	rec = env.do(t, http.MethodPost, "/routes/plan/batch", `{"routes": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateRoute(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/simulations/route", `{"from": "A", "to": "B"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.SimulateRouteResponse](t, rec)
	assert.Equal(t, []string{"A", "B"}, res.Path)
	require.Len(t, res.Frames, 5)
	assert.Equal(t, 1.0, res.Frames[4].Progress)
	assert.Equal(t, 10.0, res.Frames[4].X)

	rec = env.do(t, http.MethodPost, "/simulations/route", `{"path": ["A", "B", "C"], "steps": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res = decode[dto.SimulateRouteResponse](t, rec)
	assert.Len(t, res.Frames, 5)
	assert.Equal(t, 7.0, res.Distance)

	rec = env.do(t, http.MethodPost, "/simulations/route", `{"from": "A", "to": "Z"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, "/simulations/route", `{"path": ["A", "Z"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/simulations/route", `{"from": "A", "to": "B", "steps": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateRoundTrip(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/simulations/round-trip", `{"origin": "A", "destination": "C", "steps": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.RoundTripResponse](t, rec)
	assert.Equal(t, []string{"A", "B", "C"}, res.OutboundPath)
	assert.Equal(t, []string{"C", "A"}, res.ReturnPath)
	assert.Equal(t, 11.0, res.TotalDistance)
	require.Len(t, res.Frames, 8)
	assert.Equal(t, "outbound", res.Frames[0].Phase)
	assert.Equal(t, "return", res.Frames[7].Phase)

	rec = env.do(t, http.MethodPost, "/simulations/round-trip", `{"origin": "A", "destination": "Z"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTripReport(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPost, "/reports/trip", `{"distance_km": 80, "propulsion": "hybrid", "depart_at": "2026-01-01T08:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.TripReportResponse](t, rec)
	assert.Equal(t, "hybrid", res.Vehicle.Propulsion)
	assert.Equal(t, "2h 0min", res.TravelTime)
	assert.Equal(t, 160.0, res.DriverCost)
	assert.NotEmpty(t, res.Suggestions)

	rec = env.do(t, http.MethodPost, "/reports/trip", `{"distance_km": 30, "vehicle_id": 1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res = decode[dto.TripReportResponse](t, rec)
	assert.Equal(t, "electric", res.Consumption.Propulsion)
	assert.InDelta(t, 5.0, res.Consumption.EnergyKWh, 1e-9)

	rec = env.do(t, http.MethodPost, "/reports/trip", `{"distance_km": 30, "vehicle_id": 99}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/reports/trip", `{"distance_km": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/reports/trip", `{"distance_km": 10, "propulsion": "nuclear"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTripReportWithoutVehicleStore(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.do(t, http.MethodPost, "/reports/trip", `{"distance_km": 30, "vehicle_id": 1}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = env.do(t, http.MethodGet, "/vehicles", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVehicleConsumption(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/vehicles/1/consumption?distance_km=12", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dto.ConsumptionResponse](t, rec)
	assert.InDelta(t, 2.0, res.EnergyKWh, 1e-9)
	assert.InDelta(t, 5.0, res.Cost, 1e-9)
	assert.Equal(t, "very-low", res.Tier)

	rec = env.do(t, http.MethodGet, "/vehicles/1/consumption?distance_km=-3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/vehicles/1/consumption", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/vehicles/abc/consumption?distance_km=1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/vehicles/7/consumption?distance_km=1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/vehicles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[dto.ListVehiclesResponse](t, rec)
	assert.Len(t, list.Vehicles, 1)
}

func TestRequestIDIsPropagated(t *testing.T) {
	env := newTestEnv(t, false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
