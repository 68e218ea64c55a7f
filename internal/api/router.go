package api

import (
	"delivery-routing-engine/internal/api/handlers"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/ports"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Dependencies of the HTTP surface. Vehicles and Events may be nil.
type Deps struct {
	Graph           *graph.Graph
	Planner         handlers.RoutePlanner
	Vehicles        ports.VehicleProfileRepository
	Events          ports.RouteEventPublisher
	StepsPerSegment int
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	routeHandler := &handlers.RouteHandler{Graph: d.Graph, Planner: d.Planner, Events: d.Events}
	simHandler := &handlers.SimulationHandler{Graph: d.Graph, DefaultSteps: d.StepsPerSegment}
	reportHandler := &handlers.ReportHandler{Vehicles: d.Vehicles}
	vehicleHandler := &handlers.VehicleHandler{Vehicles: d.Vehicles}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.HandleFunc("/routes/shortest", routeHandler.Shortest).Methods(http.MethodPost)
	r.HandleFunc("/routes/plan", routeHandler.Plan).Methods(http.MethodPost)
	r.HandleFunc("/routes/plan/batch", routeHandler.PlanBatch).Methods(http.MethodPost)
	r.HandleFunc("/simulations/route", simHandler.Route).Methods(http.MethodPost)
	r.HandleFunc("/simulations/round-trip", simHandler.RoundTrip).Methods(http.MethodPost)
	r.HandleFunc("/reports/trip", reportHandler.Trip).Methods(http.MethodPost)
	r.HandleFunc("/vehicles", vehicleHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/vehicles/{id}/consumption", vehicleHandler.Consumption).Methods(http.MethodGet)

	r.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)
	r.NotFoundHandler = http.HandlerFunc(handlers.NotFound)

	return otelhttp.NewHandler(requestIDMiddleware(loggingMiddleware(r)), "http.server")
}
