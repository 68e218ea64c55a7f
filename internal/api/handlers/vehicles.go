package handlers

import (
	"delivery-routing-engine/internal/api/dto"
	"delivery-routing-engine/internal/ports"
	"delivery-routing-engine/internal/services"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	Vehicles ports.VehicleProfileRepository
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.Vehicles == nil {
		writeError(w, r, http.StatusServiceUnavailable, errNoVehicleStore.Error())
		return
	}

	profiles, err := h.Vehicles.ListProfiles(r.Context())
	if err != nil {
		writeServiceError(w, r, "list vehicles", err)
		return
	}

	res := dto.ListVehiclesResponse{Vehicles: make([]dto.VehicleResponse, 0, len(profiles))}
	for _, p := range profiles {
		res.Vehicles = append(res.Vehicles, toVehicle(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Consumption answers GET /vehicles/{id}/consumption?distance_km=.
func (h *VehicleHandler) Consumption(w http.ResponseWriter, r *http.Request) {
	if h.Vehicles == nil {
		writeError(w, r, http.StatusServiceUnavailable, errNoVehicleStore.Error())
		return
	}

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "vehicle id must be a positive integer")
		return
	}

	raw := r.URL.Query().Get("distance_km")
	if raw == "" {
		writeError(w, r, http.StatusBadRequest, "distance_km is required")
		return
	}
	distance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "distance_km must be a number")
		return
	}

	profile, err := h.Vehicles.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "vehicle consumption", err)
		return
	}

	c, err := services.Consumption(profile, distance)
	if err != nil {
		writeServiceError(w, r, "vehicle consumption", err)
		return
	}
	score, err := services.SustainabilityScore(profile.Propulsion, c.EmissionsKg, distance)
	if err != nil {
		writeServiceError(w, r, "vehicle consumption", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toConsumption(c, services.TierForEmissions(c.EmissionsKg), score))
}
