package handlers

import (
	"context"
	"delivery-routing-engine/internal/api/dto"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/ports"
	"delivery-routing-engine/internal/services"
	"errors"
	"net/http"
	"time"
)

var errNoVehicleStore = errors.New("vehicle store is not configured")

type ReportHandler struct {
	Vehicles ports.VehicleProfileRepository
	Now      func() time.Time
}

// Trip builds a cost, time and sustainability report for one trip.
func (h *ReportHandler) Trip(w http.ResponseWriter, r *http.Request) {
	var req dto.TripReportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := resolveVehicle(r.Context(), h.Vehicles, req.VehicleID, req.Propulsion)
	if errors.Is(err, errNoVehicleStore) {
		writeError(w, r, http.StatusServiceUnavailable, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, r, "trip report", err)
		return
	}

	depart := h.now()
	if req.DepartAt != nil {
		depart = *req.DepartAt
	}

	rep, err := services.BuildTripReport(profile, req.DistanceKm, depart)
	if err != nil {
		writeServiceError(w, r, "trip report", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.TripReportResponse{
		Vehicle:           toVehicle(rep.Vehicle),
		DistanceKm:        rep.DistanceKm,
		TravelTime:        rep.TravelTime,
		TravelHours:       rep.TravelHours,
		DepartAt:          rep.DepartAt,
		ETA:               rep.ETA,
		Consumption:       toConsumption(rep.Consumption, rep.Tier, rep.Score),
		ConsumptionDetail: rep.ConsumptionDetail,
		DriverCost:        rep.DriverCost,
		TotalCost:         rep.TotalCost,
		Suggestions:       rep.Suggestions,
	})
}

func (h *ReportHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// resolveVehicle prefers a stored profile, then class defaults.
func resolveVehicle(ctx context.Context, repo ports.VehicleProfileRepository, id *int, propulsion string) (domain.VehicleProfile, error) {
	if id != nil {
		if repo == nil {
			return domain.VehicleProfile{}, errNoVehicleStore
		}
		return repo.GetProfile(ctx, *id)
	}

	class := domain.PropulsionCombustion
	if propulsion != "" {
		p, err := domain.ParsePropulsion(propulsion)
		if err != nil {
			return domain.VehicleProfile{}, err
		}
		class = p
	}
	return domain.DefaultVehicleProfile(class), nil
}

func toVehicle(p domain.VehicleProfile) dto.VehicleResponse {
	return dto.VehicleResponse{
		ID:                     p.ID,
		Model:                  p.Model,
		Propulsion:             string(p.Propulsion),
		AverageSpeedKmh:        p.AverageSpeedKmh,
		KmPerLitre:             p.KmPerLitre,
		KmPerKWh:               p.KmPerKWh,
		FuelPricePerLitre:      p.FuelPricePerLitre,
		ElectricityPricePerKWh: p.ElectricityPricePerKWh,
	}
}

func toConsumption(c services.ConsumptionResult, tier services.SustainabilityTier, score float64) dto.ConsumptionResponse {
	return dto.ConsumptionResponse{
		Propulsion:  string(c.Propulsion),
		DistanceKm:  c.DistanceKm,
		FuelLitres:  c.FuelLitres,
		EnergyKWh:   c.EnergyKWh,
		Cost:        c.Cost,
		EmissionsKg: c.EmissionsKg,
		Tier:        string(tier),
		Score:       score,
	}
}
