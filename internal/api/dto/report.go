package dto

import "time"

// Vehicle selection: VehicleID looks up a stored profile; otherwise
// Propulsion picks the class defaults (combustion when empty).
type TripReportRequest struct {
	DistanceKm float64    `json:"distance_km"`
	VehicleID  *int       `json:"vehicle_id"`
	Propulsion string     `json:"propulsion"`
	DepartAt   *time.Time `json:"depart_at"`
}

type VehicleResponse struct {
	ID                     int     `json:"id,omitempty"`
	Model                  string  `json:"model"`
	Propulsion             string  `json:"propulsion"`
	AverageSpeedKmh        float64 `json:"average_speed_kmh"`
	KmPerLitre             float64 `json:"km_per_litre,omitempty"`
	KmPerKWh               float64 `json:"km_per_kwh,omitempty"`
	FuelPricePerLitre      float64 `json:"fuel_price_per_litre,omitempty"`
	ElectricityPricePerKWh float64 `json:"electricity_price_per_kwh,omitempty"`
}

type ConsumptionResponse struct {
	Propulsion  string  `json:"propulsion"`
	DistanceKm  float64 `json:"distance_km"`
	FuelLitres  float64 `json:"fuel_litres"`
	EnergyKWh   float64 `json:"energy_kwh"`
	Cost        float64 `json:"cost"`
	EmissionsKg float64 `json:"emissions_kg"`
	Tier        string  `json:"sustainability_tier"`
	Score       float64 `json:"sustainability_score"`
}

type TripReportResponse struct {
	Vehicle           VehicleResponse     `json:"vehicle"`
	DistanceKm        float64             `json:"distance_km"`
	TravelTime        string              `json:"travel_time"`
	TravelHours       float64             `json:"travel_hours"`
	DepartAt          time.Time           `json:"depart_at"`
	ETA               time.Time           `json:"eta"`
	Consumption       ConsumptionResponse `json:"consumption"`
	ConsumptionDetail string              `json:"consumption_detail"`
	DriverCost        float64             `json:"driver_cost"`
	TotalCost         float64             `json:"total_cost"`
	Suggestions       []string            `json:"suggestions"`
}

type ListVehiclesResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
}
