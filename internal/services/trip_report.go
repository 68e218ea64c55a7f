package services

import (
	"delivery-routing-engine/internal/domain"
	"fmt"
	"math"
	"time"
)

// Driver wage per hour of travel, in the same currency as energy prices.
const DriverWagePerHour = 80.0

type TripReport struct {
	Vehicle           domain.VehicleProfile
	DistanceKm        float64
	TravelHours       float64
	TravelTime        string
	DepartAt          time.Time
	ETA               time.Time
	Consumption       ConsumptionResult
	ConsumptionDetail string
	DriverCost        float64
	TotalCost         float64
	Tier              SustainabilityTier
	Score             float64
	Suggestions       []string
}

// BuildTripReport combines travel time, energy cost, driver wage and
// sustainability rating for one trip of distanceKm starting at departAt.
func BuildTripReport(p domain.VehicleProfile, distanceKm float64, departAt time.Time) (*TripReport, error) {
	if p.AverageSpeedKmh <= 0 {
		return nil, fmt.Errorf("build trip report: %w: average speed must be > 0", domain.ErrInvalidProfile)
	}

	c, err := Consumption(p, distanceKm)
	if err != nil {
		return nil, fmt.Errorf("build trip report: %w", err)
	}
	score, err := SustainabilityScore(p.Propulsion, c.EmissionsKg, distanceKm)
	if err != nil {
		return nil, fmt.Errorf("build trip report: %w", err)
	}

	hours := distanceKm / p.AverageSpeedKmh
	travel := time.Duration(hours * float64(time.Hour))
	wage := round2(hours * DriverWagePerHour)

	return &TripReport{
		Vehicle:           p,
		DistanceKm:        distanceKm,
		TravelHours:       hours,
		TravelTime:        FormatTravelTime(travel),
		DepartAt:          departAt,
		ETA:               departAt.Add(travel),
		Consumption:       c,
		ConsumptionDetail: ConsumptionDetail(c),
		DriverCost:        wage,
		TotalCost:         round2(c.Cost + wage),
		Tier:              TierForEmissions(c.EmissionsKg),
		Score:             score,
		Suggestions:       OptimizationSuggestions(p.Propulsion, distanceKm),
	}, nil
}

// FormatTravelTime renders d as "Xh Ymin", truncating seconds.
func FormatTravelTime(d time.Duration) string {
	mins := int(d / time.Minute)
	return fmt.Sprintf("%dh %dmin", mins/60, mins%60)
}

func ConsumptionDetail(c ConsumptionResult) string {
	switch c.Propulsion {
	case domain.PropulsionHybrid:
		return fmt.Sprintf("%.2f L of fuel + %.2f kWh of electricity", c.FuelLitres, c.EnergyKWh)
	case domain.PropulsionCombustion:
		return fmt.Sprintf("Fuel consumed: %.2f L", c.FuelLitres)
	case domain.PropulsionElectric:
		return fmt.Sprintf("Electric energy: %.2f kWh", c.EnergyKWh)
	}
	return "Consumption not available"
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
