package services

import (
	"delivery-routing-engine/internal/domain"
	"fmt"
	"math"
)

// Share of a hybrid trip driven on the combustion engine; the rest is electric.
const HybridCombustionShare = 0.6

// Energy, cost and emissions of one trip. Fields that do not apply to the
// propulsion class stay zero.
type ConsumptionResult struct {
	Propulsion  domain.Propulsion
	DistanceKm  float64
	FuelLitres  float64
	EnergyKWh   float64
	Cost        float64
	EmissionsKg float64
}

func checkDistance(d float64) error {
	if !(d > 0) || math.IsInf(d, 1) {
		return fmt.Errorf("%w: %v km", domain.ErrInvalidDistance, d)
	}
	return nil
}

// Combustion returns fuel burnt, its price and CO2 for distanceKm.
func Combustion(p domain.VehicleProfile, distanceKm float64) (ConsumptionResult, error) {
	if err := checkDistance(distanceKm); err != nil {
		return ConsumptionResult{}, fmt.Errorf("combustion: %w", err)
	}
	if p.KmPerLitre <= 0 {
		return ConsumptionResult{}, fmt.Errorf("combustion: %w: km per litre must be > 0", domain.ErrInvalidProfile)
	}

	fuel := distanceKm / p.KmPerLitre
	return ConsumptionResult{
		Propulsion:  domain.PropulsionCombustion,
		DistanceKm:  distanceKm,
		FuelLitres:  fuel,
		Cost:        fuel * p.FuelPricePerLitre,
		EmissionsKg: fuel * p.FuelEmissionFactor,
	}, nil
}

// Electric returns energy drawn, its price and CO2 for distanceKm.
func Electric(p domain.VehicleProfile, distanceKm float64) (ConsumptionResult, error) {
	if err := checkDistance(distanceKm); err != nil {
		return ConsumptionResult{}, fmt.Errorf("electric: %w", err)
	}
	if p.KmPerKWh <= 0 {
		return ConsumptionResult{}, fmt.Errorf("electric: %w: km per kWh must be > 0", domain.ErrInvalidProfile)
	}

	energy := distanceKm / p.KmPerKWh
	return ConsumptionResult{
		Propulsion:  domain.PropulsionElectric,
		DistanceKm:  distanceKm,
		EnergyKWh:   energy,
		Cost:        energy * p.ElectricityPricePerKWh,
		EmissionsKg: energy * p.ElectricEmissionFactor,
	}, nil
}

// Hybrid splits distanceKm by HybridCombustionShare and sums both sub-legs.
func Hybrid(p domain.VehicleProfile, distanceKm float64) (ConsumptionResult, error) {
	if err := checkDistance(distanceKm); err != nil {
		return ConsumptionResult{}, fmt.Errorf("hybrid: %w", err)
	}

	fuel, err := Combustion(p, distanceKm*HybridCombustionShare)
	if err != nil {
		return ConsumptionResult{}, fmt.Errorf("hybrid: %w", err)
	}
	elec, err := Electric(p, distanceKm*(1-HybridCombustionShare))
	if err != nil {
		return ConsumptionResult{}, fmt.Errorf("hybrid: %w", err)
	}

	return ConsumptionResult{
		Propulsion:  domain.PropulsionHybrid,
		DistanceKm:  distanceKm,
		FuelLitres:  fuel.FuelLitres,
		EnergyKWh:   elec.EnergyKWh,
		Cost:        fuel.Cost + elec.Cost,
		EmissionsKg: fuel.EmissionsKg + elec.EmissionsKg,
	}, nil
}

// Consumption dispatches on the profile's propulsion class.
func Consumption(p domain.VehicleProfile, distanceKm float64) (ConsumptionResult, error) {
	switch p.Propulsion {
	case domain.PropulsionCombustion:
		return Combustion(p, distanceKm)
	case domain.PropulsionElectric:
		return Electric(p, distanceKm)
	case domain.PropulsionHybrid:
		return Hybrid(p, distanceKm)
	}
	return ConsumptionResult{}, fmt.Errorf("consumption: %w: unknown propulsion class %q", domain.ErrInvalidProfile, p.Propulsion)
}
