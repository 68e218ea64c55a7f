package domain

import (
	"fmt"
	"strings"
)

// Propulsion is the energy class a vehicle runs on.
type Propulsion string

const (
	PropulsionCombustion Propulsion = "combustion"
	PropulsionElectric   Propulsion = "electric"
	PropulsionHybrid     Propulsion = "hybrid"
)

// ParsePropulsion accepts the class names used by upstream records.
func ParsePropulsion(s string) (Propulsion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "combustion", "gasoline", "gasolina":
		return PropulsionCombustion, nil
	case "electric", "electrico", "eléctrico":
		return PropulsionElectric, nil
	case "hybrid", "hibrido", "híbrido":
		return PropulsionHybrid, nil
	}
	return "", fmt.Errorf("%w: unknown propulsion class %q", ErrInvalidProfile, s)
}

// Efficiency, price and emission parameters of one vehicle.
// Efficiencies are kilometers per litre and kilometers per kWh;
// emission factors are kilograms of CO2 per litre and per kWh.
type VehicleProfile struct {
	ID                     int
	Model                  string
	Propulsion             Propulsion
	AverageSpeedKmh        float64
	KmPerLitre             float64
	KmPerKWh               float64
	FuelPricePerLitre      float64
	ElectricityPricePerKWh float64
	FuelEmissionFactor     float64
	ElectricEmissionFactor float64
}

// Validate checks the efficiency figures the propulsion class depends on.
func (p VehicleProfile) Validate() error {
	switch p.Propulsion {
	case PropulsionCombustion:
		if p.KmPerLitre <= 0 {
			return fmt.Errorf("%w: combustion vehicle needs km per litre > 0", ErrInvalidProfile)
		}
	case PropulsionElectric:
		if p.KmPerKWh <= 0 {
			return fmt.Errorf("%w: electric vehicle needs km per kWh > 0", ErrInvalidProfile)
		}
	case PropulsionHybrid:
		if p.KmPerLitre <= 0 || p.KmPerKWh <= 0 {
			return fmt.Errorf("%w: hybrid vehicle needs km per litre and km per kWh > 0", ErrInvalidProfile)
		}
	default:
		return fmt.Errorf("%w: unknown propulsion class %q", ErrInvalidProfile, p.Propulsion)
	}
	return nil
}

var defaultModels = map[Propulsion]string{
	PropulsionCombustion: "Chevrolet Aveo 2024",
	PropulsionElectric:   "BYD Dolphin",
	PropulsionHybrid:     "Mazda 2 Hybrid",
}

// DefaultVehicleProfile is used for requests that carry no stored vehicle.
func DefaultVehicleProfile(p Propulsion) VehicleProfile {
	return VehicleProfile{
		Model:                  defaultModels[p],
		Propulsion:             p,
		AverageSpeedKmh:        40,
		KmPerLitre:             8.0,
		KmPerKWh:               6.0,
		FuelPricePerLitre:      22.50,
		ElectricityPricePerKWh: 2.50,
		FuelEmissionFactor:     2.31,
		ElectricEmissionFactor: 0.45,
	}
}
