package services

import (
	"delivery-routing-engine/internal/domain"
	"fmt"
)

type SustainabilityTier string

const (
	TierVeryLow  SustainabilityTier = "very-low"
	TierLow      SustainabilityTier = "low"
	TierModerate SustainabilityTier = "moderate"
	TierHigh     SustainabilityTier = "high"
	TierVeryHigh SustainabilityTier = "very-high"
)

const (
	shortTripKm = 10.0
	longTripKm  = 100.0
)

// TierForEmissions buckets a trip's CO2 in kilograms.
func TierForEmissions(emissionsKg float64) SustainabilityTier {
	switch {
	case emissionsKg < 5:
		return TierVeryLow
	case emissionsKg < 15:
		return TierLow
	case emissionsKg < 30:
		return TierModerate
	case emissionsKg < 50:
		return TierHigh
	default:
		return TierVeryHigh
	}
}

var baseScore = map[domain.Propulsion]float64{
	domain.PropulsionElectric:   0.8,
	domain.PropulsionHybrid:     0.5,
	domain.PropulsionCombustion: 0.2,
}

// SustainabilityScore rates a trip from 0 to 100 by propulsion class,
// adjusted by emissions per kilometer.
func SustainabilityScore(class domain.Propulsion, emissionsKg, distanceKm float64) (float64, error) {
	if err := checkDistance(distanceKm); err != nil {
		return 0, fmt.Errorf("sustainability score: %w", err)
	}
	base, ok := baseScore[class]
	if !ok {
		return 0, fmt.Errorf("sustainability score: %w: unknown propulsion class %q", domain.ErrInvalidProfile, class)
	}

	score := base * 100
	perKm := emissionsKg / distanceKm
	switch {
	case perKm < 0.05:
		score += 20
	case perKm < 0.1:
		score += 10
	case perKm > 0.3:
		score -= 20
	case perKm > 0.2:
		score -= 10
	}

	return min(max(score, 0), 100), nil
}

// OptimizationSuggestions returns advice for the propulsion class and trip length.
func OptimizationSuggestions(class domain.Propulsion, distanceKm float64) []string {
	out := make([]string, 0, 4)

	switch class {
	case domain.PropulsionCombustion:
		out = append(out,
			"Keep tyres at the recommended pressure to cut fuel use.",
			"Avoid hard acceleration and long idling.")
		if distanceKm < shortTripKm {
			out = append(out, "Short trip: consider assigning an electric vehicle.")
		}
		if distanceKm > longTripKm {
			out = append(out, "Long trip: a hybrid vehicle would lower emissions on this route.")
		}
	case domain.PropulsionElectric:
		out = append(out, "Use regenerative braking where traffic allows.")
		if distanceKm > longTripKm {
			out = append(out, "Long trip: plan a charging stop before departure.")
		}
		if distanceKm < shortTripKm {
			out = append(out, "Short trip: batch nearby deliveries into one run.")
		}
	case domain.PropulsionHybrid:
		out = append(out, "Prefer electric mode in urban segments.")
		if distanceKm > longTripKm {
			out = append(out, "Long trip: charge fully before departure to extend electric range.")
		}
		if distanceKm < shortTripKm {
			out = append(out, "Short trip: it can run entirely on electric mode.")
		}
	}

	return out
}
