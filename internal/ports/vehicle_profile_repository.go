package ports

import (
	"context"
	"delivery-routing-engine/internal/domain"
	"errors"
)

var ErrVehicleNotFound = errors.New("vehicle not found")

// Port: a boundary for retrieving vehicle profiles from the persistence layer.
type VehicleProfileRepository interface {
	GetProfile(ctx context.Context, id int) (domain.VehicleProfile, error)
	ListProfiles(ctx context.Context) ([]domain.VehicleProfile, error)
}
