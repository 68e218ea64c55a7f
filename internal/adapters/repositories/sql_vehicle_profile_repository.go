package repositories

import (
	"context"
	"database/sql"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the VehicleProfileRepository port.
type SQLVehicleProfileRepository struct{ DB *sql.DB }

func NewSQLVehicleProfileRepository(db *sql.DB) *SQLVehicleProfileRepository {
	return &SQLVehicleProfileRepository{DB: db}
}

const vehicleColumns = `
	id, model, propulsion, average_speed_kmh,
	km_per_litre, km_per_kwh,
	fuel_price_per_litre, electricity_price_per_kwh,
	fuel_emission_factor, electric_emission_factor
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(r rowScanner) (domain.VehicleProfile, error) {
	var p domain.VehicleProfile
	var prop string
	if err := r.Scan(
		&p.ID, &p.Model, &prop, &p.AverageSpeedKmh,
		&p.KmPerLitre, &p.KmPerKWh,
		&p.FuelPricePerLitre, &p.ElectricityPricePerKWh,
		&p.FuelEmissionFactor, &p.ElectricEmissionFactor,
	); err != nil {
		return domain.VehicleProfile{}, err
	}

	pp, err := domain.ParsePropulsion(prop)
	if err != nil {
		return domain.VehicleProfile{}, fmt.Errorf("vehicle id=%d: %w", p.ID, err)
	}
	p.Propulsion = pp
	return p, nil
}

// Return one vehicle profile; ports.ErrVehicleNotFound when absent.
func (s *SQLVehicleProfileRepository) GetProfile(ctx context.Context, id int) (_ domain.VehicleProfile, err error) {
	defer obs.Time(ctx, "vehicles.GetProfile")(&err)

	if s.DB == nil {
		return domain.VehicleProfile{}, errors.New("sql vehicle repository: DB is nil")
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicle_profiles WHERE id = $1;`
	p, err := scanProfile(s.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.VehicleProfile{}, fmt.Errorf("get profile id=%d: %w", id, ports.ErrVehicleNotFound)
	}
	if err != nil {
		return domain.VehicleProfile{}, fmt.Errorf("get profile id=%d: %w", id, err)
	}

	return p, nil
}

// Return all vehicle profiles ordered by id.
func (s *SQLVehicleProfileRepository) ListProfiles(ctx context.Context) (_ []domain.VehicleProfile, err error) {
	defer obs.Time(ctx, "vehicles.ListProfiles")(&err)

	if s.DB == nil {
		return nil, errors.New("sql vehicle repository: DB is nil")
	}

	query := `SELECT ` + vehicleColumns + ` FROM vehicle_profiles ORDER BY id;`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: query vehicle_profiles table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.VehicleProfile, 0, 16)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list profiles: scan row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list profiles: row iteration: %w", err)
	}

	return out, nil
}
