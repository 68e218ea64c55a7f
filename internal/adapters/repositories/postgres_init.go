package repositories

import (
	"context"
	"database/sql"
	"delivery-routing-engine/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Initialize the Postgres schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVehicleProfilesQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_profiles (
		id INTEGER PRIMARY KEY,
		model TEXT NOT NULL,
		propulsion TEXT NOT NULL,
		average_speed_kmh DOUBLE PRECISION NOT NULL DEFAULT 40,
		km_per_litre DOUBLE PRECISION NOT NULL DEFAULT 0,
		km_per_kwh DOUBLE PRECISION NOT NULL DEFAULT 0,
		fuel_price_per_litre DOUBLE PRECISION NOT NULL DEFAULT 0,
		electricity_price_per_kwh DOUBLE PRECISION NOT NULL DEFAULT 0,
		fuel_emission_factor DOUBLE PRECISION NOT NULL DEFAULT 0,
		electric_emission_factor DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createDirectionsCacheQuery := `
	CREATE TABLE IF NOT EXISTS directions_cache (
		cache_key TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_directions_cache_created_at
	ON directions_cache(created_at);
	`

	statements := []string{
		createVehicleProfilesQuery,
		createDirectionsCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VehicleSeed struct {
	ID                     int     `json:"id"`
	Model                  string  `json:"model"`
	Propulsion             string  `json:"propulsion"`
	AverageSpeedKmh        float64 `json:"average_speed_kmh"`
	KmPerLitre             float64 `json:"km_per_litre"`
	KmPerKWh               float64 `json:"km_per_kwh"`
	FuelPricePerLitre      float64 `json:"fuel_price_per_litre"`
	ElectricityPricePerKWh float64 `json:"electricity_price_per_kwh"`
	FuelEmissionFactor     float64 `json:"fuel_emission_factor"`
	ElectricEmissionFactor float64 `json:"electric_emission_factor"`
}

// ParseVehicleSeeds decodes and validates seed records. Missing prices,
// speeds and emission factors take the class defaults.
func ParseVehicleSeeds(r io.Reader) ([]domain.VehicleProfile, error) {
	var data []VehicleSeed
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse vehicle seeds: %w", err)
	}

	seen := make(map[int]struct{}, len(data))
	out := make([]domain.VehicleProfile, 0, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return nil, fmt.Errorf("parse vehicle seeds: invalid id at index %d: %d", i+1, item.ID)
		}
		if _, dup := seen[item.ID]; dup {
			return nil, fmt.Errorf("parse vehicle seeds: duplicate id %d", item.ID)
		}
		seen[item.ID] = struct{}{}

		prop, err := domain.ParsePropulsion(item.Propulsion)
		if err != nil {
			return nil, fmt.Errorf("parse vehicle seeds: id=%d: %w", item.ID, err)
		}

		p := domain.DefaultVehicleProfile(prop)
		p.ID = item.ID
		if m := strings.TrimSpace(item.Model); m != "" {
			p.Model = m
		}
		p.KmPerLitre = item.KmPerLitre
		p.KmPerKWh = item.KmPerKWh
		overridePositive(&p.AverageSpeedKmh, item.AverageSpeedKmh)
		overridePositive(&p.FuelPricePerLitre, item.FuelPricePerLitre)
		overridePositive(&p.ElectricityPricePerKWh, item.ElectricityPricePerKWh)
		overridePositive(&p.FuelEmissionFactor, item.FuelEmissionFactor)
		overridePositive(&p.ElectricEmissionFactor, item.ElectricEmissionFactor)

		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("parse vehicle seeds: id=%d: %w", item.ID, err)
		}
		out = append(out, p)
	}

	return out, nil
}

func overridePositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}

// Populate vehicle_profiles from a JSON file.
func SeedVehicleProfilesFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	if db == nil {
		return errors.New("seed vehicles: DB is nil")
	}

	f, err := os.Open(jsonPath)
	if err != nil {
		return fmt.Errorf("seed vehicles: open %q: %w", jsonPath, err)
	}
	defer f.Close()

	rows, err := ParseVehicleSeeds(f)
	if err != nil {
		return fmt.Errorf("seed vehicles: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed vehicles: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO vehicle_profiles (
		id, model, propulsion, average_speed_kmh,
		km_per_litre, km_per_kwh,
		fuel_price_per_litre, electricity_price_per_kwh,
		fuel_emission_factor, electric_emission_factor
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		model = EXCLUDED.model,
		propulsion = EXCLUDED.propulsion,
		average_speed_kmh = EXCLUDED.average_speed_kmh,
		km_per_litre = EXCLUDED.km_per_litre,
		km_per_kwh = EXCLUDED.km_per_kwh,
		fuel_price_per_litre = EXCLUDED.fuel_price_per_litre,
		electricity_price_per_kwh = EXCLUDED.electricity_price_per_kwh,
		fuel_emission_factor = EXCLUDED.fuel_emission_factor,
		electric_emission_factor = EXCLUDED.electric_emission_factor;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed vehicles: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Model, string(p.Propulsion), p.AverageSpeedKmh,
			p.KmPerLitre, p.KmPerKWh,
			p.FuelPricePerLitre, p.ElectricityPricePerKWh,
			p.FuelEmissionFactor, p.ElectricEmissionFactor,
		); err != nil {
			return fmt.Errorf("seed vehicles: insert id=%d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed vehicles: commit tx: %w", err)
	}

	return nil
}
