package repositories

import (
	"context"
	"delivery-routing-engine/internal/domain"
	"delivery-routing-engine/internal/platform/db"
	"delivery-routing-engine/internal/ports"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVehicleSeeds(t *testing.T) {
	doc := `[
		{"id": 1, "model": "Aveo", "propulsion": "gasolina", "km_per_litre": 14},
		{"id": 2, "propulsion": "electric", "km_per_kwh": 7, "electricity_price_per_kwh": 3.1},
		{"id": 3, "propulsion": "hibrido", "km_per_litre": 20, "km_per_kwh": 8, "average_speed_kmh": 55}
	]`

	got, err := ParseVehicleSeeds(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.PropulsionCombustion, got[0].Propulsion)
	assert.Equal(t, "Aveo", got[0].Model)
	assert.Equal(t, 14.0, got[0].KmPerLitre)
	assert.Equal(t, 22.50, got[0].FuelPricePerLitre)

	assert.Equal(t, "BYD Dolphin", got[1].Model)
	assert.Equal(t, 3.1, got[1].ElectricityPricePerKWh)
	assert.Equal(t, 40.0, got[1].AverageSpeedKmh)

	assert.Equal(t, domain.PropulsionHybrid, got[2].Propulsion)
	assert.Equal(t, 55.0, got[2].AverageSpeedKmh)
}

func TestParseVehicleSeedsRejectsBadRecords(t *testing.T) {
	cases := map[string]string{
		"bad json":       `{`,
		"zero id":        `[{"id": 0, "propulsion": "electric", "km_per_kwh": 6}]`,
		"duplicate id":   `[{"id": 1, "propulsion": "electric", "km_per_kwh": 6}, {"id": 1, "propulsion": "electric", "km_per_kwh": 6}]`,
		"unknown class":  `[{"id": 1, "propulsion": "diesel-steam"}]`,
		"missing km/kwh": `[{"id": 1, "propulsion": "electric"}]`,
		"hybrid no fuel": `[{"id": 1, "propulsion": "hybrid", "km_per_kwh": 6}]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseVehicleSeeds(strings.NewReader(doc))
			require.Error(t, err)
		})
	}

	_, err := ParseVehicleSeeds(strings.NewReader(`[{"id": 1, "propulsion": "electric"}]`))
	assert.True(t, errors.Is(err, domain.ErrInvalidProfile))
}

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func TestSQLVehicleProfileRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, InitSchema(ctx, conn))

	seed := filepath.Join(t.TempDir(), "vehicles.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[
		{"id": 9001, "model": "Test EV", "propulsion": "electric", "km_per_kwh": 6.5}
	]`), 0o600))
	require.NoError(t, SeedVehicleProfilesFromJSON(ctx, conn, seed))
	t.Cleanup(func() { _, _ = conn.Exec(`DELETE FROM vehicle_profiles WHERE id = 9001`) })

	repo := NewSQLVehicleProfileRepository(conn)

	p, err := repo.GetProfile(ctx, 9001)
	require.NoError(t, err)
	assert.Equal(t, "Test EV", p.Model)
	assert.Equal(t, domain.PropulsionElectric, p.Propulsion)
	assert.Equal(t, 6.5, p.KmPerKWh)

	_, err = repo.GetProfile(ctx, -1)
	assert.ErrorIs(t, err, ports.ErrVehicleNotFound)

	all, err := repo.ListProfiles(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}
