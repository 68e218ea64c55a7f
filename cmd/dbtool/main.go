package main

import (
	"context"
	"database/sql"
	"delivery-routing-engine/internal/adapters/cache"
	"delivery-routing-engine/internal/adapters/repositories"
	"delivery-routing-engine/internal/config"
	"delivery-routing-engine/internal/platform/db"
	"delivery-routing-engine/internal/platform/obs"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// dbtool initializes the Postgres schema, seeds vehicle profiles and
// optionally purges expired directions cache rows.
func main() {
	seedPath := flag.String("seed", "", "vehicle seed JSON (defaults to SEED_PATH or data/seeds/vehicles.json)")
	purge := flag.Bool("purge-cache", false, "delete directions cache rows older than DIRECTIONS_CACHE_TTL")
	flag.Parse()

	config.LoadDotEnv()
	slog.SetDefault(obs.NewLogger(os.Stdout, config.Get("LOG_LEVEL", "info")))

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	if *seedPath == "" {
		*seedPath = config.Get("SEED_PATH", "data/seeds/vehicles.json")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		slog.Error("open database", "err", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, *seedPath); err != nil {
		slog.Error("dbtool failed", "err", err)
		os.Exit(1)
	}

	if *purge {
		ttl, err := time.ParseDuration(config.Get("DIRECTIONS_CACHE_TTL", "24h"))
		if err != nil {
			slog.Error("parse DIRECTIONS_CACHE_TTL", "err", err)
			os.Exit(1)
		}
		n, err := cache.NewSQLDirectionsCache(conn, ttl).Purge(ctx)
		if err != nil {
			slog.Error("purge cache", "err", err)
			os.Exit(1)
		}
		slog.Info("directions cache purged", "rows", n)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, seedPath string) error {
	slog.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	slog.Info("schema ready")

	slog.Info("seeding vehicle profiles", "path", seedPath)
	if err := repositories.SeedVehicleProfilesFromJSON(ctx, conn, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	slog.Info("seeding complete")

	return nil
}
