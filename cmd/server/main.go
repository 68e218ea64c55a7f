package main

import (
	"context"
	"database/sql"
	"delivery-routing-engine/internal/adapters/cache"
	"delivery-routing-engine/internal/adapters/directions"
	"delivery-routing-engine/internal/adapters/events"
	"delivery-routing-engine/internal/adapters/graphsource"
	"delivery-routing-engine/internal/adapters/repositories"
	"delivery-routing-engine/internal/api"
	"delivery-routing-engine/internal/config"
	"delivery-routing-engine/internal/graph"
	"delivery-routing-engine/internal/platform/db"
	"delivery-routing-engine/internal/platform/obs"
	"delivery-routing-engine/internal/ports"
	"delivery-routing-engine/internal/services"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
)

// main is the application composition root.
// It wires concrete adapters behind ports and starts the HTTP server.
func main() {
	config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	slog.SetDefault(obs.NewLogger(os.Stdout, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	if cfg.MapQuestAPIKey == "" {
		return errors.New("MAPQUEST_API_KEY is required")
	}

	g, closeGraph, err := loadGraph(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeGraph()
	slog.Info("graph loaded", "source", cfg.GraphSource, "nodes", g.Len())

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			return err
		}
	}

	provider, err := directions.NewMapQuestProvider(cfg.MapQuestAPIKey,
		directions.WithBaseURL(cfg.MapQuestBaseURL),
		directions.WithRateLimit(cfg.DirectionsRatePerSec),
	)
	if err != nil {
		return err
	}

	opts := []services.PlannerOption{
		services.WithFallbackGraph(g),
		services.WithTimeout(cfg.DirectionsTimeout),
	}
	dirCache, closeCache, err := directionsCache(ctx, cfg, sqlDB)
	if err != nil {
		return err
	}
	defer closeCache()
	if dirCache != nil {
		opts = append(opts, services.WithDirectionsCache(dirCache))
	}

	planner, err := services.NewPlanner(provider, opts...)
	if err != nil {
		return err
	}

	var publisher ports.RouteEventPublisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		nc, err := nats.Connect(cfg.NATSURL, nats.Name("delivery-routing-engine"))
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Drain()
		publisher = events.NewNATSPublisher(nc, cfg.EventSubject)
	}

	deps := api.Deps{
		Graph:           g,
		Planner:         planner,
		Events:          publisher,
		StepsPerSegment: cfg.StepsPerSegment,
	}
	if sqlDB != nil {
		deps.Vehicles = repositories.NewSQLVehicleProfileRepository(sqlDB)
	}

	// Timeouts leave room for a full provider call plus encoding.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.DirectionsTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadGraph(ctx context.Context, cfg config.Config) (*graph.Graph, func(), error) {
	var src ports.GraphSource
	closeFn := func() {}

	switch cfg.GraphSource {
	case "neo4j":
		driver, err := graphsource.NewNeo4jDriver(ctx, cfg.Neo4jURL, cfg.Neo4jUser, cfg.Neo4jPass)
		if err != nil {
			return nil, nil, err
		}
		closeFn = func() { _ = driver.Close(context.Background()) }
		src = graphsource.NewNeo4jSource(driver)
	default:
		src = graphsource.NewFileSource(cfg.GraphPath)
	}

	g, err := src.LoadGraph(ctx)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("load graph: %w", err)
	}
	return g, closeFn, nil
}

// directionsCache prefers Redis, then Postgres; nil when neither is configured.
func directionsCache(ctx context.Context, cfg config.Config, sqlDB *sql.DB) (ports.DirectionsCache, func(), error) {
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisDirectionsCache(client, cfg.DirectionsCacheTTL), func() { _ = client.Close() }, nil
	}
	if sqlDB != nil {
		return cache.NewSQLDirectionsCache(sqlDB, cfg.DirectionsCacheTTL), func() {}, nil
	}
	return nil, func() {}, nil
}
