package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port     string
	LogLevel string

	GraphSource string // "file" or "neo4j"
	GraphPath   string
	Neo4jURL    string
	Neo4jUser   string
	Neo4jPass   string

	DatabaseURL  string
	RedisURL     string
	NATSURL      string
	EventSubject string

	MapQuestAPIKey       string
	MapQuestBaseURL      string
	DirectionsTimeout    time.Duration
	DirectionsRatePerSec float64
	DirectionsCacheTTL   time.Duration

	StepsPerSegment int
}

// LoadDotEnv loads a .env file when present; the environment wins otherwise.
func LoadDotEnv(paths ...string) {
	if err := godotenv.Load(paths...); err != nil {
		slog.Info("no .env file found (using environment variables)")
	}
}

func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads and validates all settings.
func Load() (Config, error) {
	cfg := Config{
		Port:            Get("PORT", "8080"),
		LogLevel:        Get("LOG_LEVEL", "info"),
		GraphSource:     Get("GRAPH_SOURCE", "file"),
		GraphPath:       Get("GRAPH_PATH", "data/graph.json"),
		Neo4jURL:        Get("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:       Get("NEO4J_USER", "neo4j"),
		Neo4jPass:       Get("NEO4J_PASS", ""),
		DatabaseURL:     Get("DATABASE_URL", ""),
		RedisURL:        Get("REDIS_URL", ""),
		NATSURL:         Get("NATS_URL", ""),
		EventSubject:    Get("ROUTE_EVENT_SUBJECT", "routes.planned"),
		MapQuestAPIKey:  Get("MAPQUEST_API_KEY", ""),
		MapQuestBaseURL: Get("MAPQUEST_BASE_URL", "https://www.mapquestapi.com"),
	}

	var err error
	if cfg.DirectionsTimeout, err = duration("DIRECTIONS_TIMEOUT", 15*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DirectionsCacheTTL, err = duration("DIRECTIONS_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.DirectionsRatePerSec, err = float("DIRECTIONS_RATE_PER_SEC", 5); err != nil {
		return Config{}, err
	}
	if cfg.StepsPerSegment, err = integer("SIM_STEPS_PER_SEGMENT", 20); err != nil {
		return Config{}, err
	}

	switch cfg.GraphSource {
	case "file", "neo4j":
	default:
		return Config{}, fmt.Errorf("config: GRAPH_SOURCE must be file or neo4j, got %q", cfg.GraphSource)
	}
	if cfg.DirectionsTimeout <= 0 {
		return Config{}, fmt.Errorf("config: DIRECTIONS_TIMEOUT must be positive")
	}
	if cfg.StepsPerSegment <= 0 {
		return Config{}, fmt.Errorf("config: SIM_STEPS_PER_SEGMENT must be positive")
	}

	return cfg, nil
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func float(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func integer(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
